package testaddon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

type TestAddon interface {
	ReplaceUnsupportedFilenameCharacters(s string) string
	CopyDirectory(sourceDir string, targetDir string) error
	CopyFile(sourceFile string, targetFile string) error
	SaveBundleMetadata(outputDir string, bundleName string) error
}

type testAddon struct {
	logger         log.Logger
	commandFactory command.Factory
}

func NewTestAddon(logger log.Logger, commandFactory command.Factory) TestAddon {
	return &testAddon{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

// ReplaceUnsupportedFilenameCharacters Replaces characters '/' and ':', which are unsupported in filenames
func (t testAddon) ReplaceUnsupportedFilenameCharacters(s string) string {
	s = strings.Replace(s, "/", "-", -1)
	s = strings.Replace(s, ":", "-", -1)
	return s
}

// CopyDirectory copies the content of sourceDir into targetDir.
func (t testAddon) CopyDirectory(sourceDir string, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", targetDir, err)
	}

	// the trailing `/.` means to copy the content, not the dir itself
	// -a means a better recursive, with symlinks handling and everything
	return t.copy(filepath.Clean(sourceDir)+"/.", targetDir+"/")
}

func (t testAddon) CopyFile(sourceFile string, targetFile string) error {
	if err := os.MkdirAll(filepath.Dir(targetFile), 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", filepath.Dir(targetFile), err)
	}

	return t.copy(sourceFile, targetFile)
}

func (t testAddon) copy(source, target string) error {
	cmd := t.commandFactory.Create("cp", []string{"-a", source, target}, nil)
	t.logger.Debugf("$ %s", cmd.PrintableCommandArgs())
	if out, err := cmd.RunAndReturnTrimmedCombinedOutput(); err != nil {
		return fmt.Errorf("copy failed: %w, output: %s", err, out)
	}

	return nil
}

func (t testAddon) SaveBundleMetadata(outputDir string, bundleName string) error {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	if err = os.WriteFile(filepath.Join(outputDir, "test-info.json"), bytes, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
