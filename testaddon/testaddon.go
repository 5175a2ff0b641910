package testaddon

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bitrise-steplib/steps-junit-triage/junit"
)

// Exporter ...
type Exporter interface {
	CopyAndSaveMetadata(info AddonCopy) error
}

type exporter struct {
	testAddon TestAddon
}

// NewExporter ...
func NewExporter(testAddon TestAddon) Exporter {
	return &exporter{
		testAddon: testAddon,
	}
}

// AddonCopy ...
type AddonCopy struct {
	ReportFiles     []junit.ReportFile
	TargetAddonPath string
}

// CopyAndSaveMetadata creates one test bundle per module, named after the module,
// holding the module's report files and a test-info.json.
func (e exporter) CopyAndSaveMetadata(info AddonCopy) error {
	byModule := map[string][]junit.ReportFile{}
	for _, reportFile := range info.ReportFiles {
		byModule[reportFile.Module] = append(byModule[reportFile.Module], reportFile)
	}

	modules := make([]string, 0, len(byModule))
	for module := range byModule {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	for _, module := range modules {
		bundleName := e.testAddon.ReplaceUnsupportedFilenameCharacters(module)
		addonPerStepOutputDir := filepath.Join(info.TargetAddonPath, bundleName)

		for _, reportFile := range byModule[module] {
			target := filepath.Join(addonPerStepOutputDir, e.testAddon.ReplaceUnsupportedFilenameCharacters(filepath.ToSlash(reportFile.RelPath)))
			if err := e.testAddon.CopyFile(reportFile.Path, target); err != nil {
				return fmt.Errorf("failed to copy %s: %w", reportFile.RelPath, err)
			}
		}
		if err := e.testAddon.SaveBundleMetadata(addonPerStepOutputDir, bundleName); err != nil {
			return err
		}
	}
	return nil
}
