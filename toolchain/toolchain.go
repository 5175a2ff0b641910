package toolchain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/hashicorp/go-version"
)

const (
	gradlePropertiesFileName = "gradle.properties"
	// MinJavaVersionProperty is the gradle.properties key holding the minimum JDK of the project.
	MinJavaVersionProperty = "orm.jdk.min"
)

var javaVersionPattern = regexp.MustCompile(`version "([^"]+)"`)

// VersionReader ...
type VersionReader interface {
	JavaVersion() (*version.Version, error)
}

type javaVersionReader struct {
	logger         log.Logger
	commandFactory command.Factory
}

// NewJavaVersionReader ...
func NewJavaVersionReader(logger log.Logger, commandFactory command.Factory) VersionReader {
	return &javaVersionReader{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

// JavaVersion runs `java -version`, which prints to stderr.
func (r javaVersionReader) JavaVersion() (*version.Version, error) {
	cmd := r.commandFactory.Create("java", []string{"-version"}, nil)
	r.logger.Debugf("$ %s", cmd.PrintableCommandArgs())

	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return nil, fmt.Errorf("java version command failed: %w, output: %s", err, out)
		}
		return nil, fmt.Errorf("failed to run java command: %w", err)
	}

	return ParseJavaVersion(out)
}

// ParseJavaVersion extracts the version from the output of `java -version`.
func ParseJavaVersion(out string) (*version.Version, error) {
	match := javaVersionPattern.FindStringSubmatch(out)
	if len(match) < 2 {
		return nil, fmt.Errorf("no java version found in output: %s", out)
	}

	return NormalizeJavaVersion(match[1])
}

// NormalizeJavaVersion converts legacy 1.x versions (1.8.0_292) to their modern form (8.0.292).
func NormalizeJavaVersion(raw string) (*version.Version, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(raw), "1.")
	normalized = strings.ReplaceAll(normalized, "_", ".")

	v, err := version.NewVersion(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid java version (%s): %w", raw, err)
	}
	return v, nil
}

// ReadGradleProperty returns the value of key from a gradle.properties formatted reader, or "" if it is not set.
func ReadGradleProperty(r io.Reader, key string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		separator := strings.IndexAny(line, "=:")
		if separator < 0 {
			continue
		}
		if strings.TrimSpace(line[:separator]) != key {
			continue
		}
		return strings.TrimSpace(line[separator+1:]), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", nil
}

// Checker ...
type Checker interface {
	Check(minVersion, projectDir string) error
}

type checker struct {
	logger        log.Logger
	versionReader VersionReader
	pathChecker   pathutil.PathChecker
}

// NewChecker ...
func NewChecker(logger log.Logger, versionReader VersionReader, pathChecker pathutil.PathChecker) Checker {
	return &checker{
		logger:        logger,
		versionReader: versionReader,
		pathChecker:   pathChecker,
	}
}

// Check fails if the installed Java is older than minVersion.
// Without minVersion the project's gradle.properties is consulted; without either there is nothing to check.
func (c checker) Check(minVersion, projectDir string) error {
	required := minVersion
	if required == "" {
		fromProject, err := c.projectMinVersion(projectDir)
		if err != nil {
			return err
		}
		required = fromProject
	}
	if required == "" {
		c.logger.Debugf("No minimum Java version configured")
		return nil
	}

	c.logger.Println()
	c.logger.Infof("Checking Java toolchain")

	minimum, err := NormalizeJavaVersion(required)
	if err != nil {
		return err
	}

	current, err := c.versionReader.JavaVersion()
	if err != nil {
		return fmt.Errorf("failed to determine Java version: %w", err)
	}
	c.logger.Printf("- java version: %s", current)
	c.logger.Printf("- minimum: %s", minimum)

	if current.LessThan(minimum) {
		return fmt.Errorf("java %s is older than the required minimum %s", current, minimum)
	}

	c.logger.Donef("Java toolchain is compatible")
	return nil
}

func (c checker) projectMinVersion(projectDir string) (string, error) {
	pth := filepath.Join(projectDir, gradlePropertiesFileName)
	exists, err := c.pathChecker.IsPathExists(pth)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", pth, err)
	}
	if !exists {
		return "", nil
	}

	f, err := os.Open(pth)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", pth, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warnf("Failed to close %s: %s", pth, err)
		}
	}()

	value, err := ReadGradleProperty(f, MinJavaVersionProperty)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", pth, err)
	}
	if value != "" {
		c.logger.Printf("Minimum Java version from %s: %s", pth, value)
	}
	return value, nil
}
