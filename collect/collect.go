package collect

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-junit-triage/fileremover"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
)

const (
	// TimestampLayout is appended to the destination prefix: <prefix>-20251103-143022
	TimestampLayout = "20060102-150405"

	resultsDirName   = "test-results"
	logsDirName      = "logs"
	manifestFileName = "collection.json"
)

// ErrDestinationExists is returned when the timestamped collection directory is already present.
var ErrDestinationExists = errors.New("collection destination already exists")

// Copier ...
type Copier interface {
	CopyDirectory(sourceDir string, targetDir string) error
	CopyFile(sourceFile string, targetFile string) error
}

// Opts ...
type Opts struct {
	SourceRoot   string
	DestPrefix   string
	Timestamp    time.Time
	LogPath      string
	ReportFiles  []junit.ReportFile
	RemoveSource bool
}

// Manifest is written as collection.json into the collection directory.
type Manifest struct {
	Timestamp     string   `json:"timestamp"`
	SourceRoot    string   `json:"source_root"`
	CollectionDir string   `json:"collection_dir"`
	LogCopy       *string  `json:"log_copy"`
	Modules       []string `json:"modules"`
}

// Collector ...
type Collector interface {
	Collect(opts Opts) (string, error)
}

type collector struct {
	logger      log.Logger
	copier      Copier
	fileManager fileutil.FileManager
	pathChecker pathutil.PathChecker
	fileRemover fileremover.FileRemover
}

// NewCollector ...
func NewCollector(logger log.Logger, copier Copier, fileManager fileutil.FileManager, pathChecker pathutil.PathChecker, fileRemover fileremover.FileRemover) Collector {
	return &collector{
		logger:      logger,
		copier:      copier,
		fileManager: fileManager,
		pathChecker: pathChecker,
		fileRemover: fileRemover,
	}
}

// Collect copies the report tree into <DestPrefix>-<timestamp> and returns that directory.
// Without report files there is nothing to collect and the returned directory is empty.
func (c collector) Collect(opts Opts) (string, error) {
	if len(opts.ReportFiles) == 0 {
		c.logger.Warnf("No test results to collect from %s", opts.SourceRoot)
		return "", nil
	}

	timestamp := opts.Timestamp.Format(TimestampLayout)
	collectionDir := fmt.Sprintf("%s-%s", opts.DestPrefix, timestamp)

	c.logger.Println()
	c.logger.Infof("Collecting test results")
	c.logger.Printf("- source: %s", opts.SourceRoot)
	c.logger.Printf("- destination: %s", collectionDir)

	exists, err := c.pathChecker.IsPathExists(collectionDir)
	if err != nil {
		return "", fmt.Errorf("failed to check collection destination (%s): %w", collectionDir, err)
	}
	if exists {
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, collectionDir)
	}

	if err := c.copier.CopyDirectory(opts.SourceRoot, filepath.Join(collectionDir, resultsDirName)); err != nil {
		return "", fmt.Errorf("failed to copy test results: %w", err)
	}

	logCopy, err := c.copyLog(opts.LogPath, collectionDir)
	if err != nil {
		return "", err
	}

	manifest := Manifest{
		Timestamp:     timestamp,
		SourceRoot:    opts.SourceRoot,
		CollectionDir: collectionDir,
		LogCopy:       logCopy,
		Modules:       moduleNames(opts.ReportFiles),
	}
	if err := c.writeManifest(collectionDir, manifest); err != nil {
		return "", err
	}

	if opts.RemoveSource {
		c.logger.Printf("Removing collected source: %s", opts.SourceRoot)
		if err := c.fileRemover.RemoveAll(opts.SourceRoot); err != nil {
			return "", fmt.Errorf("failed to remove collected source (%s): %w", opts.SourceRoot, err)
		}
	}

	c.logger.Donef("Collected %d module(s) into %s", len(manifest.Modules), collectionDir)
	return collectionDir, nil
}

func (c collector) copyLog(logPath, collectionDir string) (*string, error) {
	if logPath == "" {
		return nil, nil
	}

	exists, err := c.pathChecker.IsPathExists(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check log file (%s): %w", logPath, err)
	}
	if !exists {
		c.logger.Warnf("Log file not found: %s", logPath)
		return nil, nil
	}

	logCopy := filepath.Join(collectionDir, logsDirName, filepath.Base(logPath))
	if err := c.copier.CopyFile(logPath, logCopy); err != nil {
		return nil, fmt.Errorf("failed to copy log file: %w", err)
	}
	c.logger.Printf("Copied log file to: %s", logCopy)

	return &logCopy, nil
}

func (c collector) writeManifest(collectionDir string, manifest Manifest) error {
	bytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode collection manifest: %w", err)
	}

	pth := filepath.Join(collectionDir, manifestFileName)
	if err := c.fileManager.Write(pth, string(bytes), 0644); err != nil {
		return fmt.Errorf("failed to write collection manifest: %w", err)
	}
	c.logger.Printf("Wrote manifest: %s", pth)

	return nil
}

// Relocate points the report files at their copies inside collectionDir.
func Relocate(reportFiles []junit.ReportFile, collectionDir string) []junit.ReportFile {
	relocated := make([]junit.ReportFile, len(reportFiles))
	for i, reportFile := range reportFiles {
		reportFile.Path = filepath.Join(collectionDir, resultsDirName, reportFile.RelPath)
		relocated[i] = reportFile
	}
	return relocated
}

func moduleNames(reportFiles []junit.ReportFile) []string {
	seen := map[string]bool{}
	var modules []string
	for _, reportFile := range reportFiles {
		if seen[reportFile.Module] {
			continue
		}
		seen[reportFile.Module] = true
		modules = append(modules, reportFile.Module)
	}
	sort.Strings(modules)
	return modules
}
