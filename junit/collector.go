package junit

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"golang.org/x/sync/errgroup"
)

// Collector finds and parses the report files under a directory.
type Collector interface {
	Collect(root string, recursive bool) ([]ReportFile, error)
}

type collector struct {
	logger      log.Logger
	pathChecker pathutil.PathChecker
	parallelism int
}

// NewCollector ...
func NewCollector(logger log.Logger, pathChecker pathutil.PathChecker) Collector {
	return &collector{
		logger:      logger,
		pathChecker: pathChecker,
		parallelism: runtime.NumCPU(),
	}
}

// Collect returns the parsed report files sorted by path.
// A missing root directory yields no report files.
func (c collector) Collect(root string, recursive bool) ([]ReportFile, error) {
	exists, err := c.pathChecker.IsDirExists(root)
	if err != nil {
		return nil, fmt.Errorf("failed to check report directory (%s): %w", root, err)
	}
	if !exists {
		c.logger.Warnf("Report directory (%s) does not exist, no test results to triage", root)
		return nil, nil
	}

	paths, err := findReportPaths(root, recursive)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("Found %d report file(s) in %s", len(paths), root)

	reportFiles := make([]ReportFile, len(paths))

	group := new(errgroup.Group)
	group.SetLimit(c.parallelism)
	for i, pth := range paths {
		group.Go(func() error {
			reportFile, err := c.parseFile(root, pth)
			if err != nil {
				return err
			}
			reportFiles[i] = reportFile
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reportFiles, nil
}

func (c collector) parseFile(root, pth string) (ReportFile, error) {
	relPath, err := filepath.Rel(root, pth)
	if err != nil {
		relPath = filepath.Base(pth)
	}

	f, err := os.Open(pth)
	if err != nil {
		return ReportFile{}, fmt.Errorf("failed to open report (%s): %w", pth, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warnf("Failed to close report (%s): %s", pth, err)
		}
	}()

	report, err := Parse(f)
	malformed := err != nil
	if err != nil {
		var syntaxErr *xml.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return ReportFile{}, fmt.Errorf("failed to read report (%s): %w", pth, err)
		}
		c.logger.Warnf("Report (%s) is malformed, using the %d test case(s) read before line %d: %s", pth, len(report.TestCases), syntaxErr.Line, syntaxErr.Msg)
	}

	return ReportFile{
		Path:      pth,
		RelPath:   relPath,
		Module:    ModuleName(root, relPath),
		Report:    report,
		Malformed: malformed,
	}, nil
}

func findReportPaths(root string, recursive bool) ([]string, error) {
	var paths []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to list report directory (%s): %w", root, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && IsReportFile(entry.Name()) {
				paths = append(paths, filepath.Join(root, entry.Name()))
			}
		}
		return paths, nil
	}

	if err := filepath.WalkDir(root, func(pth string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() && IsReportFile(entry.Name()) {
			paths = append(paths, pth)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to walk report directory (%s): %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
