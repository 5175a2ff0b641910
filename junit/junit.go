package junit

import (
	"path/filepath"
	"strings"
)

const (
	reportFilePrefix = "TEST-"
	reportFileExt    = ".xml"
)

// Outcome ...
type Outcome int

// Outcomes ...
const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "passed"
	}
}

// TestCase is a single <testcase> block of a report.
type TestCase struct {
	ClassName string
	Name      string
	Outcome   Outcome
}

// ID returns the class_name#test_name identifier of the test case.
// Empty when either attribute is missing.
func (c TestCase) ID() string {
	if c.ClassName == "" || c.Name == "" {
		return ""
	}
	return c.ClassName + "#" + c.Name
}

// Suite holds the counters of a <testsuite> element.
type Suite struct {
	Name     string
	Tests    int
	Failures int
	Errors   int
	Skipped  int
	Time     float64
}

// Report ...
type Report struct {
	Suites    []Suite
	TestCases []TestCase
}

// ReportFile is a parsed report together with its location.
type ReportFile struct {
	Path    string
	RelPath string
	Module  string
	Report  Report
	// Malformed is set when the report could only be read partially.
	Malformed bool
}

// IsReportFile reports whether name follows the TEST-<class>.xml convention of Gradle and Surefire.
func IsReportFile(name string) bool {
	return strings.HasPrefix(name, reportFilePrefix) && filepath.Ext(name) == reportFileExt
}

// ModuleName derives the build module a report belongs to from its path relative to the search root:
// hibernate-core/target/test-results/test/TEST-a.xml -> hibernate-core
func ModuleName(root, relPath string) string {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for idx, part := range parts {
		if (part == "target" || part == "build") && idx > 0 {
			return parts[idx-1]
		}
	}
	if len(parts) > 1 {
		return parts[0]
	}
	return filepath.Base(root)
}
