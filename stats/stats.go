package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
	"github.com/bitrise-steplib/steps-junit-triage/triage"
)

// Totals ...
type Totals struct {
	Files          int     `json:"files"`
	MalformedFiles int     `json:"malformed_files"`
	Tests          int     `json:"tests"`
	Failures       int     `json:"failures"`
	Errors         int     `json:"errors"`
	Skipped        int     `json:"skipped"`
	Time           float64 `json:"time"`
}

func (t *Totals) add(suite junit.Suite) {
	t.Tests += suite.Tests
	t.Failures += suite.Failures
	t.Errors += suite.Errors
	t.Skipped += suite.Skipped
	t.Time += suite.Time
}

// Statistics holds the <testsuite> counters summed overall and per build module.
type Statistics struct {
	Overall Totals            `json:"overall"`
	Modules map[string]Totals `json:"modules"`
}

// Aggregate ...
func Aggregate(reportFiles []junit.ReportFile) Statistics {
	statistics := Statistics{Modules: map[string]Totals{}}

	for _, reportFile := range reportFiles {
		module := statistics.Modules[reportFile.Module]
		module.Files++
		statistics.Overall.Files++
		if reportFile.Malformed {
			module.MalformedFiles++
			statistics.Overall.MalformedFiles++
		}

		for _, suite := range reportFile.Report.Suites {
			module.add(suite)
			statistics.Overall.add(suite)
		}

		statistics.Modules[reportFile.Module] = module
	}

	return statistics
}

// ModuleNames returns the module names in ascending order.
func (s Statistics) ModuleNames() []string {
	names := make([]string, 0, len(s.Modules))
	for name := range s.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Print ...
func (s Statistics) Print(logger log.Logger) {
	logger.Println()
	logger.Infof("Aggregated totals (all modules):")
	logger.Printf("  Report files: %d", s.Overall.Files)
	logger.Printf("  Tests:        %d", s.Overall.Tests)
	logger.Printf("  Failures:     %d", s.Overall.Failures)
	logger.Printf("  Errors:       %d", s.Overall.Errors)
	logger.Printf("  Skipped:      %d", s.Overall.Skipped)
	logger.Printf("  Duration:     %s", FriendlyDuration(s.Overall.Time))
	if s.Overall.MalformedFiles > 0 {
		logger.Warnf("  Malformed:    %d (read partially)", s.Overall.MalformedFiles)
	}

	if len(s.Modules) == 0 {
		logger.Println()
		logger.Warnf("No JUnit XML files discovered.")
		return
	}

	logger.Println()
	logger.Printf("%-25s %12s %8s %10s %10s %10s %10s", "Module", "Duration", "Files", "Tests", "Failures", "Errors", "Skipped")
	for _, name := range s.ModuleNames() {
		module := s.Modules[name]
		logger.Printf("%-25s %12s %8d %10d %10d %10d %10d", name, FriendlyDuration(module.Time), module.Files, module.Tests, module.Failures, module.Errors, module.Skipped)
	}
}

// FriendlyDuration formats seconds as "1h 2m 3s".
func FriendlyDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}

	total := int(math.Round(seconds))
	hours, rem := total/3600, total%3600
	minutes, secs := rem/60, rem%60

	var chunks []string
	if hours > 0 {
		chunks = append(chunks, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		chunks = append(chunks, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(chunks) == 0 {
		chunks = append(chunks, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(chunks, " ")
}

// Payload is the JSON document written next to the summary artifact.
type Payload struct {
	GeneratedAt           string            `json:"generated_at"`
	Root                  string            `json:"root"`
	Overall               Totals            `json:"overall"`
	Modules               map[string]Totals `json:"modules"`
	Failed                int               `json:"failed"`
	Unexpected            int               `json:"unexpected"`
	UnexpectedFailures    []string          `json:"unexpected_failures"`
	DroppedUnidentifiable int               `json:"dropped_unidentifiable"`
	MalformedReports      int               `json:"malformed_reports"`
}

// NewPayload ...
func NewPayload(root string, statistics Statistics, summary triage.Summary, generatedAt time.Time) Payload {
	unexpected := summary.Unexpected
	if unexpected == nil {
		unexpected = []string{}
	}

	return Payload{
		GeneratedAt:           generatedAt.UTC().Format(time.RFC3339),
		Root:                  root,
		Overall:               statistics.Overall,
		Modules:               statistics.Modules,
		Failed:                summary.FailedCount(),
		Unexpected:            summary.UnexpectedCount(),
		UnexpectedFailures:    unexpected,
		DroppedUnidentifiable: summary.DroppedUnidentifiable,
		MalformedReports:      statistics.Overall.MalformedFiles,
	}
}

// WritePayload ...
func WritePayload(fileManager fileutil.FileManager, pth string, payload Payload) error {
	bytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}
	if err := fileManager.Write(pth, string(bytes)+"\n", 0644); err != nil {
		return fmt.Errorf("failed to write statistics (%s): %w", pth, err)
	}
	return nil
}
