package triage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitrise-steplib/steps-junit-triage/allowlist"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
)

// Summary is the outcome of a triage run.
type Summary struct {
	Failed []string
	// Unexpected failures are the failed tests missing from the allowlist, sorted.
	Unexpected []string
	// DroppedUnidentifiable counts failing test cases without classname or name attribute.
	DroppedUnidentifiable int
}

// FailedCount ...
func (s Summary) FailedCount() int {
	return len(s.Failed)
}

// UnexpectedCount ...
func (s Summary) UnexpectedCount() int {
	return len(s.Unexpected)
}

// Succeeded reports whether every failure was allowlisted.
func (s Summary) Succeeded() bool {
	return len(s.Unexpected) == 0
}

// String renders the summary artifact:
//
//	FAILED=<n>
//	UNEXPECTED=<n>
//	Unexpected failures:
//	<id>...
//
// The list block is only present when there are unexpected failures.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FAILED=%d\n", s.FailedCount())
	fmt.Fprintf(&b, "UNEXPECTED=%d\n", s.UnexpectedCount())
	if len(s.Unexpected) > 0 {
		b.WriteString("Unexpected failures:\n")
		for _, id := range s.Unexpected {
			b.WriteString(id)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// UnexpectedFailuresError is returned when failures outside of the allowlist remain.
type UnexpectedFailuresError struct {
	Count int
	IDs   []string
}

func (e *UnexpectedFailuresError) Error() string {
	return fmt.Sprintf("unexpected test failures: %d", e.Count)
}

// FailedIDs returns the sorted, deduplicated identifiers of the failing test cases
// and the number of failing test cases that could not be identified.
func FailedIDs(reports []junit.Report) ([]string, int) {
	failed := map[string]struct{}{}
	dropped := 0
	for _, report := range reports {
		for _, testCase := range report.TestCases {
			if testCase.Outcome != junit.Failed {
				continue
			}
			id := testCase.ID()
			if id == "" {
				dropped++
				continue
			}
			failed[id] = struct{}{}
		}
	}
	return sortedKeys(failed), dropped
}

// Triage subtracts the allowlist from the failed tests of the reports.
// The returned error is an *UnexpectedFailuresError when unexpected failures remain;
// the summary is complete in both cases.
func Triage(reports []junit.Report, allowed allowlist.Set) (Summary, error) {
	failed, dropped := FailedIDs(reports)

	var unexpected []string
	for _, id := range failed {
		if !allowed.Contains(id) {
			unexpected = append(unexpected, id)
		}
	}

	summary := Summary{
		Failed:                failed,
		Unexpected:            unexpected,
		DroppedUnidentifiable: dropped,
	}
	if summary.Succeeded() {
		return summary, nil
	}

	return summary, &UnexpectedFailuresError{
		Count: len(unexpected),
		IDs:   append([]string(nil), unexpected...),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
