package allowlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const commentPrefix = "#"

// Set holds the class_name#test_name identifiers of known failures.
type Set map[string]struct{}

// Contains ...
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len ...
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the entries in ascending order.
func (s Set) Sorted() []string {
	entries := make([]string, 0, len(s))
	for entry := range s {
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries
}

// Parse reads one identifier per line, trimming whitespace and skipping blank and # comment lines.
func Parse(r io.Reader) (Set, error) {
	set := Set{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allowlist: %w", err)
	}

	return set, nil
}

// Loader ...
type Loader interface {
	Load(pth string) (Set, error)
}

type loader struct {
	logger      log.Logger
	pathChecker pathutil.PathChecker
}

// NewLoader ...
func NewLoader(logger log.Logger, pathChecker pathutil.PathChecker) Loader {
	return &loader{
		logger:      logger,
		pathChecker: pathChecker,
	}
}

// Load reads the allowlist file at pth. An empty path or a missing file yields an empty allowlist.
func (l loader) Load(pth string) (Set, error) {
	if pth == "" {
		l.logger.Debugf("No allowlist configured")
		return Set{}, nil
	}

	exists, err := l.pathChecker.IsPathExists(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to check allowlist (%s): %w", pth, err)
	}
	if !exists {
		l.logger.Warnf("Allowlist (%s) does not exist, every failure is unexpected", pth)
		return Set{}, nil
	}

	f, err := os.Open(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to open allowlist (%s): %w", pth, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warnf("Failed to close allowlist (%s): %s", pth, err)
		}
	}()

	set, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pth, err)
	}

	l.logger.Printf("Loaded %d allowlisted failure(s) from %s", set.Len(), pth)
	return set, nil
}
