package junit

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Parse reads a JUnit XML report.
//
// Invalid UTF-8 sequences are replaced, HTML entities and bare ampersands are accepted.
// Test cases are collected until the first decoding error; on error the partially read report
// is returned together with the error, so truncated reports still contribute what they contain.
// A test case cut short after its failure marker is kept as failed.
func Parse(r io.Reader) (Report, error) {
	decoder := xml.NewDecoder(transform.NewReader(r, unicode.UTF8.NewDecoder()))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	// Reports declaring a non UTF-8 charset are read as is, attribute values are ASCII in practice.
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		report  Report
		current *TestCase
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		if err != nil {
			if current != nil && current.Outcome == Failed {
				report.TestCases = append(report.TestCases, *current)
			}
			return report, fmt.Errorf("failed to decode report: %w", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "testsuite":
				report.Suites = append(report.Suites, parseSuite(element))
			case "testcase":
				current = &TestCase{
					ClassName: attr(element, "classname"),
					Name:      attr(element, "name"),
				}
			case "failure":
				if current != nil {
					current.Outcome = Failed
				}
			case "skipped":
				if current != nil && current.Outcome != Failed {
					current.Outcome = Skipped
				}
			}
		case xml.EndElement:
			if element.Name.Local == "testcase" && current != nil {
				report.TestCases = append(report.TestCases, *current)
				current = nil
			}
		}
	}
}

func parseSuite(element xml.StartElement) Suite {
	return Suite{
		Name:     attr(element, "name"),
		Tests:    intAttr(element, "tests"),
		Failures: intAttr(element, "failures"),
		Errors:   intAttr(element, "errors"),
		Skipped:  intAttr(element, "skipped"),
		Time:     floatAttr(element, "time"),
	}
}

func attr(element xml.StartElement, name string) string {
	for _, a := range element.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(element xml.StartElement, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(attr(element, name)))
	if err != nil {
		return 0
	}
	return value
}

func floatAttr(element xml.StartElement, name string) float64 {
	// some runners print thousands separators: time="1,234.5"
	raw := strings.ReplaceAll(strings.TrimSpace(attr(element, name)), ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
