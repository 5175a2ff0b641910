package junit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gradleReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="com.example.FooTest" tests="3" skipped="1" failures="1" errors="0" timestamp="2025-11-03T14:30:22" hostname="ci" time="1.25">
  <properties/>
  <testcase name="testBar" classname="com.example.FooTest" time="0.5">
    <failure message="expected: &lt;1&gt; but was: &lt;2&gt;" type="org.opentest4j.AssertionFailedError">org.opentest4j.AssertionFailedError: expected: &lt;1&gt; but was: &lt;2&gt;
	at com.example.FooTest.testBar(FooTest.java:12)
</failure>
  </testcase>
  <testcase name="testBaz" classname="com.example.FooTest" time="0.75"/>
  <testcase name="testQux" classname="com.example.FooTest" time="0.0">
    <skipped/>
  </testcase>
  <system-out><![CDATA[]]></system-out>
  <system-err><![CDATA[]]></system-err>
</testsuite>
`

func Test_GivenGradleReport_WhenParse_ThenClassifiesTestCases(t *testing.T) {
	// When
	report, err := Parse(strings.NewReader(gradleReport))

	// Then
	require.NoError(t, err)
	require.Equal(t, []TestCase{
		{ClassName: "com.example.FooTest", Name: "testBar", Outcome: Failed},
		{ClassName: "com.example.FooTest", Name: "testBaz", Outcome: Passed},
		{ClassName: "com.example.FooTest", Name: "testQux", Outcome: Skipped},
	}, report.TestCases)
	require.Equal(t, []Suite{
		{Name: "com.example.FooTest", Tests: 3, Failures: 1, Errors: 0, Skipped: 1, Time: 1.25},
	}, report.Suites)
}

func Test_GivenSelfClosingPassingCaseBeforeFailure_WhenParse_ThenFailureIsAttributedToItsOwnCase(t *testing.T) {
	// Given
	content := `<testsuite><testcase classname="A" name="passes"/><testcase classname="A" name="fails"><failure/></testcase></testsuite>`

	// When
	report, err := Parse(strings.NewReader(content))

	// Then
	require.NoError(t, err)
	require.Len(t, report.TestCases, 2)
	assert.Equal(t, Passed, report.TestCases[0].Outcome)
	assert.Equal(t, Failed, report.TestCases[1].Outcome)
}

func Test_GivenFailingCaseWithoutName_WhenParse_ThenItHasNoID(t *testing.T) {
	// Given
	content := `<testsuite><testcase classname="com.example.FooTest"><failure message="boom"/></testcase></testsuite>`

	// When
	report, err := Parse(strings.NewReader(content))

	// Then
	require.NoError(t, err)
	require.Len(t, report.TestCases, 1)
	assert.Equal(t, Failed, report.TestCases[0].Outcome)
	assert.Equal(t, "", report.TestCases[0].ID())
}

func Test_GivenTestsuitesRoot_WhenParse_ThenReadsEverySuite(t *testing.T) {
	// Given
	content := `<testsuites>
  <testsuite name="A" tests="1" time="1,234.5"><testcase classname="A" name="a"/></testsuite>
  <testsuite name="B" tests="1" errors="1"><testcase classname="B" name="b"><error/></testcase></testsuite>
</testsuites>`

	// When
	report, err := Parse(strings.NewReader(content))

	// Then
	require.NoError(t, err)
	require.Len(t, report.Suites, 2)
	assert.Equal(t, 1234.5, report.Suites[0].Time)
	assert.Equal(t, 1, report.Suites[1].Errors)
	require.Len(t, report.TestCases, 2)
	assert.Equal(t, Passed, report.TestCases[1].Outcome)
}

func Test_GivenTruncatedReport_WhenParse_ThenReturnsCompletedCasesAndError(t *testing.T) {
	// Given
	content := `<testsuite><testcase classname="A" name="a"><failure/></testcase><testcase classname="A" name="b"><fail`

	// When
	report, err := Parse(strings.NewReader(content))

	// Then
	require.Error(t, err)
	require.Len(t, report.TestCases, 1)
	assert.Equal(t, "A#a", report.TestCases[0].ID())
}

func Test_GivenReportCutInsideFailingCase_WhenParse_ThenKeepsTheFailure(t *testing.T) {
	// Given
	content := `<testsuite><testcase classname="com.example.FooTest" name="testBar"><failure message="boom">java.sql.SQLException`

	// When
	report, err := Parse(strings.NewReader(content))

	// Then
	require.Error(t, err)
	require.Len(t, report.TestCases, 1)
	assert.Equal(t, "com.example.FooTest#testBar", report.TestCases[0].ID())
	assert.Equal(t, Failed, report.TestCases[0].Outcome)
}

func Test_GivenNonXMLSafeFailureOutput_WhenParse_ThenFailureIsCounted(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "invalid UTF-8", output: "Duplicate entry '\xff\xfe\x80' for key 'PRIMARY'"},
		{name: "HTML entity", output: "Unknown column&nbsp;'id' in 'field list'"},
		{name: "bare ampersand", output: "jdbc:mysql://tidb:4000/test?useSSL=false&serverTimezone=UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			content := `<testsuite name="com.example.FooTest" tests="2" failures="1">` +
				`<testcase classname="com.example.FooTest" name="testBar"><failure message="` + tt.output + `">` + tt.output + `</failure>` +
				`<system-out>` + tt.output + `</system-out></testcase>` +
				`<testcase classname="com.example.FooTest" name="testBaz"/>` +
				`</testsuite>`

			// When
			report, err := Parse(strings.NewReader(content))

			// Then
			require.NoError(t, err)
			require.Equal(t, []TestCase{
				{ClassName: "com.example.FooTest", Name: "testBar", Outcome: Failed},
				{ClassName: "com.example.FooTest", Name: "testBaz", Outcome: Passed},
			}, report.TestCases)
		})
	}
}

func Test_GivenEmptyInput_WhenParse_ThenReturnsEmptyReport(t *testing.T) {
	report, err := Parse(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, report.TestCases)
	assert.Empty(t, report.Suites)
}

func TestIsReportFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "TEST-com.example.FooTest.xml", want: true},
		{name: "TEST-.xml", want: true},
		{name: "com.example.FooTest.xml", want: false},
		{name: "TEST-com.example.FooTest.txt", want: false},
		{name: "test-com.example.FooTest.xml", want: false},
		{name: "output.bin", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReportFile(tt.name))
		})
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		relPath string
		want    string
	}{
		{relPath: "hibernate-core/target/test-results/test/TEST-a.xml", want: "hibernate-core"},
		{relPath: "hibernate-envers/build/test-results/test/TEST-a.xml", want: "hibernate-envers"},
		{relPath: "nested/TEST-a.xml", want: "nested"},
		{relPath: "TEST-a.xml", want: "test"},
		{relPath: "build/TEST-a.xml", want: "build"},
	}
	for _, tt := range tests {
		t.Run(tt.relPath, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleName("/workspace/build/test-results/test", tt.relPath))
		})
	}
}
