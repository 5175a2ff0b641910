package junit

import (
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenMissingDirectory_WhenCollect_ThenReturnsNoReports(t *testing.T) {
	// Given
	collector := NewCollector(log.NewLogger(), pathutil.NewPathChecker())

	// When
	reportFiles, err := collector.Collect(filepath.Join(t.TempDir(), "missing"), false)

	// Then
	require.NoError(t, err)
	assert.Empty(t, reportFiles)
}

func Test_GivenMixedFiles_WhenCollect_ThenOnlyReportFilesAreParsed(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "TEST-com.example.FooTest.xml"), gradleReport)
	writeFile(t, filepath.Join(root, "binary", "output.bin"), "garbage")
	writeFile(t, filepath.Join(root, "results.xml"), `<testsuite><testcase classname="X" name="x"><failure/></testcase></testsuite>`)
	writeFile(t, filepath.Join(root, "nested", "TEST-com.example.BarTest.xml"), `<testsuite/>`)

	collector := NewCollector(log.NewLogger(), pathutil.NewPathChecker())

	// When
	reportFiles, err := collector.Collect(root, false)

	// Then
	require.NoError(t, err)
	require.Len(t, reportFiles, 1)
	assert.Equal(t, "TEST-com.example.FooTest.xml", reportFiles[0].RelPath)
	assert.Len(t, reportFiles[0].Report.TestCases, 3)
	assert.False(t, reportFiles[0].Malformed)
}

func Test_GivenMultiModuleTree_WhenCollectRecursively_ThenAssignsModules(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hibernate-core", "target", "test-results", "test", "TEST-a.xml"), `<testsuite tests="1"><testcase classname="a" name="t"/></testsuite>`)
	writeFile(t, filepath.Join(root, "hibernate-envers", "target", "test-results", "test", "TEST-b.xml"), `<testsuite tests="1"><testcase classname="b" name="t"/></testsuite>`)

	collector := NewCollector(log.NewLogger(), pathutil.NewPathChecker())

	// When
	reportFiles, err := collector.Collect(root, true)

	// Then
	require.NoError(t, err)
	require.Len(t, reportFiles, 2)
	assert.Equal(t, "hibernate-core", reportFiles[0].Module)
	assert.Equal(t, "hibernate-envers", reportFiles[1].Module)
}

func Test_GivenMalformedReport_WhenCollect_ThenKeepsPartialContent(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "TEST-broken.xml"), `<testsuite><testcase classname="A" name="a"><failure/></testcase><testcase`)

	collector := NewCollector(log.NewLogger(), pathutil.NewPathChecker())

	// When
	reportFiles, err := collector.Collect(root, false)

	// Then
	require.NoError(t, err)
	require.Len(t, reportFiles, 1)
	require.Len(t, reportFiles[0].Report.TestCases, 1)
	assert.Equal(t, Failed, reportFiles[0].Report.TestCases[0].Outcome)
	assert.True(t, reportFiles[0].Malformed)
}

func writeFile(t *testing.T, pth, content string) {
	err := fileutil.NewFileManager().Write(pth, content, 0644)
	require.NoError(t, err)
}
