package allowlist

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenCommentsAndBlankLines_WhenParse_ThenTheyAreIgnored(t *testing.T) {
	// Given
	content := "# known flaky\n\n   \n  com.example.FooTest#testBar  \r\ncom.example.FooTest#testBar\n#com.example.FooTest#testBaz\n"

	// When
	set, err := Parse(strings.NewReader(content))

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.FooTest#testBar"}, set.Sorted())
	assert.False(t, set.Contains("com.example.FooTest#testBaz"))
}

func Test_GivenOnlyComments_WhenParse_ThenSetIsEmpty(t *testing.T) {
	set, err := Parse(strings.NewReader("# known flaky\n\n"))

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func Test_GivenByteOrderMark_WhenParse_ThenFirstEntryIsClean(t *testing.T) {
	set, err := Parse(strings.NewReader("\ufeffcom.example.FooTest#testBar\n"))

	require.NoError(t, err)
	assert.True(t, set.Contains("com.example.FooTest#testBar"))
}

func Test_GivenMissingFile_WhenLoad_ThenReturnsEmptySet(t *testing.T) {
	// Given
	loader := NewLoader(log.NewLogger(), pathutil.NewPathChecker())

	// When
	set, err := loader.Load(filepath.Join(t.TempDir(), "allowlist.txt"))

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func Test_GivenNoPath_WhenLoad_ThenReturnsEmptySet(t *testing.T) {
	loader := NewLoader(log.NewLogger(), pathutil.NewPathChecker())

	set, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func Test_GivenExistingFile_WhenLoad_ThenReadsEntries(t *testing.T) {
	// Given
	pth := filepath.Join(t.TempDir(), "allowlist.txt")
	require.NoError(t, fileutil.NewFileManager().Write(pth, "a.B#c\nd.E#f\n", 0644))

	loader := NewLoader(log.NewLogger(), pathutil.NewPathChecker())

	// When
	set, err := loader.Load(pth)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"a.B#c", "d.E#f"}, set.Sorted())
}
