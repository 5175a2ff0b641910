package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
	"github.com/bitrise-steplib/steps-junit-triage/output/mocks"
	"github.com/bitrise-steplib/steps-junit-triage/testaddon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testingMocks struct {
	envRepository *mocks.Repository
}

func Test_GivenSuccessfulTriage_WhenExportingTriageResult_ThenSetsEnvVariableToSuccess(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTriageResult(false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", triageResultEnvVarKey, "succeeded")
}

func Test_GivenFailedTriage_WhenExportingTriageResult_ThenSetsEnvVariableToFailure(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTriageResult(true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", triageResultEnvVarKey, "failed")
}

func Test_GivenSummary_WhenExporting_ThenCopiesItAndSetsEnvVariable(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	summaryPath := filepath.Join(tempDir, "build", "summary.txt")
	require.NoError(t, fileutil.NewFileManager().Write(summaryPath, "FAILED=0\nUNEXPECTED=0\n", 0644))
	deployDir := filepath.Join(tempDir, "deploy")
	deployPath := filepath.Join(deployDir, summaryFileName)

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportSummary(deployDir, summaryPath)

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", summaryPathEnvVarKey, deployPath)

	content, err := os.ReadFile(deployPath)
	require.NoError(t, err)
	assert.Equal(t, "FAILED=0\nUNEXPECTED=0\n", string(content))
}

func Test_GivenTestLog_WhenExporting_ThenCopiesItAndSetsEnvVariable(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, testLogFileName)

	exporter, mocks := createSutAndMocks()
	rawLogPath, err := exporter.SaveTestLog("> Task :hibernate-core:test")
	require.NoError(t, err)

	// When
	err = exporter.ExportTestLog(tempDir, rawLogPath)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", testLogPathEnvVarKey, logPath)

	assert.NoError(t, err)
	assert.True(t, isPathExists(logPath))
}

func Test_GivenUnexpectedFailures_WhenExporting_ThenListsThemAsBullets(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportUnexpectedFailures([]string{"a.A#one", "b.B#two"})

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", unexpectedFailuresEnvVarKey, "- a.A#one\n- b.B#two\n")
}

func Test_GivenTooManyUnexpectedFailures_WhenExporting_ThenValueIsCapped(t *testing.T) {
	// Given
	var ids []string
	for i := 0; i < 100; i++ {
		ids = append(ids, fmt.Sprintf("org.hibernate.orm.test.Case%03d#testSomething", i))
	}

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportUnexpectedFailures(ids)

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", unexpectedFailuresEnvVarKey, mock.MatchedBy(func(value string) bool {
		return len(value) <= unexpectedFailuresSizeLimitBytes && strings.HasPrefix(value, "- org.hibernate.orm.test.Case000#testSomething\n")
	}))
}

func Test_GivenNoUnexpectedFailures_WhenExporting_ThenNothingIsSet(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportUnexpectedFailures(nil)

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertNotCalled(t, "Set", unexpectedFailuresEnvVarKey, mock.Anything)
}

func Test_GivenPerStepTestResultDir_WhenExportingTestReports_ThenCopiesReports(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	reportPath := filepath.Join(tempDir, "results", "TEST-a.A.xml")
	require.NoError(t, fileutil.NewFileManager().Write(reportPath, "<testsuite/>", 0644))
	addonDir := filepath.Join(tempDir, "addon")

	exporter, mocks := createSutAndMocks()
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return(addonDir)

	// When
	exporter.ExportTestReports([]junit.ReportFile{{Path: reportPath, RelPath: "TEST-a.A.xml", Module: "hibernate-core"}})

	// Then
	assert.True(t, isPathExists(filepath.Join(addonDir, "hibernate-core", "TEST-a.A.xml")))
	assert.True(t, isPathExists(filepath.Join(addonDir, "hibernate-core", "test-info.json")))
}

// Helpers

func createSutAndMocks() (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)

	logger := log.NewLogger()
	commandFactory := command.NewFactory(env.NewRepository())
	testAddon := testaddon.NewTestAddon(logger, commandFactory)
	exporter := NewExporter(envRepository, logger, export.NewExporter(commandFactory), testaddon.NewExporter(testAddon), testAddon)

	return exporter, testingMocks{
		envRepository: envRepository,
	}
}

func isPathExists(path string) bool {
	isExist, _ := pathutil.NewPathChecker().IsPathExists(path)
	return isExist
}
