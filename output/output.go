package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
	"github.com/bitrise-steplib/steps-junit-triage/testaddon"
)

const (
	triageResultEnvVarKey            = "JUNIT_TRIAGE_RESULT"
	summaryPathEnvVarKey             = "JUNIT_TRIAGE_SUMMARY_PATH"
	testLogPathEnvVarKey             = "JUNIT_TRIAGE_TEST_LOG_PATH"
	collectionZipPathEnvVarKey       = "JUNIT_TRIAGE_COLLECTION_ZIP_PATH"
	unexpectedFailuresEnvVarKey      = "JUNIT_TRIAGE_UNEXPECTED_FAILURES"
	unexpectedFailuresSizeLimitBytes = 1024

	summaryFileName = "junit_triage_summary.txt"
	testLogFileName = "junit_triage_test.log"
)

// FileCopier ...
type FileCopier interface {
	CopyFile(sourceFile string, targetFile string) error
}

// Exporter ...
type Exporter interface {
	ExportTriageResult(failed bool)
	ExportSummary(deployDir, summaryPath string) error
	ExportUnexpectedFailures(ids []string) error
	SaveTestLog(rawOutput string) (string, error)
	ExportTestLog(deployDir, logPath string) error
	ExportCollection(deployDir, collectionDir string) error
	ExportTestReports(reportFiles []junit.ReportFile)
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
	fileCopier        FileCopier
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter export.Exporter, testAddonExporter testaddon.Exporter, fileCopier FileCopier) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
		fileCopier:        fileCopier,
	}
}

func (e exporter) ExportTriageResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(triageResultEnvVarKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", triageResultEnvVarKey, err)
	}
}

func (e exporter) ExportSummary(deployDir, summaryPath string) error {
	deployPth := filepath.Join(deployDir, summaryFileName)
	if err := e.fileCopier.CopyFile(summaryPath, deployPth); err != nil {
		return fmt.Errorf("failed to copy summary from (%s) to (%s): %w", summaryPath, deployPth, err)
	}

	if err := e.envRepository.Set(summaryPathEnvVarKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", summaryPathEnvVarKey, err)
	}

	return nil
}

func (e exporter) ExportUnexpectedFailures(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var message string
	for i, id := range ids {
		line := fmt.Sprintf("- %s\n", id)

		if len(message)+len(line) > unexpectedFailuresSizeLimitBytes {
			e.logger.Warnf("%s env var size limit (%d characters) exceeded. Skipping %d test cases.", unexpectedFailuresEnvVarKey, unexpectedFailuresSizeLimitBytes, len(ids)-i)
			break
		}

		message += line
	}

	if err := e.envRepository.Set(unexpectedFailuresEnvVarKey, message); err != nil {
		return fmt.Errorf("failed to export %s: %w", unexpectedFailuresEnvVarKey, err)
	}

	return nil
}

func (e exporter) SaveTestLog(rawOutput string) (string, error) {
	return saveRawOutputToLogFile(rawOutput)
}

func (e exporter) ExportTestLog(deployDir, logPath string) error {
	deployPth := filepath.Join(deployDir, testLogFileName)
	if err := e.fileCopier.CopyFile(logPath, deployPth); err != nil {
		return fmt.Errorf("failed to copy test command log file from (%s) to (%s): %w", logPath, deployPth, err)
	}

	if err := e.envRepository.Set(testLogPathEnvVarKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testLogPathEnvVarKey, err)
	}

	return nil
}

func (e exporter) ExportCollection(deployDir, collectionDir string) error {
	zipPath := filepath.Join(deployDir, filepath.Base(collectionDir)+".zip")
	if err := e.outputExporter.ExportOutputFilesZip(collectionZipPathEnvVarKey, []string{collectionDir}, zipPath); err != nil {
		return fmt.Errorf("failed to export %s: %w", collectionZipPathEnvVarKey, err)
	}

	return nil
}

func (e exporter) ExportTestReports(reportFiles []junit.ReportFile) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if len(addonResultPath) == 0 || len(reportFiles) == 0 {
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
		ReportFiles:     reportFiles,
		TargetAddonPath: addonResultPath,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}
