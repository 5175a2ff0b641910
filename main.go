package main

import (
	"errors"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-junit-triage/allowlist"
	"github.com/bitrise-steplib/steps-junit-triage/collect"
	"github.com/bitrise-steplib/steps-junit-triage/fileremover"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
	"github.com/bitrise-steplib/steps-junit-triage/output"
	"github.com/bitrise-steplib/steps-junit-triage/step"
	"github.com/bitrise-steplib/steps-junit-triage/testaddon"
	"github.com/bitrise-steplib/steps-junit-triage/testcommand"
	"github.com/bitrise-steplib/steps-junit-triage/toolchain"
	"github.com/bitrise-steplib/steps-junit-triage/triage"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	envRepository := env.NewRepository()
	commandFactory := command.NewFactory(envRepository)

	configParser := step.NewTriageConfigParser(stepconf.NewInputParser(envRepository), logger, pathutil.NewPathModifier())
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	triageRunner := createTriageRunner(logger, envRepository, commandFactory, config.Verbose)

	result, runErr := triageRunner.Run(config)

	exportOpts := step.ExportOpts{
		TriageFailed:       runErr != nil,
		DeployDir:          config.DeployDir,
		SummaryPath:        result.SummaryPath,
		UnexpectedFailures: result.Summary.Unexpected,
		TestLogPath:        result.TestLogPath,
		CollectionDir:      result.CollectionDir,
		ReportFiles:        result.ReportFiles,
	}
	exportErr := triageRunner.Export(exportOpts)

	var unexpectedErr *triage.UnexpectedFailuresError
	if errors.As(runErr, &unexpectedErr) {
		logger.Println()
		logger.Errorf("%d unexpected test failure(s):", unexpectedErr.Count)
		for _, id := range unexpectedErr.IDs {
			logger.Errorf("- %s", id)
		}
		logger.Warnf("Add known failures to the allowlist (%s) to accept them.", config.AllowlistPath)
		return 1
	}
	if runErr != nil {
		logger.Errorf("Run: %s", runErr)
		return 1
	}

	if exportErr != nil {
		logger.Errorf("Export outputs: %s", exportErr)
		return 1
	}

	return 0
}

func createTriageRunner(logger log.Logger, envRepository env.Repository, commandFactory command.Factory, streamTestOutput bool) step.TriageRunner {
	pathChecker := pathutil.NewPathChecker()
	fileManager := fileutil.NewFileManager()
	fileRemover := fileremover.NewFileRemover()
	testAddon := testaddon.NewTestAddon(logger, commandFactory)

	testCommandRunner := testcommand.NewRawRunner(logger, commandFactory)
	if streamTestOutput {
		testCommandRunner = testcommand.NewStreamingRunner(logger, commandFactory)
	}

	outputExporter := output.NewExporter(envRepository, logger, export.NewExporter(commandFactory), testaddon.NewExporter(testAddon), testAddon)

	return step.NewTriageRunner(
		logger,
		toolchain.NewChecker(logger, toolchain.NewJavaVersionReader(logger, commandFactory), pathChecker),
		testCommandRunner,
		junit.NewCollector(logger, pathChecker),
		allowlist.NewLoader(logger, pathChecker),
		collect.NewCollector(logger, testAddon, fileManager, pathChecker, fileRemover),
		outputExporter,
		fileManager,
		fileRemover,
	)
}
