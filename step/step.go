package step

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-junit-triage/allowlist"
	"github.com/bitrise-steplib/steps-junit-triage/collect"
	"github.com/bitrise-steplib/steps-junit-triage/fileremover"
	"github.com/bitrise-steplib/steps-junit-triage/junit"
	"github.com/bitrise-steplib/steps-junit-triage/output"
	"github.com/bitrise-steplib/steps-junit-triage/stats"
	"github.com/bitrise-steplib/steps-junit-triage/testcommand"
	"github.com/bitrise-steplib/steps-junit-triage/toolchain"
	"github.com/bitrise-steplib/steps-junit-triage/triage"
	shellquote "github.com/kballard/go-shellquote"
)

// Input ...
type Input struct {
	// Triage
	ReportDir       string `env:"report_dir,required"`
	RecursiveSearch bool   `env:"recursive_search,opt[yes,no]"`
	AllowlistPath   string `env:"allowlist_path"`
	SummaryPath     string `env:"summary_path,required"`
	StatsJSONPath   string `env:"stats_json_path"`

	// Test run
	TestCommand    string `env:"test_command"`
	TestCommandDir string `env:"test_command_dir"`
	MinJavaVersion string `env:"min_java_version"`

	// Collection
	CollectDir            string `env:"collect_dir"`
	RemoveCollectedSource bool   `env:"remove_collected_source,opt[yes,no]"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`

	// Output export
	DeployDir string `env:"BITRISE_DEPLOY_DIR"`
}

// Config ...
type Config struct {
	ReportDir       string
	RecursiveSearch bool
	AllowlistPath   string
	SummaryPath     string
	StatsJSONPath   string

	TestCommandArgs []string
	TestCommandDir  string
	MinJavaVersion  string

	CollectDir            string
	RemoveCollectedSource bool

	Verbose   bool
	DeployDir string
}

// PathModifier ...
type PathModifier interface {
	AbsPath(pth string) (string, error)
}

// TriageConfigParser ...
type TriageConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathModifier PathModifier
}

// NewTriageConfigParser ...
func NewTriageConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathModifier PathModifier) TriageConfigParser {
	return TriageConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p TriageConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	if input.RemoveCollectedSource && input.CollectDir == "" {
		return Config{}, fmt.Errorf("input remove_collected_source requires collect_dir to be set")
	}

	var testCommandArgs []string
	if strings.TrimSpace(input.TestCommand) != "" {
		args, err := shellquote.Split(input.TestCommand)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse test_command (%s): %w", input.TestCommand, err)
		}
		testCommandArgs = args
	} else if input.TestCommandDir != "" || input.MinJavaVersion != "" {
		p.logger.Warnf("test_command is not set, test_command_dir and min_java_version are ignored")
	}

	paths := map[string]*string{
		"report_dir":       &input.ReportDir,
		"summary_path":     &input.SummaryPath,
		"allowlist_path":   &input.AllowlistPath,
		"stats_json_path":  &input.StatsJSONPath,
		"test_command_dir": &input.TestCommandDir,
		"collect_dir":      &input.CollectDir,
	}
	for key, pth := range paths {
		if *pth == "" {
			continue
		}
		absPth, err := p.pathModifier.AbsPath(*pth)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute path of %s (%s): %w", key, *pth, err)
		}
		*pth = absPth
	}

	if input.SummaryPath == input.ReportDir {
		return Config{}, fmt.Errorf("summary_path (%s) must not be the report directory", input.SummaryPath)
	}

	if input.RemoveCollectedSource {
		artifacts := []struct{ key, pth string }{
			{key: "summary_path", pth: input.SummaryPath},
			{key: "stats_json_path", pth: input.StatsJSONPath},
		}
		for _, artifact := range artifacts {
			if artifact.pth != "" && isInsideDir(artifact.pth, input.ReportDir) {
				return Config{}, fmt.Errorf("%s (%s) must be outside of report_dir (%s) when remove_collected_source is enabled", artifact.key, artifact.pth, input.ReportDir)
			}
		}
	}

	return Config{
		ReportDir:       input.ReportDir,
		RecursiveSearch: input.RecursiveSearch,
		AllowlistPath:   input.AllowlistPath,
		SummaryPath:     input.SummaryPath,
		StatsJSONPath:   input.StatsJSONPath,

		TestCommandArgs: testCommandArgs,
		TestCommandDir:  input.TestCommandDir,
		MinJavaVersion:  input.MinJavaVersion,

		CollectDir:            input.CollectDir,
		RemoveCollectedSource: input.RemoveCollectedSource,

		Verbose:   input.Verbose,
		DeployDir: input.DeployDir,
	}, nil
}

func isInsideDir(pth, dir string) bool {
	rel, err := filepath.Rel(dir, pth)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// TriageRunner ...
type TriageRunner struct {
	logger            log.Logger
	toolchainChecker  toolchain.Checker
	testCommandRunner testcommand.Runner
	reportCollector   junit.Collector
	allowlistLoader   allowlist.Loader
	resultCollector   collect.Collector
	outputExporter    output.Exporter
	fileManager       fileutil.FileManager
	fileRemover       fileremover.FileRemover
	now               func() time.Time
}

// NewTriageRunner ...
func NewTriageRunner(logger log.Logger, toolchainChecker toolchain.Checker, testCommandRunner testcommand.Runner, reportCollector junit.Collector, allowlistLoader allowlist.Loader, resultCollector collect.Collector, outputExporter output.Exporter, fileManager fileutil.FileManager, fileRemover fileremover.FileRemover) TriageRunner {
	return TriageRunner{
		logger:            logger,
		toolchainChecker:  toolchainChecker,
		testCommandRunner: testCommandRunner,
		reportCollector:   reportCollector,
		allowlistLoader:   allowlistLoader,
		resultCollector:   resultCollector,
		outputExporter:    outputExporter,
		fileManager:       fileManager,
		fileRemover:       fileRemover,
		now:               time.Now,
	}
}

// Result ...
type Result struct {
	Summary       triage.Summary
	SummaryPath   string
	ReportFiles   []junit.ReportFile
	TestLogPath   string
	CollectionDir string
}

// Run executes the optional test command, then triages the reports of cfg.ReportDir against the allowlist.
// The summary artifact is written before any triage outcome is returned;
// unexpected failures are reported as *triage.UnexpectedFailuresError.
func (s TriageRunner) Run(cfg Config) (Result, error) {
	var result Result

	var testErr error
	if len(cfg.TestCommandArgs) > 0 {
		logPath, err := s.runTestCommand(cfg)
		result.TestLogPath = logPath
		testErr = err

		var toolchainErr *toolchainError
		if errors.As(err, &toolchainErr) {
			return result, err
		}
	}

	if err := s.fileRemover.Remove(cfg.SummaryPath); err != nil {
		return result, fmt.Errorf("failed to remove previous summary (%s): %w", cfg.SummaryPath, err)
	}

	s.logger.Println()
	s.logger.Infof("Collecting test reports")

	reportFiles, err := s.reportCollector.Collect(cfg.ReportDir, cfg.RecursiveSearch)
	if err != nil {
		return result, fmt.Errorf("failed to collect test reports: %w", err)
	}
	result.ReportFiles = reportFiles
	s.logger.Printf("%d report file(s) found in %s", len(reportFiles), cfg.ReportDir)
	if malformed := countMalformed(reportFiles); malformed > 0 {
		s.logger.Warnf("%d report file(s) are malformed and were read partially", malformed)
	}

	if testErr != nil && len(reportFiles) == 0 {
		return result, fmt.Errorf("test command failed without producing test reports: %w", testErr)
	}

	allowed, err := s.allowlistLoader.Load(cfg.AllowlistPath)
	if err != nil {
		return result, fmt.Errorf("failed to load allowlist: %w", err)
	}

	reports := make([]junit.Report, 0, len(reportFiles))
	for _, reportFile := range reportFiles {
		reports = append(reports, reportFile.Report)
	}

	summary, triageErr := triage.Triage(reports, allowed)
	result.Summary = summary

	if err := s.fileManager.Write(cfg.SummaryPath, summary.String(), 0644); err != nil {
		return result, fmt.Errorf("failed to write summary (%s): %w", cfg.SummaryPath, err)
	}
	result.SummaryPath = cfg.SummaryPath

	s.printSummary(summary, cfg.SummaryPath)

	statistics := stats.Aggregate(reportFiles)
	statistics.Print(s.logger)

	if cfg.StatsJSONPath != "" {
		payload := stats.NewPayload(cfg.ReportDir, statistics, summary, s.now())
		if err := stats.WritePayload(s.fileManager, cfg.StatsJSONPath, payload); err != nil {
			return result, err
		}
		s.logger.Printf("Statistics written to %s", cfg.StatsJSONPath)
	}

	if cfg.CollectDir != "" {
		collectionDir, err := s.resultCollector.Collect(collect.Opts{
			SourceRoot:   cfg.ReportDir,
			DestPrefix:   cfg.CollectDir,
			Timestamp:    s.now(),
			LogPath:      result.TestLogPath,
			ReportFiles:  reportFiles,
			RemoveSource: cfg.RemoveCollectedSource,
		})
		if err != nil {
			return result, fmt.Errorf("failed to collect test results: %w", err)
		}
		result.CollectionDir = collectionDir

		if cfg.RemoveCollectedSource && collectionDir != "" {
			result.ReportFiles = collect.Relocate(reportFiles, collectionDir)
		}
	}

	return result, triageErr
}

func countMalformed(reportFiles []junit.ReportFile) int {
	count := 0
	for _, reportFile := range reportFiles {
		if reportFile.Malformed {
			count++
		}
	}
	return count
}

type toolchainError struct {
	err error
}

func (e *toolchainError) Error() string {
	return fmt.Sprintf("toolchain check failed: %s", e.err)
}

func (e *toolchainError) Unwrap() error {
	return e.err
}

func (s TriageRunner) runTestCommand(cfg Config) (string, error) {
	if err := s.toolchainChecker.Check(cfg.MinJavaVersion, cfg.TestCommandDir); err != nil {
		return "", &toolchainError{err: err}
	}

	s.logger.Println()
	s.logger.Infof("Running test command")

	out, testErr := s.testCommandRunner.Run(cfg.TestCommandDir, cfg.TestCommandArgs)
	rawOutput := string(out.RawOut)

	logPath, err := s.outputExporter.SaveTestLog(rawOutput)
	if err != nil {
		s.logger.Warnf("Failed to save the test command output: %s", err)
	}

	if testErr != nil {
		printLastLinesOfTestLog(s.logger, rawOutput, false)

		s.logger.Println()
		s.logger.Warnf("Test command exit code: %d", out.ExitCode)
		s.logger.Warnf("Test command failed, triaging the produced reports: %s", testErr)
		return logPath, testErr
	}

	if !out.DidWriteToStdOut {
		printLastLinesOfTestLog(s.logger, rawOutput, true)
	}

	s.logger.Println()
	s.logger.Donef("Test command succeeded")
	return logPath, nil
}

func (s TriageRunner) printSummary(summary triage.Summary, summaryPath string) {
	s.logger.Println()
	s.logger.Infof("Triage summary")
	s.logger.Printf("- failed: %d", summary.FailedCount())
	s.logger.Printf("- unexpected: %d", summary.UnexpectedCount())
	if summary.DroppedUnidentifiable > 0 {
		s.logger.Warnf("- dropped (failing test case without classname or name): %d", summary.DroppedUnidentifiable)
	}
	s.logger.Printf("Summary written to %s", summaryPath)

	if summary.Succeeded() {
		s.logger.Donef("No unexpected test failures")
	}
}

// ExportOpts ...
type ExportOpts struct {
	TriageFailed bool

	DeployDir          string
	SummaryPath        string
	UnexpectedFailures []string
	TestLogPath        string
	CollectionDir      string
	ReportFiles        []junit.ReportFile
}

// Export ...
func (s TriageRunner) Export(opts ExportOpts) error {
	s.outputExporter.ExportTriageResult(opts.TriageFailed)

	if err := s.outputExporter.ExportUnexpectedFailures(opts.UnexpectedFailures); err != nil {
		s.logger.Warnf("%s", err)
	}

	s.outputExporter.ExportTestReports(opts.ReportFiles)

	if opts.DeployDir == "" {
		s.logger.Debugf("No deploy dir set, skipping artifact export")
		return nil
	}

	if opts.SummaryPath != "" {
		if err := s.outputExporter.ExportSummary(opts.DeployDir, opts.SummaryPath); err != nil {
			return err
		}
	}

	if opts.TestLogPath != "" {
		if err := s.outputExporter.ExportTestLog(opts.DeployDir, opts.TestLogPath); err != nil {
			return err
		}
	}

	if opts.CollectionDir != "" {
		if err := s.outputExporter.ExportCollection(opts.DeployDir, opts.CollectionDir); err != nil {
			return err
		}
	}

	return nil
}
