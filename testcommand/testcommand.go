package testcommand

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Output ...
type Output struct {
	RawOut           []byte
	DidWriteToStdOut bool
	ExitCode         int
}

// Runner ...
type Runner interface {
	Run(workDir string, args []string) (Output, error)
}

type runner struct {
	logger         log.Logger
	commandFactory command.Factory
	stdout         io.Writer
	streamOutput   bool
}

// NewStreamingRunner returns a Runner that prints the command output while also buffering it.
func NewStreamingRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &runner{
		logger:         logger,
		commandFactory: commandFactory,
		stdout:         os.Stdout,
		streamOutput:   true,
	}
}

// NewRawRunner returns a Runner that only buffers the command output and prints progress dots.
func NewRawRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &runner{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

// Run executes args[0] with the remaining args in workDir.
// A non-zero exit code is reported in Output.ExitCode together with the error.
func (r *runner) Run(workDir string, args []string) (Output, error) {
	var (
		outBuffer bytes.Buffer
		outWriter io.Writer = &outBuffer
		exitCode  int
		err       error
	)
	if r.streamOutput {
		outWriter = io.MultiWriter(&outBuffer, r.stdout)
	}

	cmd := r.commandFactory.Create(args[0], args[1:], &command.Opts{
		Stdout:      outWriter,
		Stderr:      outWriter,
		Dir:         workDir,
		ErrorFinder: FindGradleErrors,
	})

	r.logger.TPrintf("$ %s", cmd.PrintableCommandArgs())

	if r.streamOutput {
		exitCode, err = cmd.RunAndReturnExitCode()
	} else {
		progress.SimpleProgress(".", time.Minute, func() {
			exitCode, err = cmd.RunAndReturnExitCode()
		})
	}

	return Output{
		RawOut:           outBuffer.Bytes(),
		DidWriteToStdOut: r.streamOutput,
		ExitCode:         exitCode,
	}, err
}

// FindGradleErrors collects the "What went wrong" blocks of a Gradle build output.
func FindGradleErrors(out string) []string {
	var (
		errorLines []string
		inBlock    bool
	)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "* What went wrong:":
			inBlock = true
		case inBlock && trimmed == "":
			inBlock = false
		case inBlock:
			errorLines = append(errorLines, trimmed)
		}
	}
	return errorLines
}
