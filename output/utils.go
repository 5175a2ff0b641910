package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
)

func saveRawOutputToLogFile(rawOutput string) (string, error) {
	tmpDir, err := pathutil.NormalizedOSTempDirPath("test-command-output")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}
	logFileName := "raw-test-command-output.log"
	logPth := filepath.Join(tmpDir, logFileName)
	if err := fileutil.WriteStringToFile(logPth, rawOutput); err != nil {
		return "", fmt.Errorf("failed to write test command output to file, error: %s", err)
	}

	return logPth, nil
}
