package step

import (
	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/stringutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

func printLastLinesOfTestLog(logger log.Logger, rawOutput string, isRunSuccess bool) {
	const lastLines = "Last lines of the test command log:"
	logger.Println()
	if !isRunSuccess {
		logger.Errorf(lastLines)
	} else {
		logger.Infof(lastLines)
	}

	logger.Printf("%s", stringutil.LastNLines(rawOutput, 20))

	if !isRunSuccess {
		logger.Warnf("If you can't find the reason of the error in the log, please check the junit_triage_test.log.")
	}

	logger.Infof("%s", colorstring.Magenta(`
The log file is stored in $BITRISE_DEPLOY_DIR, and its full path
is available in the $JUNIT_TRIAGE_TEST_LOG_PATH environment variable.`))
}
