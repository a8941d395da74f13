package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// DebugEnabled returns true if debug mode is enabled via TASKAPP_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TASKAPP_DEBUG") != ""
}

// Debugf logs a formatted debug message only if debug mode is enabled.
// It bypasses the configured level so TASKAPP_DEBUG works under "info".
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugLogger().Debug().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// Debugln logs its arguments, space separated, only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		debugLogger().Debug().Msg(strings.TrimRight(fmt.Sprintln(args...), "\n"))
	}
}

func debugLogger() *zerolog.Logger {
	l := L().Level(zerolog.DebugLevel)
	return &l
}
