package taskmanager

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

var debugFlag = false

// SetDebug turns on logging of every browser step. It also enables the
// WebDriver client's own wire-level debug output.
func SetDebug(debug bool) {
	debugFlag = debug
	selenium.SetDebug(debug)
}

func debugLog(format string, args ...interface{}) {
	if !debugFlag {
		return
	}
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}
