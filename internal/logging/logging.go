// Package logging wires tjc's named loggers to commonlog.
package logging

import (
	"strings"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Root is the prefix of every logger name handed out by Get.
const Root = "tjc"

// Verbosity maps a level name to the commonlog verbosity scale.
// Unknown names fall back to the warning level.
func Verbosity(level string) int {
	switch strings.ToLower(level) {
	case "none", "off":
		return -4
	case "error":
		return -2
	case "warn", "warning":
		return -1
	case "notice":
		return 0
	case "info":
		return 1
	case "debug":
		return 2
	default:
		return -1
	}
}

// Configure sets up the commonlog backend. An empty path logs to stderr.
func Configure(level string, path string) {
	if path == "" {
		commonlog.Configure(Verbosity(level), nil)
		return
	}
	commonlog.Configure(Verbosity(level), &path)
}

// Get returns the logger "tjc.<name>".
func Get(name string) commonlog.Logger {
	if name == "" {
		return commonlog.GetLogger(Root)
	}
	return commonlog.GetLogger(Root + "." + name)
}
