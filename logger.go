package exovel

import (
	"fmt"
	"log"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var logLevel LogLevel = LogLevelWarn

// SetLogLevel overrides logLevel for exovel library, default is WARN
func SetLogLevel(lv LogLevel) {
	logLevel = lv
}

func LogDebugf(format string, v ...interface{}) {
	if logLevel <= LogLevelDebug {
		format = fmt.Sprintf("exovel.debug: %s", format)
		log.Printf(format, v...)
	}
}

func LogInfof(format string, v ...interface{}) {
	if logLevel <= LogLevelInfo {
		format = fmt.Sprintf("exovel.info: %s", format)
		log.Printf(format, v...)
	}
}

func LogWarnf(format string, v ...interface{}) {
	if logLevel <= LogLevelWarn {
		format = fmt.Sprintf("exovel.warn: %s", format)
		log.Printf(format, v...)
	}
}
