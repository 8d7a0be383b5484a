package dup

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()
var globalVerboseLevel int
var debugFlags map[string]bool

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Logger returns the package logger so callers can attach fields or redirect output
func Logger() *logrus.Logger {
	return logger
}

// SetLogOutput redirects log output
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerboseLevel sets the global verbose level (0-3) and the matching logrus level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
	applyLogLevel()
}

// applyLogLevel keeps logrus at debug or below while any debug flag is on
func applyLogLevel() {
	level := logrusLevel(globalVerboseLevel)
	for _, on := range debugFlags {
		if on && level < logrus.DebugLevel {
			level = logrus.DebugLevel
			break
		}
	}
	logger.SetLevel(level)
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

func logrusLevel(level int) logrus.Level {
	switch {
	case level <= VerboseQuiet:
		return logrus.WarnLevel
	case level == VerboseBasic:
		return logrus.InfoLevel
	case level == VerboseDetail:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < VerboseTrace {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	logger.WithField("func", funcName).Trace("enter")
	return func() {
		logger.WithField("func", funcName).Trace("exit")
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		logger.Logf(logrusLevel(level), strings.TrimSuffix(format, "\n"), args...)
	}
}

// SetDebugFlags sets the debug flags from a comma-separated string.
// Supports both simple flags ("scan,pairs") and key:value format ("scan:true,pairs:false").
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	defer applyLogLevel()
	if flagsStr == "" {
		return
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}

// debugLog emits a trace line when the named debug flag is on, regardless of verbose level
func debugLog(flag string, format string, args ...interface{}) {
	if !IsDebugEnabled(flag) {
		return
	}
	logger.WithField("debug", flag).Debugf(format, args...)
}
