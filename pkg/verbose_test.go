package dup

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// captureLog redirects the package logger for the duration of a test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logger.Out
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(orig)
		SetDebugFlags("")
		SetVerboseLevel(VerboseQuiet)
	})
	return &buf
}

func TestSetVerboseLevel(t *testing.T) {
	captureLog(t)

	tests := []struct {
		level int
		want  logrus.Level
	}{
		{VerboseQuiet, logrus.WarnLevel},
		{VerboseBasic, logrus.InfoLevel},
		{VerboseDetail, logrus.DebugLevel},
		{VerboseTrace, logrus.TraceLevel},
	}
	for _, tt := range tests {
		SetVerboseLevel(tt.level)
		assert.Equal(t, tt.level, GetVerboseLevel())
		assert.Equal(t, tt.want, Logger().GetLevel())
	}
}

func TestVerboseLog(t *testing.T) {
	buf := captureLog(t)

	SetVerboseLevel(VerboseQuiet)
	VerboseLog(VerboseBasic, "hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerboseLevel(VerboseBasic)
	VerboseLog(VerboseBasic, "shown %d\n", 2)
	VerboseLog(VerboseDetail, "still hidden")
	assert.Contains(t, buf.String(), "shown 2")
	assert.NotContains(t, buf.String(), "still hidden")
}

func TestVerboseEnter(t *testing.T) {
	buf := captureLog(t)

	SetVerboseLevel(VerboseTrace)
	func() {
		defer VerboseEnter()()
	}()
	assert.Contains(t, buf.String(), "enter")
	assert.Contains(t, buf.String(), "exit")
}

func TestSetDebugFlags(t *testing.T) {
	buf := captureLog(t)

	SetDebugFlags("Scan, compare:false,pairs:on")
	assert.True(t, IsDebugEnabled(DebugScan))
	assert.False(t, IsDebugEnabled(DebugCompare))
	assert.True(t, IsDebugEnabled(DebugPairs))
	assert.False(t, IsDebugEnabled(DebugRemove))

	// a debug flag is visible at verbose level 0
	debugLog(DebugScan, "scan line %s", "x")
	debugLog(DebugRemove, "remove line")
	assert.Contains(t, buf.String(), "scan line x")
	assert.Contains(t, buf.String(), "debug=scan")
	assert.NotContains(t, buf.String(), "remove line")

	SetDebugFlags("")
	assert.False(t, IsDebugEnabled(DebugScan))
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())
}
