package core

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Reaction is what a failed Check does after logging the bug.
type Reaction int

const (
	ReactPanic    Reaction = iota // stop in the debugger / crash with a stack
	ReactExit                     // exit the process with status 1
	ReactHang                     // block forever so the process can be inspected
	ReactContinue                 // log only
)

// CurrentReaction is consulted by every failed Check.
var CurrentReaction = ReactPanic

func (r Reaction) String() string {
	switch r {
	case ReactPanic:
		return "panic"
	case ReactExit:
		return "exit"
	case ReactHang:
		return "hang"
	case ReactContinue:
		return "continue"
	}
	return fmt.Sprintf("Reaction(%d)", int(r))
}

// ParseReaction maps a config string onto a Reaction.
func ParseReaction(s string) (Reaction, error) {
	switch strings.ToLower(s) {
	case "", "panic":
		return ReactPanic, nil
	case "exit":
		return ReactExit, nil
	case "hang":
		return ReactHang, nil
	case "continue":
		return ReactContinue, nil
	}
	return ReactPanic, fmt.Errorf("unknown error reaction %q", s)
}

// Check asserts a programming invariant. Violations are bugs, never
// recoverable errors; builds tagged "release" compile the test away.
func Check(cond bool, msg string, fields ...zap.Field) {
	if !checksEnabled || cond {
		return
	}
	failCheck(msg, fields)
}

func failCheck(msg string, fields []zap.Field) {
	Bug(msg, fields...)
	switch CurrentReaction {
	case ReactPanic:
		panic("check failed: " + msg)
	case ReactExit:
		_ = Log.Sync()
		os.Exit(1)
	case ReactHang:
		select {}
	}
}
