package logging

import (
	"log"
	"os"
)

var (
	disabled = false
	verbose  = false
	logger   = log.New(os.Stdout, "", log.LstdFlags)
)

// Disable turns off all logging
func Disable() {
	disabled = true
}

// Enable turns logging back on
func Enable() {
	disabled = false
}

// SetVerbose toggles Debug/Debugf output. Unlike Disable, which silences
// every level, this only gates the noisy per-iteration/per-tick messages the
// background loops (router, scheduler, dispatcher) emit — wired to the
// hub's --verbose flag (see cmd/hearthhub).
func SetVerbose(v bool) {
	verbose = v
}

// Verbose reports whether Debug/Debugf currently emit anything.
func Verbose() bool {
	return verbose
}

// Info logs an info message
func Info(v ...any) {
	if !disabled {
		logger.Println(v...)
	}
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	if !disabled {
		logger.Printf(format, v...)
	}
}

// Error logs an error message
func Error(v ...any) {
	if !disabled {
		logger.Println(v...)
	}
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	if !disabled {
		logger.Printf(format, v...)
	}
}

// Warn logs a warning message
func Warn(v ...any) {
	if !disabled {
		logger.Println(v...)
	}
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	if !disabled {
		logger.Printf(format, v...)
	}
}

// Debug logs a debug message, only when verbose mode is on
func Debug(v ...any) {
	if !disabled && verbose {
		logger.Println(v...)
	}
}

// Debugf logs a formatted debug message, only when verbose mode is on
func Debugf(format string, v ...any) {
	if !disabled && verbose {
		logger.Printf(format, v...)
	}
}
