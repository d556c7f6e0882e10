// Package env resolves ambient configuration from the process environment,
// the way the rest of this codebase always has: a typed default, overridable
// by a single environment variable, resolved once at package init.
package env

import (
	"fmt"
	"os"
)

var (
	ConfigFile  = GetEnv("LOADGEN_CONFIG_FILE", "")
	LogDir      = GetEnv("LOADGEN_LOG_DIR", ".")
	StatusAddr  = GetEnv("LOADGEN_STATUS_ADDR", "")
	Verbose     = GetEnv("LOADGEN_VERBOSE", "")
)

// GetEnv returns the named environment variable, or defval if unset or empty.
func GetEnv(name, defval string) string {
	if r := os.Getenv(name); r != "" {
		return r
	}
	return defval
}

// Fatal panics with its arguments formatted like fmt.Sprintln. Reserved for
// conditions that indicate a programming error, never for configuration
// problems a caller could recover from.
func Fatal(x ...interface{}) {
	panic(fmt.Sprintln(x...))
}

// Print writes to stdout only when LOADGEN_VERBOSE=true.
func Print(x ...interface{}) {
	if Verbose == "true" {
		fmt.Println(x...)
	}
}
