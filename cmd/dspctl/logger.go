package main

import (
	"fmt"
	"strings"

	logger "github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("dspctl", logger.InfoLevel)

// kvLogger adapts a go-logger package logger to the key-value Logger
// interfaces of the sigmadsp and eeprom packages.
type kvLogger struct {
	log logger.PackageLog
}

func (l kvLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg + formatKV(keysAndValues))
}

func (l kvLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg + formatKV(keysAndValues))
}

func (l kvLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(msg + formatKV(keysAndValues))
}

// formatKV renders key-value pairs as " key=value key=value". A trailing key
// without a value is printed alone.
func formatKV(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(kv); i += 2 {
		sb.WriteByte(' ')
		if i+1 == len(kv) {
			fmt.Fprint(&sb, kv[i])
			break
		}
		fmt.Fprintf(&sb, "%v=%v", kv[i], kv[i+1])
	}
	return sb.String()
}

// setVerbose switches the CLI and the i2c package to debug logging.
func setVerbose(verbose bool) error {
	level := logger.InfoLevel
	if verbose {
		level = logger.DebugLevel
	}
	for _, pkg := range []string{"dspctl", "i2c"} {
		if err := logger.ChangePackageLogLevel(pkg, level); err != nil {
			return fmt.Errorf("set %s log level: %w", pkg, err)
		}
	}
	return nil
}
