package eeprom

import "time"

// Programming phases reported in Progress.Phase.
const (
	PhaseChecking  = "checking"
	PhaseWriting   = "writing"
	PhaseErasing   = "erasing"
	PhaseTagging   = "tagging"
	PhaseVerifying = "verifying"
	PhaseComplete  = "complete"
)

// Progress contains information about the programming progress.
// Passed to ProgressCallback during WriteFirmware.
type Progress struct {
	// Phase describes the current operation phase:
	//   "checking"  - Reading the stored version tag
	//   "writing"   - Writing the image
	//   "erasing"   - Overwriting stale bytes past the image
	//   "tagging"   - Writing the version tag
	//   "verifying" - Reading the tag back
	//   "complete"  - Operation completed successfully
	Phase string

	// BytesWritten is the number of bytes written so far, padding included
	BytesWritten int

	// TotalBytes is the number of bytes the operation writes
	TotalBytes int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since programming started
	ElapsedTime time.Duration
}

// ProgressCallback is called periodically during programming to report
// progress. Writing an 8 KiB image takes about 40 seconds, so callers
// usually drive a progress bar from it.
//
// Example:
//
//	prog, _ := eeprom.New(b, 64,
//	    eeprom.WithProgressCallback(func(p eeprom.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d/%d bytes\n",
//	            p.Phase, p.Percentage, p.BytesWritten, p.TotalBytes)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the
// programmer. It has the same shape as sigmadsp.Logger, so one adapter
// serves both.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
