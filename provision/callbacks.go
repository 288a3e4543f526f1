package provision

import "time"

// Progress contains information about the provisioning progress.
// Passed to ProgressCallback on every state change and after every byte
// written.
type Progress struct {
	// State is the current state of the session
	State State

	// Offset is the number of image bytes written so far
	Offset int

	// Total is the image length
	Total int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Elapsed is the time elapsed since the session started
	Elapsed time.Duration
}

// ProgressCallback is called during provisioning to report progress.
// Implementations should return quickly; writes wait for it.
//
// Example:
//
//	prog := provision.New(target, op,
//	    provision.WithProgressCallback(func(p provision.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d/%d bytes\n",
//	            p.State, p.Percentage, p.Offset, p.Total)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the
// programmer. *slog.Logger satisfies it.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	prog := provision.New(target, op, provision.WithLogger(logger))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
