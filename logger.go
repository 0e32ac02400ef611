package crud

// Logger wraps a single method, Print, which prints a message
// for diagnostic purposes. Any implementation of this interface must
// support concurrent access by multiple goroutines.
//
// The Logger type in the standard library package "log" implements
// this interface.
type Logger interface {
	Print(v ...interface{})
}
