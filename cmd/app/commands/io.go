package commands

import (
	"io"
	"os"
)

// IO bundles the streams a command reads and writes, so tests can substitute
// in-memory buffers for the process streams.
type IO struct {
	Reader    io.Reader
	Writer    io.Writer
	ErrWriter io.Writer
}

// DefaultIO returns the process's real stdin/stdout/stderr.
func DefaultIO() IO {
	return IO{
		Reader:    os.Stdin,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}
}
