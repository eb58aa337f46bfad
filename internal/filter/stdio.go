package filter

import (
	"fmt"
	"io"
)

// RunClean reads all of r, encrypts it for path, and writes the wire blob to w.
// Intended for wiring directly to a VCS clean filter's stdin/stdout.
func RunClean(f *Facade, path string, r io.Reader, w io.Writer) error {
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	blob, err := f.Clean(path, plaintext)
	if err != nil {
		return err
	}

	if _, err := w.Write(blob); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	return nil
}

// RunSmudge reads all of r, decrypts it for path (or passes it through
// unchanged for legacy/plaintext input), and writes the result to w.
func RunSmudge(f *Facade, path string, r io.Reader, w io.Writer) error {
	stored, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	plaintext, err := f.Smudge(path, stored)
	if err != nil {
		return err
	}

	if _, err := w.Write(plaintext); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	return nil
}
