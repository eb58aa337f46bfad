package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/keystore"
	"github.com/allisson/sixseal/internal/stage"
)

// RunRotateMasterKey replaces the persisted master keypair with a freshly
// generated one and re-stages the given working-tree paths so the clean filter
// re-encrypts them under the new key. Working-tree files are plaintext, so no
// decryption pass is needed; blobs already in history stay bound to the old
// key and become unreadable, which is the documented cost of re-keying.
func RunRotateMasterKey(
	ctx context.Context,
	store *keystore.Store,
	runner *stage.Runner,
	logger *slog.Logger,
	streams IO,
	paths []string,
) error {
	oldKp, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("cannot rotate before the key store is initialized: %w", err)
	}
	defer oldKp.Zero()

	oldFingerprint, err := oldKp.Fingerprint()
	if err != nil {
		return err
	}

	newKp, err := cryptoDomain.GenerateMasterKeypair()
	if err != nil {
		return fmt.Errorf("failed to generate replacement keypair: %w", err)
	}
	defer newKp.Zero()

	if err := store.Save(ctx, newKp); err != nil {
		return fmt.Errorf("failed to persist replacement keypair: %w", err)
	}

	newFingerprint, err := newKp.Fingerprint()
	if err != nil {
		return err
	}

	logger.Info("master keypair rotated",
		slog.String("old_fingerprint", oldFingerprint),
		slog.String("new_fingerprint", newFingerprint),
	)

	_, _ = fmt.Fprintf(streams.Writer, "Rotated master keypair: %s -> %s\n", oldFingerprint, newFingerprint)

	if len(paths) == 0 {
		_, _ = fmt.Fprintln(streams.Writer, "No paths given; re-stage your encrypted files so they re-encrypt under the new key.")
		return nil
	}

	result, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return stagingFailure(result)
	}

	_, _ = fmt.Fprintf(streams.Writer, "Re-staged %d path(s) under the new key\n", result.Processed)
	return nil
}
