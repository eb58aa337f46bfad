package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/keystore"
)

// RunInitKeypair generates and persists a fresh master keypair. It refuses to
// overwrite an existing keypair file: losing the old secret would make every
// blob already in history undecryptable.
func RunInitKeypair(
	ctx context.Context,
	store *keystore.Store,
	logger *slog.Logger,
	streams IO,
) error {
	if store.Exists() {
		return fmt.Errorf("key store already initialized at %s (remove the file to re-key, which makes existing encrypted history unreadable)", store.Path)
	}

	logger.Info("generating master keypair", slog.String("path", store.Path))

	kp, err := cryptoDomain.GenerateMasterKeypair()
	if err != nil {
		return fmt.Errorf("failed to generate master keypair: %w", err)
	}
	defer kp.Zero()

	if err := store.Save(ctx, kp); err != nil {
		return fmt.Errorf("failed to persist master keypair: %w", err)
	}

	fingerprint, err := kp.Fingerprint()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(streams.Writer, "Initialized key store at %s\n", store.Path)
	_, _ = fmt.Fprintf(streams.Writer, "Keypair fingerprint: %s\n", fingerprint)
	_, _ = fmt.Fprintln(streams.Writer)
	_, _ = fmt.Fprintln(streams.Writer, "Share this file out of band with collaborators who need plaintext access.")
	return nil
}

// RunShowFingerprint prints the loaded keypair's public fingerprint so two
// clones can confirm they share a secret without printing key material.
func RunShowFingerprint(
	ctx context.Context,
	store *keystore.Store,
	streams IO,
) error {
	kp, err := store.Load(ctx)
	if err != nil {
		return err
	}
	defer kp.Zero()

	fingerprint, err := kp.Fingerprint()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(streams.Writer, fingerprint)
	return nil
}
