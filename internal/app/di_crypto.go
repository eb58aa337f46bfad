package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/keystore"
	ierrors "github.com/allisson/sixseal/internal/errors"
	"github.com/allisson/sixseal/internal/filter"
)

// KeyStore returns the master keypair store, with KMS wrapping configured when
// KMS_PROVIDER and KMS_KEY_URI are both set.
func (c *Container) KeyStore() *keystore.Store {
	c.keyStoreInit.Do(func() {
		store := keystore.NewStore(c.config.KeyStorePath)
		if c.config.KMSProvider != "" && c.config.KMSKeyURI != "" {
			store = store.WithKMS(keystore.NewKMSService(), c.config.KMSKeyURI)
		}
		c.keyStore = store
	})
	return c.keyStore
}

// MasterKeypair returns the persisted master keypair, loading it on first
// access. Returns cryptoDomain.ErrKeypairNotFound when the store was never
// initialized.
func (c *Container) MasterKeypair(ctx context.Context) (*cryptoDomain.MasterKeypair, error) {
	var err error
	c.masterKeypairInit.Do(func() {
		c.masterKeypair, err = c.KeyStore().Load(ctx)
		if err != nil {
			c.initErrors["masterKeypair"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeypair"]; exists {
		return nil, storedErr
	}
	return c.masterKeypair, nil
}

// Facade returns the clean/smudge facade bound to the loaded master key.
func (c *Container) Facade(ctx context.Context) (*filter.Facade, error) {
	var err error
	c.facadeInit.Do(func() {
		var kp *cryptoDomain.MasterKeypair
		kp, err = c.MasterKeypair(ctx)
		if err != nil {
			if ierrors.Is(err, cryptoDomain.ErrKeypairNotFound) {
				err = fmt.Errorf("%w (run 'sixseal init' first)", cryptoDomain.ErrNotInitialized)
			}
			c.initErrors["facade"] = err
			return
		}

		var masterKey []byte
		masterKey, err = kp.MasterKey()
		if err != nil {
			c.initErrors["facade"] = fmt.Errorf("failed to derive master key: %w", err)
			return
		}

		c.facade = filter.NewFacade(masterKey)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["facade"]; exists {
		return nil, storedErr
	}
	return c.facade, nil
}
