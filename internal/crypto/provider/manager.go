package provider

import "github.com/allisson/sixseal/internal/crypto/domain"

// Manager resolves the AEAD implementation for each layer in the fixed cipher
// chain. It is stateless and safe for concurrent use.
type Manager struct{}

// NewManager returns a ready-to-use provider Manager.
func NewManager() Manager { return Manager{} }

// ForLayer returns the AEAD implementation for layer index i (0..5), in the
// fixed order defined by domain.Layers.
func (Manager) ForLayer(i int) (AEAD, error) {
	if i < 0 || i >= domain.LayerCount {
		return nil, domain.ErrInvalidParameters
	}
	return New(domain.Layers[i])
}
