package domain

// InfoLabels are the six fixed, pairwise-distinct HKDF info strings used to bind
// each layer's subkey to its position in the chain. Changing a label would change
// every subkey derived from it, so these are never configurable.
var InfoLabels = [LayerCount][]byte{
	[]byte("sixseal-layer-1-aes256gcm"),
	[]byte("sixseal-layer-2-aegis256"),
	[]byte("sixseal-layer-3-schwaemm256"),
	[]byte("sixseal-layer-4-deoxysii256"),
	[]byte("sixseal-layer-5-ascon128a"),
	[]byte("sixseal-layer-6-chacha20poly1305"),
}

// DerivedKeys holds the six per-layer subkeys and nonces produced for one file
// path by the HKDF-based key schedule. Every field is sized per its layer's
// KeySizes/NonceSizes entry.
type DerivedKeys struct {
	Keys   [LayerCount][]byte
	Nonces [LayerCount][]byte
}

// Zero clears every subkey and nonce. Nonces are derived values, not secrets, but
// are zeroed anyway since they sit alongside the subkeys in memory.
func (d *DerivedKeys) Zero() {
	for i := range d.Keys {
		Zero(d.Keys[i])
		Zero(d.Nonces[i])
	}
}
