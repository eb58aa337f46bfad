// Package domain defines the core cryptographic wire types for the six-layer
// per-path-keyed encryption pipeline: the master keypair, derived per-file subkeys,
// and the encrypted blob's on-wire shape.
package domain

// Algorithm names the concrete AEAD primitive bound to a cipher layer.
type Algorithm string

// The six layers, in encryption order. Layer i's output becomes layer i+1's input;
// decryption runs the chain in reverse.
const (
	AESGCM       Algorithm = "aes-256-gcm"
	AEGIS256     Algorithm = "aegis-256"
	Schwaemm256  Algorithm = "schwaemm256-256"
	DeoxysII256  Algorithm = "deoxys-ii-256"
	Ascon128a    Algorithm = "ascon-128a"
	ChaCha20Poly Algorithm = "chacha20-poly1305"
)

// LayerCount is the fixed number of nested AEAD layers the wire format carries.
const LayerCount = 6

// Layers lists the six algorithms in the fixed, spec-mandated layer order.
var Layers = [LayerCount]Algorithm{AESGCM, AEGIS256, Schwaemm256, DeoxysII256, Ascon128a, ChaCha20Poly}

// KeySizes gives each layer's required key length in bytes, indexed 0..5.
var KeySizes = [LayerCount]int{32, 32, 32, 32, 16, 32}

// NonceSizes gives each layer's required nonce length in bytes, indexed 0..5.
var NonceSizes = [LayerCount]int{12, 32, 32, 15, 16, 12}

// TagSizes gives each layer's authentication tag length in bytes, indexed 0..5.
var TagSizes = [LayerCount]int{16, 32, 32, 16, 16, 16}

// WireVersion is the only version byte this implementation produces or accepts.
const WireVersion byte = 3

// HeaderSize is the constant per-blob overhead: 1 version byte plus the six tags.
const HeaderSize = 1 + 16 + 32 + 32 + 16 + 16 + 16 // 129

func init() {
	sum := 1
	for _, n := range TagSizes {
		sum += n
	}
	if sum != HeaderSize {
		panic("domain: HeaderSize does not match the sum of TagSizes")
	}
}
