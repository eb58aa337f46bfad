package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/schemes"
)

// kemSchemeName is the post-quantum KEM backing MasterKeypair's hybrid secret.
// ML-KEM-768 (FIPS 203) targets NIST security category 3, matching the 32-byte
// classical secret's effective strength.
const kemSchemeName = "ML-KEM-768"

// ClassicalSecretSize is the length of MasterKeypair's classical secret half.
const ClassicalSecretSize = 32

var kemMagic = [4]byte{'S', 'X', 'K', '1'}

func kemScheme() kem.Scheme {
	s := schemes.ByName(kemSchemeName)
	if s == nil {
		panic("domain: unknown KEM scheme " + kemSchemeName)
	}
	return s
}

// MasterKeypair is the hybrid classical/post-quantum secret a key store persists.
// MasterKey, the 32-byte value every per-file subkey is ultimately derived from,
// is a hash of both halves combined, so an attacker must break both the classical
// secret and the KEM private key to recover it.
type MasterKeypair struct {
	ClassicalSecret []byte
	PQPublicKey     kem.PublicKey
	PQPrivateKey    kem.PrivateKey
}

// GenerateMasterKeypair creates a fresh hybrid keypair using a CSPRNG.
func GenerateMasterKeypair() (*MasterKeypair, error) {
	classical := make([]byte, ClassicalSecretSize)
	if _, err := io.ReadFull(rand.Reader, classical); err != nil {
		return nil, ErrInvalidParameters
	}

	pub, priv, err := kemScheme().GenerateKeyPair()
	if err != nil {
		return nil, ErrInvalidParameters
	}

	return &MasterKeypair{
		ClassicalSecret: classical,
		PQPublicKey:     pub,
		PQPrivateKey:    priv,
	}, nil
}

// MasterKey derives the 32-byte key that seeds every per-file key derivation, as
// H512(classical || pq_private)[0:32].
func (m *MasterKeypair) MasterKey() ([]byte, error) {
	privBytes, err := m.PQPrivateKey.MarshalBinary()
	if err != nil {
		return nil, ErrInvalidParameters
	}
	defer Zero(privBytes)

	h := sha3.New512()
	h.Write(m.ClassicalSecret)
	h.Write(privBytes)
	sum := h.Sum(nil)
	return sum[:32], nil
}

// Fingerprint returns a short hex digest of the public encapsulation key.
// Two clones sharing the same keypair print the same value, so operators can
// compare fingerprints without any secret material leaving the key store.
func (m *MasterKeypair) Fingerprint() (string, error) {
	pubBytes, err := m.PQPublicKey.MarshalBinary()
	if err != nil {
		return "", ErrInvalidParameters
	}

	sum := sha3.Sum256(pubBytes)
	return hex.EncodeToString(sum[:8]), nil
}

// Zero clears the classical secret half. The PQ private key is a circl-managed
// type with no public zeroization hook; its backing memory is released to the GC
// once the keypair is dropped.
func (m *MasterKeypair) Zero() {
	Zero(m.ClassicalSecret)
}

// Marshal packs the keypair into a self-describing binary form for persistence:
// a 4-byte magic, then three length-prefixed fields (classical secret, packed
// public key, packed private key).
func (m *MasterKeypair) Marshal() ([]byte, error) {
	pubBytes, err := m.PQPublicKey.MarshalBinary()
	if err != nil {
		return nil, ErrInvalidParameters
	}
	privBytes, err := m.PQPrivateKey.MarshalBinary()
	if err != nil {
		return nil, ErrInvalidParameters
	}
	defer Zero(privBytes)

	out := make([]byte, 0, 4+12+len(m.ClassicalSecret)+len(pubBytes)+len(privBytes))
	out = append(out, kemMagic[:]...)
	out = appendLengthPrefixed(out, m.ClassicalSecret)
	out = appendLengthPrefixed(out, pubBytes)
	out = appendLengthPrefixed(out, privBytes)
	return out, nil
}

// ParseMasterKeypair reverses Marshal.
func ParseMasterKeypair(buf []byte) (*MasterKeypair, error) {
	if len(buf) < 4 || [4]byte(buf[:4]) != kemMagic {
		return nil, ErrInvalidBlobFormat
	}
	rest := buf[4:]

	classical, rest, err := readLengthPrefixed(rest)
	if err != nil {
		return nil, err
	}
	pubBytes, rest, err := readLengthPrefixed(rest)
	if err != nil {
		return nil, err
	}
	privBytes, rest, err := readLengthPrefixed(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrInvalidBlobFormat
	}

	scheme := kemScheme()
	pub, err := scheme.UnmarshalBinaryPublicKey(pubBytes)
	if err != nil {
		return nil, ErrInvalidBlobFormat
	}
	priv, err := scheme.UnmarshalBinaryPrivateKey(privBytes)
	if err != nil {
		return nil, ErrInvalidBlobFormat
	}

	return &MasterKeypair{
		ClassicalSecret: classical,
		PQPublicKey:     pub,
		PQPrivateKey:    priv,
	}, nil
}

func appendLengthPrefixed(dst, field []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(field)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, field...)
}

func readLengthPrefixed(buf []byte) (field, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, ErrInvalidBlobFormat
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, ErrInvalidBlobFormat
	}
	return buf[:n], buf[n:], nil
}
