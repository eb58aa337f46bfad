package provider

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// AEGIS256Cipher implements layer 2: AEGIS-256, the AES-round-based state
// machine from the AEGIS specification. The state is six 16-byte blocks; every
// absorbed or encrypted block drives one update built from six parallel AES
// rounds. The keystream is a nonlinear combination of four state blocks, never
// a raw AES output.
type AEGIS256Cipher struct{}

func (AEGIS256Cipher) KeySize() int   { return domain.KeySizes[1] }
func (AEGIS256Cipher) NonceSize() int { return domain.NonceSizes[1] }
func (AEGIS256Cipher) TagSize() int   { return domain.TagSizes[1] }

// Fibonacci-derived constants from the AEGIS specification.
var aegisC0 = [16]byte{
	0x00, 0x01, 0x01, 0x02, 0x03, 0x05, 0x08, 0x0d,
	0x15, 0x22, 0x37, 0x59, 0x90, 0xe9, 0x79, 0x62,
}

var aegisC1 = [16]byte{
	0xdb, 0x3d, 0x18, 0x55, 0x6d, 0xc2, 0x2f, 0xf1,
	0x20, 0x11, 0x31, 0x42, 0x73, 0xb5, 0x28, 0xdd,
}

type aegisState struct {
	s [6][16]byte
}

// update replaces each block with one AES round of its left neighbor keyed by
// itself, folding the message block into block 0.
func (st *aegisState) update(m *[16]byte) {
	var in0 [16]byte
	xorBlock(&in0, &st.s[0], m)

	var next [6][16]byte
	aesRound(&next[0], &st.s[5], &in0)
	aesRound(&next[1], &st.s[0], &st.s[1])
	aesRound(&next[2], &st.s[1], &st.s[2])
	aesRound(&next[3], &st.s[2], &st.s[3])
	aesRound(&next[4], &st.s[3], &st.s[4])
	aesRound(&next[5], &st.s[4], &st.s[5])
	st.s = next
}

// keystream computes z = S1 ^ S4 ^ S5 ^ (S2 & S3).
func (st *aegisState) keystream(z *[16]byte) {
	for i := range z {
		z[i] = st.s[1][i] ^ st.s[4][i] ^ st.s[5][i] ^ (st.s[2][i] & st.s[3][i])
	}
}

func newAEGISState(key, nonce []byte) *aegisState {
	var k0, k1, n0, n1 [16]byte
	copy(k0[:], key[:16])
	copy(k1[:], key[16:])
	copy(n0[:], nonce[:16])
	copy(n1[:], nonce[16:])

	st := &aegisState{}
	xorBlock(&st.s[0], &k0, &n0)
	xorBlock(&st.s[1], &k1, &n1)
	st.s[2] = aegisC1
	st.s[3] = aegisC0
	xorBlock(&st.s[4], &k0, &aegisC0)
	xorBlock(&st.s[5], &k1, &aegisC1)

	var kn0, kn1 [16]byte
	xorBlock(&kn0, &k0, &n0)
	xorBlock(&kn1, &k1, &n1)
	for i := 0; i < 4; i++ {
		st.update(&k0)
		st.update(&k1)
		st.update(&kn0)
		st.update(&kn1)
	}
	return st
}

func (st *aegisState) absorb(data []byte) {
	var block [16]byte
	for len(data) >= 16 {
		copy(block[:], data[:16])
		st.update(&block)
		data = data[16:]
	}
	if len(data) > 0 {
		block = [16]byte{}
		copy(block[:], data)
		st.update(&block)
	}
}

func (st *aegisState) finalize(adLen, msgLen int, tag []byte) {
	var lengths [16]byte
	binary.LittleEndian.PutUint64(lengths[:8], uint64(adLen)*8)
	binary.LittleEndian.PutUint64(lengths[8:], uint64(msgLen)*8)

	var t [16]byte
	xorBlock(&t, &st.s[3], &lengths)
	for i := 0; i < 7; i++ {
		st.update(&t)
	}

	for i := 0; i < 16; i++ {
		tag[i] = st.s[0][i] ^ st.s[1][i] ^ st.s[2][i]
		tag[16+i] = st.s[3][i] ^ st.s[4][i] ^ st.s[5][i]
	}
}

func (c AEGIS256Cipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	st := newAEGISState(key, nonce)
	st.absorb(aad)

	ciphertext := make([]byte, len(plaintext))
	var block, z [16]byte
	rest := plaintext
	out := ciphertext
	for len(rest) > 0 {
		n := len(rest)
		if n > 16 {
			n = 16
		}
		block = [16]byte{}
		copy(block[:], rest[:n])

		st.keystream(&z)
		for i := 0; i < n; i++ {
			out[i] = block[i] ^ z[i]
		}
		st.update(&block)

		rest = rest[n:]
		out = out[n:]
	}

	tag := make([]byte, c.TagSize())
	st.finalize(len(aad), len(plaintext), tag)
	return ciphertext, tag, nil
}

func (c AEGIS256Cipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	st := newAEGISState(key, nonce)
	st.absorb(aad)

	plaintext := make([]byte, len(ciphertext))
	var block, z [16]byte
	rest := ciphertext
	out := plaintext
	for len(rest) > 0 {
		n := len(rest)
		if n > 16 {
			n = 16
		}

		st.keystream(&z)
		block = [16]byte{}
		for i := 0; i < n; i++ {
			block[i] = rest[i] ^ z[i]
			out[i] = block[i]
		}
		st.update(&block)

		rest = rest[n:]
		out = out[n:]
	}

	want := make([]byte, c.TagSize())
	st.finalize(len(aad), len(ciphertext), want)
	if subtle.ConstantTimeCompare(want, tag) != 1 {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
