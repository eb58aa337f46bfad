package provider

import (
	"crypto/subtle"
	"encoding/binary"
	"math/bits"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// Ascon128aCipher implements layer 5: Ascon-128a, the lightweight sponge AEAD.
// The 320-bit state runs the Ascon permutation — bit-sliced 5-bit S-box plus
// per-word rotational diffusion — with 12 rounds around initialization and
// finalization and 8 rounds between absorbed blocks, at a 16-byte rate.
type Ascon128aCipher struct{}

func (Ascon128aCipher) KeySize() int   { return domain.KeySizes[4] }
func (Ascon128aCipher) NonceSize() int { return domain.NonceSizes[4] }
func (Ascon128aCipher) TagSize() int   { return domain.TagSizes[4] }

// asconIV encodes Ascon-128a's parameters: 128-bit key, 128-bit rate,
// 12 init/final rounds, 8 intermediate rounds.
const asconIV = 0x80800c0800000000

var asconRC = [12]uint64{
	0xf0, 0xe1, 0xd2, 0xc3, 0xb4, 0xa5, 0x96, 0x87, 0x78, 0x69, 0x5a, 0x4b,
}

type asconState struct {
	x0, x1, x2, x3, x4 uint64
}

// permute runs the last `rounds` rounds of the Ascon permutation.
func (s *asconState) permute(rounds int) {
	for _, rc := range asconRC[12-rounds:] {
		// addition of round constant
		s.x2 ^= rc

		// substitution layer
		s.x0 ^= s.x4
		s.x4 ^= s.x3
		s.x2 ^= s.x1
		t0 := ^s.x0 & s.x1
		t1 := ^s.x1 & s.x2
		t2 := ^s.x2 & s.x3
		t3 := ^s.x3 & s.x4
		t4 := ^s.x4 & s.x0
		s.x0 ^= t1
		s.x1 ^= t2
		s.x2 ^= t3
		s.x3 ^= t4
		s.x4 ^= t0
		s.x1 ^= s.x0
		s.x0 ^= s.x4
		s.x3 ^= s.x2
		s.x2 = ^s.x2

		// linear diffusion layer
		s.x0 ^= bits.RotateLeft64(s.x0, -19) ^ bits.RotateLeft64(s.x0, -28)
		s.x1 ^= bits.RotateLeft64(s.x1, -61) ^ bits.RotateLeft64(s.x1, -39)
		s.x2 ^= bits.RotateLeft64(s.x2, -1) ^ bits.RotateLeft64(s.x2, -6)
		s.x3 ^= bits.RotateLeft64(s.x3, -10) ^ bits.RotateLeft64(s.x3, -17)
		s.x4 ^= bits.RotateLeft64(s.x4, -7) ^ bits.RotateLeft64(s.x4, -41)
	}
}

func newAsconState(key, nonce []byte) (*asconState, uint64, uint64) {
	k0 := binary.BigEndian.Uint64(key[:8])
	k1 := binary.BigEndian.Uint64(key[8:])

	s := &asconState{
		x0: asconIV,
		x1: k0,
		x2: k1,
		x3: binary.BigEndian.Uint64(nonce[:8]),
		x4: binary.BigEndian.Uint64(nonce[8:]),
	}
	s.permute(12)
	s.x3 ^= k0
	s.x4 ^= k1
	return s, k0, k1
}

// absorbAD folds the associated data into the state at the 16-byte rate,
// 10*-padded, then applies the domain separation bit.
func (s *asconState) absorbAD(aad []byte) {
	if len(aad) > 0 {
		for len(aad) >= 16 {
			s.x0 ^= binary.BigEndian.Uint64(aad[:8])
			s.x1 ^= binary.BigEndian.Uint64(aad[8:16])
			s.permute(8)
			aad = aad[16:]
		}
		var block [16]byte
		copy(block[:], aad)
		block[len(aad)] = 0x80
		s.x0 ^= binary.BigEndian.Uint64(block[:8])
		s.x1 ^= binary.BigEndian.Uint64(block[8:])
		s.permute(8)
	}
	s.x4 ^= 1
}

func (s *asconState) tag(k0, k1 uint64, tag []byte) {
	s.x2 ^= k0
	s.x3 ^= k1
	s.permute(12)
	binary.BigEndian.PutUint64(tag[:8], s.x3^k0)
	binary.BigEndian.PutUint64(tag[8:], s.x4^k1)
}

func (c Ascon128aCipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	s, k0, k1 := newAsconState(key, nonce)
	s.absorbAD(aad)

	ciphertext := make([]byte, len(plaintext))
	rest := plaintext
	out := ciphertext
	for len(rest) >= 16 {
		s.x0 ^= binary.BigEndian.Uint64(rest[:8])
		s.x1 ^= binary.BigEndian.Uint64(rest[8:16])
		binary.BigEndian.PutUint64(out[:8], s.x0)
		binary.BigEndian.PutUint64(out[8:16], s.x1)
		s.permute(8)
		rest = rest[16:]
		out = out[16:]
	}

	// last, partial block: absorb with 10* padding, emit the truncated rate
	var block [16]byte
	copy(block[:], rest)
	block[len(rest)] = 0x80
	s.x0 ^= binary.BigEndian.Uint64(block[:8])
	s.x1 ^= binary.BigEndian.Uint64(block[8:])
	var rate [16]byte
	binary.BigEndian.PutUint64(rate[:8], s.x0)
	binary.BigEndian.PutUint64(rate[8:], s.x1)
	copy(out, rate[:len(rest)])

	tag := make([]byte, c.TagSize())
	s.tag(k0, k1, tag)
	return ciphertext, tag, nil
}

func (c Ascon128aCipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	s, k0, k1 := newAsconState(key, nonce)
	s.absorbAD(aad)

	plaintext := make([]byte, len(ciphertext))
	rest := ciphertext
	out := plaintext
	for len(rest) >= 16 {
		c0 := binary.BigEndian.Uint64(rest[:8])
		c1 := binary.BigEndian.Uint64(rest[8:16])
		binary.BigEndian.PutUint64(out[:8], s.x0^c0)
		binary.BigEndian.PutUint64(out[8:16], s.x1^c1)
		s.x0 = c0
		s.x1 = c1
		s.permute(8)
		rest = rest[16:]
		out = out[16:]
	}

	// last, partial block: recover the plaintext bytes, then overwrite only
	// the consumed rate bytes and apply the 10* padding
	var rate [16]byte
	binary.BigEndian.PutUint64(rate[:8], s.x0)
	binary.BigEndian.PutUint64(rate[8:], s.x1)
	for i := 0; i < len(rest); i++ {
		out[i] = rate[i] ^ rest[i]
		rate[i] = rest[i]
	}
	rate[len(rest)] ^= 0x80
	s.x0 = binary.BigEndian.Uint64(rate[:8])
	s.x1 = binary.BigEndian.Uint64(rate[8:])

	want := make([]byte, c.TagSize())
	s.tag(k0, k1, want)
	if subtle.ConstantTimeCompare(want, tag) != 1 {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
