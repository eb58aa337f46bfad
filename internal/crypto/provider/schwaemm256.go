package provider

import (
	"crypto/subtle"
	"encoding/binary"
	"math/bits"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// Schwaemm256Cipher implements layer 3: Schwaemm256-256, the sponge AEAD built
// on the Sparkle512 ARX permutation — eight Alzette 64-bit ARX boxes per step
// followed by a Feistel-style linear diffusion across the two state halves. It
// duplexes 32-byte blocks against a 32-byte capacity, with rate whitening and
// domain-separation constants folded into the capacity, and runs the big
// (12-step) permutation around initialization/finalization and the slim
// (8-step) permutation in between.
type Schwaemm256Cipher struct{}

func (Schwaemm256Cipher) KeySize() int   { return domain.KeySizes[2] }
func (Schwaemm256Cipher) NonceSize() int { return domain.NonceSizes[2] }
func (Schwaemm256Cipher) TagSize() int   { return domain.TagSizes[2] }

const (
	sparkleBranches  = 8
	sparkleBigSteps  = 12
	sparkleSlimSteps = 8

	schwaemmRate = 32

	// capacity domain-separation constants
	schwaemmConstAD  = 0x04
	schwaemmConstADP = 0x05
	schwaemmConstM   = 0x02
	schwaemmConstMP  = 0x03
)

// Alzette round constants, also used as the step-counter constants.
var sparkleRCON = [8]uint32{
	0xB7E15162, 0xBF715880, 0x38B4DA56, 0x324E7738,
	0xBB1185EB, 0x4F7C7B57, 0xCFBFA1C8, 0xC2B3293D,
}

// sparkleState is the 512-bit Sparkle state as eight (x, y) branches.
type sparkleState struct {
	x [sparkleBranches]uint32
	y [sparkleBranches]uint32
}

// alzette is the 64-bit ARX box: four add-rotate-xor rounds with per-branch
// constant c.
func alzette(x, y *uint32, c uint32) {
	*x += bits.RotateLeft32(*y, -31)
	*y ^= bits.RotateLeft32(*x, -24)
	*x ^= c
	*x += bits.RotateLeft32(*y, -17)
	*y ^= bits.RotateLeft32(*x, -17)
	*x ^= c
	*x += *y
	*y ^= bits.RotateLeft32(*x, -31)
	*x ^= c
	*x += bits.RotateLeft32(*y, -24)
	*y ^= bits.RotateLeft32(*x, -16)
	*x ^= c
}

func sparkleEll(z uint32) uint32 {
	return bits.RotateLeft32(z^(z<<16), 16)
}

// permute runs the Sparkle512 permutation for the given number of steps.
func (s *sparkleState) permute(steps int) {
	const hb = sparkleBranches / 2

	for step := 0; step < steps; step++ {
		s.y[0] ^= sparkleRCON[step%8]
		s.y[1] ^= uint32(step)

		for i := 0; i < sparkleBranches; i++ {
			alzette(&s.x[i], &s.y[i], sparkleRCON[i])
		}

		// linear layer: Feistel mix of the left half into the right, then the
		// mixed right half rotates one branch as it becomes the new left
		var tx, ty uint32
		for i := 0; i < hb; i++ {
			tx ^= s.x[i]
			ty ^= s.y[i]
		}
		tx = sparkleEll(tx)
		ty = sparkleEll(ty)

		var nx, ny [sparkleBranches]uint32
		for i := 0; i < hb; i++ {
			mx := s.x[i+hb] ^ s.x[i] ^ ty
			my := s.y[i+hb] ^ s.y[i] ^ tx
			nx[(i+hb-1)%hb] = mx
			ny[(i+hb-1)%hb] = my
			nx[i+hb] = s.x[i]
			ny[i+hb] = s.y[i]
		}
		s.x = nx
		s.y = ny
	}
}

// rateBytes serializes branches 0..3 (the rate) as little-endian words.
func (s *sparkleState) rateBytes(out *[schwaemmRate]byte) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(out[8*i:], s.x[i])
		binary.LittleEndian.PutUint32(out[8*i+4:], s.y[i])
	}
}

func (s *sparkleState) setRate(in *[schwaemmRate]byte) {
	for i := 0; i < 4; i++ {
		s.x[i] = binary.LittleEndian.Uint32(in[8*i:])
		s.y[i] = binary.LittleEndian.Uint32(in[8*i+4:])
	}
}

// rho applies the Schwaemm feedback to the current rate given an input block:
// FeistelSwap(rate) ^ block, where FeistelSwap maps (R1, R2) to
// (R2, R1 ^ R2) over the rate's two 16-byte halves.
func schwaemmRho(rate *[schwaemmRate]byte, block *[schwaemmRate]byte) {
	var next [schwaemmRate]byte
	for i := 0; i < 16; i++ {
		next[i] = rate[16+i]
		next[16+i] = rate[i] ^ rate[16+i]
	}
	for i := range next {
		next[i] ^= block[i]
	}
	*rate = next
}

// whiten XORs the capacity (branches 4..7) into the rate before a permutation
// call.
func (s *sparkleState) whiten() {
	for i := 0; i < 4; i++ {
		s.x[i] ^= s.x[i+4]
		s.y[i] ^= s.y[i+4]
	}
}

func (s *sparkleState) injectConst(c uint32) {
	s.y[sparkleBranches-1] ^= c
}

func newSchwaemmState(key, nonce []byte) *sparkleState {
	s := &sparkleState{}
	var rate [schwaemmRate]byte
	copy(rate[:], nonce)
	s.setRate(&rate)
	for i := 0; i < 4; i++ {
		s.x[i+4] = binary.LittleEndian.Uint32(key[8*i:])
		s.y[i+4] = binary.LittleEndian.Uint32(key[8*i+4:])
	}
	s.permute(sparkleBigSteps)
	return s
}

// pad10 copies data into a zeroed rate block with 10* padding. Returns true if
// the block was partial (padded).
func pad10(data []byte) ([schwaemmRate]byte, bool) {
	var block [schwaemmRate]byte
	n := copy(block[:], data)
	if n < schwaemmRate {
		block[n] = 0x80
		return block, true
	}
	return block, false
}

func (s *sparkleState) absorbAD(aad []byte) {
	if len(aad) == 0 {
		return
	}

	var rate [schwaemmRate]byte
	for len(aad) > schwaemmRate {
		block, _ := pad10(aad[:schwaemmRate])
		s.rateBytes(&rate)
		schwaemmRho(&rate, &block)
		s.setRate(&rate)
		s.whiten()
		s.permute(sparkleSlimSteps)
		aad = aad[schwaemmRate:]
	}

	block, padded := pad10(aad)
	if padded {
		s.injectConst(schwaemmConstADP)
	} else {
		s.injectConst(schwaemmConstAD)
	}
	s.rateBytes(&rate)
	schwaemmRho(&rate, &block)
	s.setRate(&rate)
	s.whiten()
	s.permute(sparkleBigSteps)
}

func (s *sparkleState) tag(key []byte, tag []byte) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(tag[8*i:], s.x[i+4]^binary.LittleEndian.Uint32(key[8*i:]))
		binary.LittleEndian.PutUint32(tag[8*i+4:], s.y[i+4]^binary.LittleEndian.Uint32(key[8*i+4:]))
	}
}

// processMessage duplexes the message through the state. For each block the
// emitted bytes are rate ^ input; the plaintext block (recomputed from the
// rate on decryption) feeds the rho feedback so both directions walk the same
// state sequence.
func (s *sparkleState) processMessage(input []byte, output []byte, decrypt bool) {
	if len(input) == 0 {
		s.injectConst(schwaemmConstM)
		s.permute(sparkleBigSteps)
		return
	}

	var rate [schwaemmRate]byte
	rest := input
	out := output
	for {
		last := len(rest) <= schwaemmRate
		n := len(rest)
		if n > schwaemmRate {
			n = schwaemmRate
		}

		s.rateBytes(&rate)

		var pt [schwaemmRate]byte
		copy(pt[:], rest[:n])
		if decrypt {
			for i := 0; i < n; i++ {
				pt[i] = rate[i] ^ rest[i]
			}
		}
		for i := 0; i < n; i++ {
			out[i] = rate[i] ^ rest[i]
		}

		if last {
			if n < schwaemmRate {
				pt[n] = 0x80
				s.injectConst(schwaemmConstMP)
			} else {
				s.injectConst(schwaemmConstM)
			}
		}

		schwaemmRho(&rate, &pt)
		s.setRate(&rate)
		s.whiten()
		if last {
			s.permute(sparkleBigSteps)
			return
		}
		s.permute(sparkleSlimSteps)

		rest = rest[n:]
		out = out[n:]
	}
}

func (c Schwaemm256Cipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	s := newSchwaemmState(key, nonce)
	s.absorbAD(aad)

	ciphertext := make([]byte, len(plaintext))
	s.processMessage(plaintext, ciphertext, false)

	tag := make([]byte, c.TagSize())
	s.tag(key, tag)
	return ciphertext, tag, nil
}

func (c Schwaemm256Cipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	s := newSchwaemmState(key, nonce)
	s.absorbAD(aad)

	plaintext := make([]byte, len(ciphertext))
	s.processMessage(ciphertext, plaintext, true)

	want := make([]byte, c.TagSize())
	s.tag(key, want)
	if subtle.ConstantTimeCompare(want, tag) != 1 {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
