package provider

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// DeoxysII256Cipher implements layer 4: Deoxys-II-256, a nonce-misuse-resistant
// mode over the Deoxys-BC tweakable block cipher. The block cipher is 16 AES
// rounds keyed by the TWEAKEY schedule: three 16-byte tweakey words (one tweak,
// two key halves) that each step through the h byte permutation, with the key
// halves additionally stepped by per-byte LFSRs, XOR-combined with round
// constants into each round's subtweakey. The mode MACs the associated data
// and message under counter tweaks, binds the nonce into the final tag, then
// encrypts counter-mode keystream under tag-derived tweaks, so the cipher is
// only ever used in the forward direction.
type DeoxysII256Cipher struct{}

func (DeoxysII256Cipher) KeySize() int   { return domain.KeySizes[3] }
func (DeoxysII256Cipher) NonceSize() int { return domain.NonceSizes[3] }
func (DeoxysII256Cipher) TagSize() int   { return domain.TagSizes[3] }

const deoxysRounds = 16

// tweak-domain prefixes, in the tweak's top nibble
const (
	deoxysTweakAD      = 0x20
	deoxysTweakADFinal = 0x60
	deoxysTweakMsg     = 0x00
	deoxysTweakMsgLast = 0x40
	deoxysTweakTag     = 0x10
	deoxysTweakCTR     = 0x80
)

// deoxysRCON is the round-constant byte sequence for rounds 0..16.
var deoxysRCON = [deoxysRounds + 1]byte{
	0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80,
	0x1b, 0x36, 0x6c, 0xd8, 0xab, 0x4d, 0x9a, 0x2f, 0x5e,
}

// deoxysH is the tweakey byte permutation applied between rounds.
var deoxysH = [16]int{1, 6, 11, 12, 5, 10, 15, 0, 9, 14, 3, 4, 13, 2, 7, 8}

// lfsr2 steps a TK2 byte: left shift feeding back x7 ^ x5.
func lfsr2(x byte) byte {
	return (x << 1) | (((x >> 7) ^ (x >> 5)) & 1)
}

// lfsr3 steps a TK3 byte: right shift feeding back x0 ^ x6.
func lfsr3(x byte) byte {
	return (x >> 1) | (((x << 7) ^ (x << 1)) & 0x80)
}

func permuteH(tk *[16]byte) {
	var out [16]byte
	for i, j := range deoxysH {
		out[i] = tk[j]
	}
	*tk = out
}

// deoxysEncryptBlock computes E_K^T(in) with key = tk2 || tk3 and tweak = tk1.
func deoxysEncryptBlock(key []byte, tweak, in *[16]byte, out *[16]byte) {
	var tk1, tk2, tk3 [16]byte
	tk1 = *tweak
	copy(tk2[:], key[:16])
	copy(tk3[:], key[16:])

	subtweakey := func(round int) [16]byte {
		var stk [16]byte
		rc := deoxysRCON[round]
		for i := 0; i < 16; i++ {
			stk[i] = tk1[i] ^ tk2[i] ^ tk3[i]
		}
		stk[0] ^= 0x01
		stk[1] ^= 0x02
		stk[2] ^= 0x04
		stk[3] ^= 0x08
		stk[4] ^= rc
		stk[5] ^= rc
		stk[6] ^= rc
		stk[7] ^= rc
		return stk
	}

	state := *in
	stk := subtweakey(0)
	for i := range state {
		state[i] ^= stk[i]
	}

	for round := 1; round <= deoxysRounds; round++ {
		permuteH(&tk1)
		permuteH(&tk2)
		permuteH(&tk3)
		for i := range tk2 {
			tk2[i] = lfsr2(tk2[i])
			tk3[i] = lfsr3(tk3[i])
		}

		stk = subtweakey(round)
		var next [16]byte
		aesRound(&next, &state, &stk)
		state = next
	}

	*out = state
}

// deoxysMAC computes the (untruncated) authentication tag over aad and msg,
// with the nonce bound in by a final tag encryption.
func deoxysMAC(key, nonce, aad, msg []byte) [16]byte {
	var tag [16]byte

	absorb := func(data []byte, domainFull, domainLast byte) {
		var counter uint64
		var block, tweak, enc [16]byte
		for len(data) > 0 {
			n := len(data)
			last := n <= 16
			if n > 16 {
				n = 16
			}

			block = [16]byte{}
			copy(block[:], data[:n])
			tweak = [16]byte{}
			if last && n < 16 {
				block[n] = 0x80
				tweak[0] = domainLast
			} else {
				tweak[0] = domainFull
			}
			binary.BigEndian.PutUint64(tweak[8:], counter)

			deoxysEncryptBlock(key, &tweak, &block, &enc)
			for i := range tag {
				tag[i] ^= enc[i]
			}

			counter++
			data = data[n:]
		}
	}

	absorb(aad, deoxysTweakAD, deoxysTweakADFinal)
	absorb(msg, deoxysTweakMsg, deoxysTweakMsgLast)

	// bind the nonce: tag = E_K^{0001 || N}(tag)
	var tweak [16]byte
	tweak[0] = deoxysTweakTag
	copy(tweak[1:], nonce)
	var out [16]byte
	deoxysEncryptBlock(key, &tweak, &tag, &out)
	return out
}

// deoxysCTR XORs input with keystream blocks E_K^{(tag|msb) ^ j}(0^8 || N).
func deoxysCTR(key, nonce []byte, tag *[16]byte, input []byte) []byte {
	var nonceBlock [16]byte
	copy(nonceBlock[1:], nonce)

	output := make([]byte, len(input))
	var counter uint64
	var tweak, ks [16]byte
	rest := input
	out := output
	for len(rest) > 0 {
		n := len(rest)
		if n > 16 {
			n = 16
		}

		tweak = *tag
		tweak[0] |= deoxysTweakCTR
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], counter)
		for i := 0; i < 8; i++ {
			tweak[8+i] ^= ctr[i]
		}

		deoxysEncryptBlock(key, &tweak, &nonceBlock, &ks)
		for i := 0; i < n; i++ {
			out[i] = rest[i] ^ ks[i]
		}

		counter++
		rest = rest[n:]
		out = out[n:]
	}
	return output
}

func (c DeoxysII256Cipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	mac := deoxysMAC(key, nonce, aad, plaintext)
	ciphertext := deoxysCTR(key, nonce, &mac, plaintext)

	tag := make([]byte, c.TagSize())
	copy(tag, mac[:])
	return ciphertext, tag, nil
}

func (c DeoxysII256Cipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	var mac [16]byte
	copy(mac[:], tag)
	plaintext := deoxysCTR(key, nonce, &mac, ciphertext)

	want := deoxysMAC(key, nonce, aad, plaintext)
	if subtle.ConstantTimeCompare(want[:], tag) != 1 {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
