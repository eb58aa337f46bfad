package domain

import "fmt"

// EncryptedBlob is the on-wire shape produced by Clean and consumed by Smudge:
// a one-byte format version, the six layers' authentication tags, and the
// ciphertext body. Layout (offsets in bytes):
//
//	0      1   version (== WireVersion)
//	1     16   tag[0]  AES-256-GCM
//	17    32   tag[1]  AEGIS-256
//	49    32   tag[2]  Schwaemm256-256
//	81    16   tag[3]  Deoxys-II-256
//	97    16   tag[4]  Ascon-128a
//	113   16   tag[5]  ChaCha20-Poly1305
//	129    *   ciphertext
type EncryptedBlob struct {
	Version    byte
	Tags       [LayerCount][]byte
	Ciphertext []byte
}

// Marshal packs the blob into its wire representation. Panics if any tag is not
// exactly its layer's required size — a programming error, never a data error,
// since tags are only ever produced by the six-layer cipher itself.
func (b EncryptedBlob) Marshal() []byte {
	out := make([]byte, 0, HeaderSize+len(b.Ciphertext))
	out = append(out, b.Version)
	for i, tag := range b.Tags {
		if len(tag) != TagSizes[i] {
			panic(fmt.Sprintf("domain: tag %d has size %d, want %d", i, len(tag), TagSizes[i]))
		}
		out = append(out, tag...)
	}
	out = append(out, b.Ciphertext...)
	return out
}

// ParseEncryptedBlob unpacks a wire-format blob.
//
// Returns ErrInvalidBlobFormat if the buffer is shorter than HeaderSize — this is
// the signal filter.Smudge uses for legacy plaintext pass-through.
//
// Returns ErrUnsupportedVersion if the buffer is long enough but its leading byte
// does not match WireVersion. This is a distinct error from ErrInvalidBlobFormat
// (the wire codec can tell a too-short buffer from a well-shaped one written by an
// unknown future format), but filter.Smudge treats both the same way: as signals to
// pass the buffer through unchanged, per the documented legacy-compatibility
// contract. Callers that want a stricter distinction between "this is plaintext"
// and "this is a blob from a version we don't understand" can inspect the error
// kind directly.
func ParseEncryptedBlob(buf []byte) (EncryptedBlob, error) {
	if len(buf) < HeaderSize {
		return EncryptedBlob{}, ErrInvalidBlobFormat
	}

	version := buf[0]
	if version != WireVersion {
		return EncryptedBlob{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	blob := EncryptedBlob{Version: version, Ciphertext: buf[HeaderSize:]}
	offset := 1
	for i, size := range TagSizes {
		tag := make([]byte, size)
		copy(tag, buf[offset:offset+size])
		blob.Tags[i] = tag
		offset += size
	}

	return blob, nil
}
