package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

func fixedTags() [domain.LayerCount][]byte {
	var tags [domain.LayerCount][]byte
	for i, size := range domain.TagSizes {
		tag := make([]byte, size)
		for j := range tag {
			tag[j] = byte(i*16 + j)
		}
		tags[i] = tag
	}
	return tags
}

func TestEncryptedBlobMarshalParseRoundTrip(t *testing.T) {
	blob := domain.EncryptedBlob{
		Version:    domain.WireVersion,
		Tags:       fixedTags(),
		Ciphertext: []byte("ciphertext body"),
	}

	buf := blob.Marshal()
	require.Len(t, buf, domain.HeaderSize+len(blob.Ciphertext))
	require.Equal(t, domain.WireVersion, buf[0])

	parsed, err := domain.ParseEncryptedBlob(buf)
	require.NoError(t, err)
	require.Equal(t, blob.Version, parsed.Version)
	require.Equal(t, blob.Tags, parsed.Tags)
	require.Equal(t, blob.Ciphertext, parsed.Ciphertext)
}

func TestEncryptedBlobMarshalEmptyCiphertext(t *testing.T) {
	blob := domain.EncryptedBlob{Version: domain.WireVersion, Tags: fixedTags()}
	buf := blob.Marshal()
	require.Len(t, buf, domain.HeaderSize)

	parsed, err := domain.ParseEncryptedBlob(buf)
	require.NoError(t, err)
	require.Empty(t, parsed.Ciphertext)
}

func TestEncryptedBlobMarshalPanicsOnWrongTagSize(t *testing.T) {
	blob := domain.EncryptedBlob{Version: domain.WireVersion, Tags: fixedTags()}
	blob.Tags[0] = []byte{1, 2, 3}
	require.Panics(t, func() { blob.Marshal() })
}

func TestParseEncryptedBlobTooShort(t *testing.T) {
	_, err := domain.ParseEncryptedBlob(make([]byte, domain.HeaderSize-1))
	require.ErrorIs(t, err, domain.ErrInvalidBlobFormat)
}

func TestParseEncryptedBlobWrongVersion(t *testing.T) {
	blob := domain.EncryptedBlob{Version: domain.WireVersion, Tags: fixedTags()}
	buf := blob.Marshal()
	buf[0] = 9

	_, err := domain.ParseEncryptedBlob(buf)
	require.ErrorIs(t, err, domain.ErrUnsupportedVersion)
}
