package parser

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompress(t *testing.T) {
	payload := []byte("HL2DEMO payload")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var zs bytes.Buffer
	enc, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	cases := []struct {
		name string
		data []byte
	}{
		{"match.dem", payload},
		{"match.dem.gz", gz.Bytes()},
		{"match.dem.zst", zs.Bytes()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, closeFn, err := decompress(tc.name, bytes.NewReader(tc.data))
			require.NoError(t, err)
			defer closeFn()
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDecompressBadGzip(t *testing.T) {
	_, closeFn, err := decompress("x.dem.gz", bytes.NewReader([]byte("not gzip")))
	defer closeFn()
	assert.Error(t, err)
}
