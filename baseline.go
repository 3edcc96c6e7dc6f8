package bitbox

import "github.com/klauspost/compress/zstd"

// baseline returns the zstd compressed size of the raw frame pixels, a
// reference for the size of the sprite.
func baseline(raw []byte) (int, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return 0, err
	}
	defer enc.Close()

	return len(enc.EncodeAll(raw, nil)), nil
}
