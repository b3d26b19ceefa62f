package datastructure

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic. 4 byte pertama tiap zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

func IsZstdFrame(header []byte) bool {
	return len(header) >= len(zstdMagic) && bytes.Equal(header[:len(zstdMagic)], zstdMagic)
}

func CompressData(inData []byte, bbufOut *bytes.Buffer) error {
	inputBuf := bytes.NewBuffer(inData)
	encoder, err := NewCompressWriter(bbufOut)
	if err != nil {
		return err
	}

	_, err = io.Copy(encoder, inputBuf)
	if err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func DecompressData(inData []byte, out io.Writer) error {
	d, err := zstd.NewReader(bytes.NewReader(inData))
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}

// NewCompressWriter. caller wajib Close() supaya frame zstd ditutup.
func NewCompressWriter(w io.Writer) (*zstd.Encoder, error) {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return encoder, nil
}

func NewDecompressReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return d.IOReadCloser(), nil
}
