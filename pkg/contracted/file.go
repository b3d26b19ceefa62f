package contracted

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
)

// Save. kalau compress, seluruh isi file dibungkus satu frame zstd.
func (db *ContractedDb) Save(path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var closer io.Closer
	if compress {
		encoder, err := datastructure.NewCompressWriter(bw)
		if err != nil {
			return err
		}
		w, closer = encoder, encoder
	}

	if _, err := db.Serialize(w); err != nil {
		return fmt.Errorf("save contracted graph %s: %w", path, err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Load. frame zstd dideteksi dari magic number.
func Load(path string, profile *LoadProfile) (*ContractedDb, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("load contracted graph %s: %w", path, err)
	}

	var r io.Reader = br
	if datastructure.IsZstdFrame(header) {
		dr, err := datastructure.NewDecompressReader(br)
		if err != nil {
			return nil, err
		}
		defer dr.Close()
		r = dr
	}

	db, err := Deserialize(r, profile)
	if err != nil {
		return nil, fmt.Errorf("load contracted graph %s: %w", path, err)
	}
	return db, nil
}

// Bytes. serialize ke memory, dipakai kv store.
func (db *ContractedDb) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := db.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func FromBytes(data []byte) (*ContractedDb, error) {
	return Deserialize(bytes.NewReader(data), nil)
}
