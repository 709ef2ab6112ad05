/*
Package dictionary reads the packed-trie dictionary format.

The dictionary is a flat byte buffer, typically memory-mapped read-only.
Nodes are decoded lazily at raw offsets; the trie is never materialized as
an in-memory graph. See the decoder for the on-disk node-group layout.
*/
package dictionary

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	mmap "github.com/edsrzf/mmap-go"
)

// ErrMalformedDictionary wraps every decode fault: offsets outside the
// blob, invalid address tags, runaway structures. Callers abort the
// current lookup path on it and must never keep reading past the fault.
var ErrMalformedDictionary = errors.New("malformed dictionary")

// Blob is bounds-checked byte access over a dictionary buffer. The zero
// value is unusable; construct with OpenBlob or NewBlob. Blobs are
// read-only and safe for concurrent readers.
type Blob struct {
	data []byte
	m    mmap.MMap
	f    *os.File
}

// OpenBlob memory-maps path read-only.
func OpenBlob(path string) (*Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map dictionary %s: %w", path, err)
	}
	log.Debugf("Mapped dictionary %s (%d bytes)", path, len(m))
	return &Blob{data: m, m: m, f: f}, nil
}

// NewBlob wraps an in-memory buffer, for tests and freshly built
// dictionaries. The buffer is used as-is and must not be mutated.
func NewBlob(data []byte) *Blob {
	return &Blob{data: data}
}

// Len returns the blob size in bytes.
func (b *Blob) Len() int { return len(b.data) }

// Bytes exposes the raw buffer for writing a built dictionary to disk.
// The returned slice must not be mutated.
func (b *Blob) Bytes() []byte { return b.data }

// Close unmaps and closes the underlying file, a no-op for in-memory
// blobs.
func (b *Blob) Close() error {
	if b.m != nil {
		if err := b.m.Unmap(); err != nil {
			return err
		}
		b.m = nil
	}
	if b.f != nil {
		err := b.f.Close()
		b.f = nil
		return err
	}
	return nil
}

// byteAt reads one byte with bounds checking.
func (b *Blob) byteAt(pos int) (byte, error) {
	if pos < 0 || pos >= len(b.data) {
		return 0, fmt.Errorf("%w: offset %d outside blob of %d bytes", ErrMalformedDictionary, pos, len(b.data))
	}
	return b.data[pos], nil
}
