package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
)

// Snapshot file layout:
//   [4 bytes magic "KGS1"][4 bytes CRC32 of compressed payload][payload]
// The payload is the snappy-compressed JSON interop form.
var snapshotMagic = [4]byte{'K', 'G', 'S', '1'}

// WriteSnapshotFile writes a snapshot to path as snappy-compressed JSON with
// a CRC32 integrity check. The write goes through a temp file and rename so
// a crash never leaves a truncated snapshot behind.
func WriteSnapshotFile(snap *Snapshot, path string) error {
	data, err := snap.EncodeJSON()
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	compressed := snappy.Encode(nil, data)

	buf := make([]byte, 8+len(compressed))
	copy(buf[0:4], snapshotMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], crc32.ChecksumIEEE(compressed))
	copy(buf[8:], compressed)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotFile reads a snapshot previously written by WriteSnapshotFile,
// verifying the checksum before decoding.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(buf) < 8 || [4]byte(buf[0:4]) != snapshotMagic {
		return nil, fmt.Errorf("read snapshot %s: not a snapshot file", path)
	}

	want := binary.LittleEndian.Uint32(buf[4:8])
	compressed := buf[8:]
	if got := crc32.ChecksumIEEE(compressed); got != want {
		return nil, fmt.Errorf("read snapshot %s: checksum mismatch (corrupt file)", path)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return DecodeSnapshotJSON(data)
}
