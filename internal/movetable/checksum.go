package movetable

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

const checksumBlock = 4096

// Checksum returns the hex SHA3-256 digest of a table's successors, written
// as little-endian uint32 values in coordinate order. Dense and computed
// tables with the same mapping produce the same digest.
func Checksum(t Table) string {
	h := sha3.New256()
	buf := make([]uint32, 0, checksumBlock)
	size := t.Size()
	for c := uint32(0); c < size; c++ {
		buf = append(buf, t.Next(c))
		if len(buf) == checksumBlock {
			writeEntries(h, buf)
			buf = buf[:0]
		}
	}
	writeEntries(h, buf)
	return hex.EncodeToString(h.Sum(nil))
}

// ChecksumStream computes the same digest as Checksum by streaming the
// domain through the builder's worker pool, without materializing the table.
func (b *Builder) ChecksumStream(ctx context.Context, move types.Move, family cube.Family) (string, error) {
	h := sha3.New256()
	err := b.Stream(ctx, move, family, func(_ uint32, next []uint32) error {
		writeEntries(h, next)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeEntries(h hash.Hash, next []uint32) {
	var raw [4 * checksumBlock]byte
	for len(next) > 0 {
		n := len(next)
		if n > checksumBlock {
			n = checksumBlock
		}
		for i, v := range next[:n] {
			binary.LittleEndian.PutUint32(raw[4*i:], v)
		}
		h.Write(raw[:4*n])
		next = next[n:]
	}
}
