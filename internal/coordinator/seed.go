package coordinator

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// WorkerSeed derives the random seed of one worker from the run's base seed.
// Workers of one run never share a seed even when the base seed comes from a
// clock read in the same tick.
func WorkerSeed(base int64, worker int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(base))
	binary.LittleEndian.PutUint64(buf[8:], uint64(worker))
	return int64(xxh3.Hash(buf[:]) >> 1)
}
