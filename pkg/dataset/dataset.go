// Package dataset reads binary feature-descriptor files for the recall
// harness.
//
// The expected format is the AKAZE dump format: packed fixed-size records of
// DescriptorSize bytes each, where the first 32 bytes of every record are
// the 256-bit descriptor and the remaining bytes carry keypoint metadata
// that the index does not use.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/orneryd/hrg/pkg/math/hamming"
)

// DescriptorSize is the on-disk size of one AKAZE descriptor record.
const DescriptorSize = 61

// ReadDescriptors reads exactly n descriptor keys from the file at path.
// A file holding fewer than n records is an error; trailing records beyond
// n are ignored.
func ReadDescriptors(path string, n int) ([]hamming.Bits256, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor file: %w", err)
	}
	defer f.Close()
	return readDescriptors(bufio.NewReaderSize(f, 1<<20), n)
}

func readDescriptors(r io.Reader, n int) ([]hamming.Bits256, error) {
	keys := make([]hamming.Bits256, 0, n)
	record := make([]byte, DescriptorSize)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, record); err != nil {
			return nil, fmt.Errorf("read descriptor %d of %d: %w", i, n, err)
		}
		var key hamming.Bits256
		copy(key[:], record[:32])
		keys = append(keys, key)
	}
	return keys, nil
}
