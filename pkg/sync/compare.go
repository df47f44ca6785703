package sync

import (
	"bytes"
	"io"

	"github.com/spf13/afero"
)

const compareBufferSize = 32 * 1024

// Identical returns whether the files at `a` and `b` have exactly the same
// contents. The contents are always compared byte for byte; the file sizes
// are only used to skip reading files that can't match.
// Missing paths, non-regular files, and read errors all count as different.
func Identical(fs afero.Fs, a, b string) bool {
	fa, err := fs.Open(a)
	if err != nil {
		return false
	}
	defer fa.Close()

	fb, err := fs.Open(b)
	if err != nil {
		return false
	}
	defer fb.Close()

	infoA, err := fa.Stat()
	if err != nil || !infoA.Mode().IsRegular() {
		return false
	}

	infoB, err := fb.Stat()
	if err != nil || !infoB.Mode().IsRegular() {
		return false
	}

	if infoA.Size() != infoB.Size() {
		return false
	}

	same, err := sameContents(fa, fb)
	return err == nil && same
}

func sameContents(a, b io.Reader) (bool, error) {
	bufA := make([]byte, compareBufferSize)
	bufB := make([]byte, compareBufferSize)
	for {
		nA, errA := io.ReadFull(a, bufA)
		nB, errB := io.ReadFull(b, bufB)
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		doneA, err := readDone(errA)
		if err != nil {
			return false, err
		}

		doneB, err := readDone(errB)
		if err != nil {
			return false, err
		}

		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}

// readDone interprets an error from io.ReadFull. A short or empty read means
// the reader is exhausted.
func readDone(err error) (bool, error) {
	switch err {
	case nil:
		return false, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return true, nil
	default:
		return false, err
	}
}
