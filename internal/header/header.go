// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package header decodes the Golomb-Rice, delta-predicted header that
// precedes every GCIF mask stream's Huffman table: 256 code lengths packed
// behind a 3-bit pivot selector.
package header

import (
	"errors"

	"github.com/catid/gcif/internal/bitreader"
)

// NumSymbols is the fixed alphabet size for the mask codec's Huffman table.
const NumSymbols = 256

// MaxCodeSize is the largest code length the table builder accepts.
const MaxCodeSize = 16

const initialLag = 3

// ErrTruncated is returned when the word stream runs out before 256 code
// lengths have been reconstructed.
var ErrTruncated = errors.New("header: truncated before 256 code lengths")

// ErrMalformed is returned when a reconstructed code length falls outside
// 0..16, which would violate the table builder's invariants.
var ErrMalformed = errors.New("header: code length out of range")

// Window is the bit-reader working window as it stands immediately after
// the header, expressed in the header's own LSB-first discipline (the next
// bit to consume is the low bit of Word). The Huffman decoder consumes the
// same underlying stream top-justified and MSB-first, so callers must
// bridge the two (see internal/huffman).
type Window struct {
	Word     uint32
	BitsLeft uint32
}

// Decode rebuilds the 256 Huffman code lengths from the header framing,
// pulling words from r as needed, and returns the leftover window exactly
// where the Huffman symbol stream begins.
func Decode(r *bitreader.Reader) (codelens [NumSymbols]byte, win Window, err error) {
	word, err := r.Load()
	if err != nil {
		return codelens, win, ErrTruncated
	}

	// Low 3 bits hold the Golomb pivot (0..7).
	pivot := word & 7
	word >>= 3
	bitsLeft := uint32(29)

	var pivotMask uint32
	if pivot != 0 {
		pivotMask = (1 << pivot) - 1
	}

	lag0, lag1 := int32(initialLag), int32(initialLag)
	q := uint32(0)
	tableWriteIndex := 0

	for {
		if bitsLeft == 0 {
			word, err = r.Load()
			if err != nil {
				return codelens, win, ErrTruncated
			}
			bitsLeft = 32
		}

		bit := word & 1
		word >>= 1
		bitsLeft--

		if bit != 0 {
			q++
			continue
		}

		// Remainder: pivot more bits, possibly spanning into the next word.
		result := word
		if bitsLeft < pivot {
			next, lerr := r.Load()
			if lerr != nil {
				return codelens, win, ErrTruncated
			}
			result |= next << bitsLeft
			eat := pivot - bitsLeft
			word = next >> eat
			bitsLeft = 32 - eat
		} else {
			word >>= pivot
			bitsLeft -= pivot
		}
		result &= pivotMask

		result += q << pivot
		q = 0

		var delta int32
		if result&1 != 0 {
			delta = -int32(result >> 1)
		} else {
			delta = int32(result >> 1)
		}

		pred := lag0
		if tableWriteIndex >= 16 {
			pred = lag1
		}
		orig := pred + delta
		lag1 = lag0
		lag0 = orig

		if orig < 0 || orig > MaxCodeSize {
			return codelens, win, ErrMalformed
		}
		codelens[tableWriteIndex] = byte(orig)
		tableWriteIndex++
		if tableWriteIndex >= NumSymbols {
			break
		}
	}

	return codelens, Window{Word: word, BitsLeft: bitsLeft}, nil
}
