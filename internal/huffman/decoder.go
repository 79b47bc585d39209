// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"errors"
	"math/bits"

	"github.com/catid/gcif/internal/bitreader"
)

// ErrCorruptSymbol is returned when the slow-path length search resolves to
// a val_ptr outside the known symbol range.
var ErrCorruptSymbol = errors.New("huffman: corrupt symbol stream")

// ErrTruncated is returned when decoding a symbol needs more bits than the
// stream has left to give.
var ErrTruncated = errors.New("huffman: truncated symbol stream")

// refillThreshold mirrors the source's stated policy of keeping at least
// cBitBufSize-8 = 24 bits buffered before decoding the next symbol.
const refillThreshold = 24

// Decoder decodes one symbol per call from a 64-bit top-justified window
// fed by a BitReader. The low 32 bits of the window are scratch space used
// only to absorb a freshly loaded word; every comparison against the
// tables operates on the top 32 bits, matching the source's 32-bit `code`.
type Decoder struct {
	tables *Tables
	r      *bitreader.Reader

	window uint64
	avail  uint32 // valid bits, counted from the top of window
}

// NewDecoder constructs a Decoder starting from the header's leftover
// working window. The header consumes its window LSB-first (bit 0 is the
// next bit to read) while the Huffman decoder needs a top-justified,
// MSB-first window; headerWord's low headerBitsLeft bits are bit-reversed
// into the top of a fresh 64-bit accumulator to bridge the two disciplines.
func NewDecoder(tables *Tables, r *bitreader.Reader, headerWord uint32, headerBitsLeft uint32) *Decoder {
	d := &Decoder{
		tables: tables,
		r:      r,
		window: uint64(bits.Reverse32(headerWord)) << 32,
		avail:  headerBitsLeft,
	}
	d.refill()
	return d
}

// refill tops up the window with freshly loaded words, each used directly
// (no reversal: only the header handoff needed bridging) since a newly
// loaded word's bit 31 is the next unconsumed bit of the stream.
func (d *Decoder) refill() {
	for d.avail <= 32 && d.r.WordsLeft() > 0 {
		w, err := d.r.Load()
		if err != nil {
			return
		}
		d.window |= uint64(w) << (32 - d.avail)
		d.avail += 32
	}
}

// Next decodes and returns the next symbol.
func (d *Decoder) Next() (uint16, error) {
	if d.avail < refillThreshold {
		d.refill()
	}
	if d.avail == 0 {
		return 0, ErrTruncated
	}

	code := uint32(d.window >> 32)
	k := (code >> 16) + 1

	var sym uint16
	var length uint32

	if k <= d.tables.tableMaxCode {
		t := d.tables.lookup[code>>d.tables.tableShift]
		if t == 0xFFFFFFFF {
			return 0, ErrCorruptSymbol
		}
		sym = uint16(t)
		length = t >> 16
	} else {
		length = d.tables.decodeStartCodeSize
		for k > d.tables.maxCodes[length-1] {
			length++
		}
		valPtr := d.tables.valPtrs[length-1] + int32(code>>(32-length))
		if valPtr < 0 || valPtr >= int32(d.tables.totalUsedSyms) {
			return 0, ErrCorruptSymbol
		}
		sym = d.tables.sortedSymbolOrder[valPtr]
	}

	if length > d.avail {
		return 0, ErrTruncated
	}

	d.window <<= length
	d.avail -= length
	return sym, nil
}
