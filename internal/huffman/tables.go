// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffman builds and decodes canonical Huffman codes the way
// HuffmanDecoder::generate_decoder_tables does: a flat lookup table for
// short codes, a sorted-symbol-order array plus per-length "max code"
// sentinels for the rest, reached by linear length search.
package huffman

import "errors"

// MaxCodeSize is the largest code length the builder accepts.
const MaxCodeSize = 16

// DefaultTableBits is the only table_bits value the source format is ever
// built with.
const DefaultTableBits = 8

// ErrInvalidLengths is returned when the table cannot be built from the
// given code lengths (e.g. an empty alphabet, or table_bits out of range).
var ErrInvalidLengths = errors.New("huffman: invalid code lengths")

// Tables holds everything generate_decoder_tables computes: the flat
// lookup for fast decode, and the slow-path sentinels for longer codes.
type Tables struct {
	numSyms    int
	minCode    uint8
	maxCode    uint8
	tableBits  uint32
	tableShift uint32

	// maxCodes[len-1] is the +1-biased, left-justified maximum code of
	// that length; index MaxCodeSize is a 0xFFFFFFFF sentinel.
	maxCodes [MaxCodeSize + 1]uint32
	// valPtrs[len-1] is pre-biased by -minCodes[len-1]; index MaxCodeSize
	// is a sentinel.
	valPtrs [MaxCodeSize + 1]int32

	sortedSymbolOrder []uint16
	lookup            []uint32 // sym_index | (len << 16), or 0xFFFFFFFF

	tableMaxCode        uint32
	decodeStartCodeSize uint32
	totalUsedSyms       int
}

// Build rebuilds the canonical tables from 256 code lengths (values 0..16,
// 0 meaning unused), with the given table_bits hint.
func Build(codelens []byte, tableBits uint32) (*Tables, error) {
	numSyms := len(codelens)
	if numSyms == 0 || tableBits > MaxCodeSize {
		return nil, ErrInvalidLengths
	}

	t := &Tables{numSyms: numSyms}

	var numCodes [MaxCodeSize + 1]int
	for _, l := range codelens {
		if l > MaxCodeSize {
			return nil, ErrInvalidLengths
		}
		numCodes[l]++
	}

	var minCodes [MaxCodeSize]uint32
	var sortedPositions [MaxCodeSize + 1]int

	nextCode := uint32(0)
	totalUsedSyms := 0
	maxCodeSize, minCodeSize := uint32(0), uint32(0x7fffffff)

	for ll := uint32(1); ll <= MaxCodeSize; ll++ {
		n := uint32(numCodes[ll])
		if n == 0 {
			t.maxCodes[ll-1] = 0
		} else {
			if ll < minCodeSize {
				minCodeSize = ll
			}
			if ll > maxCodeSize {
				maxCodeSize = ll
			}

			minCodes[ll-1] = nextCode
			last := nextCode + n - 1
			t.maxCodes[ll-1] = 1 + ((last << (16 - ll)) | ((1 << (16 - ll)) - 1))
			t.valPtrs[ll-1] = int32(totalUsedSyms)
			sortedPositions[ll] = totalUsedSyms

			nextCode += n
			totalUsedSyms += int(n)
		}
		nextCode <<= 1
	}
	t.totalUsedSyms = totalUsedSyms
	t.minCode = uint8(minCodeSize)
	t.maxCode = uint8(maxCodeSize)

	t.sortedSymbolOrder = make([]uint16, totalUsedSyms)
	for sym := 0; sym < numSyms; sym++ {
		l := codelens[sym]
		if l == 0 {
			continue
		}
		pos := sortedPositions[l]
		t.sortedSymbolOrder[pos] = uint16(sym)
		sortedPositions[l]++
	}

	if tableBits <= uint32(t.minCode) {
		tableBits = 0
	}
	t.tableBits = tableBits

	if tableBits != 0 {
		tableSize := uint32(1) << tableBits
		t.lookup = make([]uint32, tableSize)
		for i := range t.lookup {
			t.lookup[i] = 0xFFFFFFFF
		}

		for codesize := uint32(1); codesize <= tableBits; codesize++ {
			if numCodes[codesize] == 0 {
				continue
			}
			fillSize := tableBits - codesize
			fillNum := uint32(1) << fillSize

			minCode := minCodes[codesize-1]
			maxCode := t.maxCodes[codesize-1]
			if maxCode == 0 {
				maxCode = 0xffffffff
			} else {
				maxCode = (maxCode - 1) >> (16 - codesize)
			}
			valPtr := t.valPtrs[codesize-1]

			for code := minCode; code <= maxCode; code++ {
				symIndex := t.sortedSymbolOrder[uint32(valPtr)+code-minCode]
				for jj := uint32(0); jj < fillNum; jj++ {
					tt := jj + (code << fillSize)
					t.lookup[tt] = uint32(symIndex) | (codesize << 16)
				}
			}
		}
	}

	for ii := range t.valPtrs[:MaxCodeSize] {
		t.valPtrs[ii] -= int32(minCodes[ii])
	}

	t.tableMaxCode = 0
	t.decodeStartCodeSize = uint32(t.minCode)

	if tableBits != 0 {
		var ii uint32
		found := false
		for ii = tableBits; ii >= 1; ii-- {
			if numCodes[ii] != 0 {
				t.tableMaxCode = t.maxCodes[ii-1]
				found = true
				break
			}
		}
		if found {
			t.decodeStartCodeSize = tableBits + 1
			for ii = tableBits + 1; ii <= maxCodeSize; ii++ {
				if numCodes[ii] != 0 {
					t.decodeStartCodeSize = ii
					break
				}
			}
		}
	}

	// A single-symbol alphabet resolves every code to that symbol: a
	// one-entry lookup with the fast path always taken.
	if totalUsedSyms == 1 {
		t.tableBits = 0
		t.lookup = []uint32{uint32(t.sortedSymbolOrder[0]) | uint32(t.minCode)<<16}
		t.tableMaxCode = 0x10000
	}

	// Sentinels.
	t.maxCodes[MaxCodeSize] = 0xffffffff
	t.valPtrs[MaxCodeSize] = 0xFFFFF
	t.tableShift = 32 - t.tableBits

	return t, nil
}
