// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gcif

import "time"

// MaskRowDecoder reconstructs a bit-plane image row by row from a stream of
// run-length symbols: the first row is written absolutely, every later row
// is built by XOR-ing run-length-encoded differences against the row above.
// It is grounded directly on Converter::decodeRLE in the reference decoder.
type MaskRowDecoder struct {
	img *Image

	writeRow   int
	rowStarted bool
	done       bool

	bitOn     bool
	bitOffset int
	rowLeft   int
	lastSum   int
	sum       uint32

	// DecodeTime accumulates the wall-clock time spent inside Feed, mirroring
	// the reference decoder's profiling counter for this phase.
	DecodeTime time.Duration
}

// NewMaskRowDecoder returns a decoder that fills img row by row.
func NewMaskRowDecoder(img *Image) *MaskRowDecoder {
	return &MaskRowDecoder{img: img}
}

// Feed processes one symbol (0-255) from the Huffman symbol stream. Each
// symbol contributes its low 7 bits to a pending run-length accumulator,
// MSB first across bytes; the high bit signals whether more bytes follow.
// Feed returns true exactly once, when the image's last row has been
// finalized.
func (d *MaskRowDecoder) Feed(b byte) (bool, error) {
	if d.done {
		return false, ErrImageOverrun
	}
	start := time.Now()
	defer func() { d.DecodeTime += time.Since(start) }()

	d.sum = (d.sum << 7) | uint32(b&0x7F)
	if b&0x80 != 0 {
		return false, nil
	}
	r := d.sum
	d.sum = 0
	return d.commit(r)
}

func (d *MaskRowDecoder) commit(r uint32) (bool, error) {
	if !d.rowStarted {
		return d.startRow(r)
	}
	return d.continueRow(r)
}

// startRow handles the first committed value of a row: it is rowLeft, the
// number of further committed values belonging to this row.
func (d *MaskRowDecoder) startRow(rowLeft uint32) (bool, error) {
	if d.writeRow >= d.img.Height {
		return false, ErrImageOverrun
	}

	if rowLeft == 0 {
		if d.writeRow == 0 {
			setAllOnes(d.img.Row(0))
		} else {
			copy(d.img.Row(d.writeRow), d.img.Row(d.writeRow-1))
		}
		return d.finishRow(), nil
	}

	if d.writeRow == 0 {
		clearRow(d.img.Row(0))
	} else {
		copy(d.img.Row(d.writeRow), d.img.Row(d.writeRow-1))
	}
	d.rowLeft = int(rowLeft)
	d.bitOn = false
	d.bitOffset = 0
	d.lastSum = 0
	d.rowStarted = true
	return false, nil
}

func (d *MaskRowDecoder) continueRow(r uint32) (bool, error) {
	var err error
	if d.writeRow == 0 {
		err = d.firstRowSymbol(r)
	} else {
		err = d.subsequentRowSymbol(r)
	}
	if err != nil {
		return false, err
	}

	d.rowLeft--
	if d.rowLeft == 0 {
		return d.endRow()
	}
	return false, nil
}

// firstRowSymbol applies one committed run-length R to row 0, written
// absolutely (not XOR): a flip of bitOn every symbol, with the run of R
// same-colour bits preceding the flip point.
func (d *MaskRowDecoder) firstRowSymbol(r uint32) error {
	row := d.img.Row(0)
	newBitOn := !d.bitOn

	if newBitOn {
		// Run of R zeros costs nothing: row 0 starts pre-zeroed. Only the
		// flip-on bit itself needs setting.
		pos := d.bitOffset + int(r)
		if pos >= d.img.Width {
			return ErrImageOverrun
		}
		setBit(row, pos)
	} else {
		from, to := d.bitOffset, d.bitOffset+int(r)
		if to > d.img.Width {
			return ErrImageOverrun
		}
		fillOnes(row, from, to)
		// The bit at `to` stays zero: it was pre-zeroed and this branch
		// never sets it.
	}

	d.bitOn = newBitOn
	d.bitOffset += int(r) + 1
	if d.bitOffset > d.img.Width {
		return ErrImageOverrun
	}
	return nil
}

// subsequentRowSymbol applies one committed run-length R to the current
// row, which was pre-initialized as a copy of the row above: every write is
// an XOR. The off-to-on transition has an extra rule, the zero-run merge,
// that the first row does not need.
func (d *MaskRowDecoder) subsequentRowSymbol(r uint32) error {
	row := d.img.Row(d.writeRow)

	if d.bitOn {
		from, to := d.bitOffset, d.bitOffset+int(r)
		if to > d.img.Width {
			return ErrImageOverrun
		}
		xorFillOnes(row, from, to)
		d.bitOn = false
		d.lastSum = 0
	} else {
		pos := d.bitOffset + int(r)
		if pos >= d.img.Width {
			return ErrImageOverrun
		}
		xorBit(row, pos)
		if r == 0 && d.lastSum == 1 {
			d.bitOn = true
		}
		d.lastSum = 1
	}

	d.bitOffset += int(r) + 1
	if d.bitOffset > d.img.Width {
		return ErrImageOverrun
	}
	return nil
}

// endRow finalizes the row once rowLeft has reached zero: the tail past the
// last flip point is filled with ones (absolute for row 0, XOR-fill for
// every later row, which is a no-op when bitOn is false since the row was
// already a faithful copy of the one above).
func (d *MaskRowDecoder) endRow() (bool, error) {
	row := d.img.Row(d.writeRow)
	if d.bitOn {
		if d.writeRow == 0 {
			fillOnes(row, d.bitOffset, d.img.Width)
		} else {
			xorFillOnes(row, d.bitOffset, d.img.Width)
		}
	}
	return d.finishRow(), nil
}

func (d *MaskRowDecoder) finishRow() bool {
	d.writeRow++
	d.rowStarted = false
	if d.writeRow >= d.img.Height {
		d.done = true
		return true
	}
	return false
}

func setBit(row []uint32, idx int) {
	row[idx>>5] |= 1 << uint(31-(idx&31))
}

func xorBit(row []uint32, idx int) {
	row[idx>>5] ^= 1 << uint(31-(idx&31))
}

func fillOnes(row []uint32, from, to int) {
	for i := from; i < to; i++ {
		setBit(row, i)
	}
}

func xorFillOnes(row []uint32, from, to int) {
	for i := from; i < to; i++ {
		xorBit(row, i)
	}
}

func clearRow(row []uint32) {
	for i := range row {
		row[i] = 0
	}
}

func setAllOnes(row []uint32) {
	for i := range row {
		row[i] = 0xFFFFFFFF
	}
}
