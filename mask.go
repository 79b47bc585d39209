// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gcif

import "fmt"

// Image is a 2-D bit-plane: height rows of stride 32-bit words, MSB-first
// within each word. Bit j of row i lives in bit (31 - (j & 31)) of
// Words[i*Stride + (j>>5)].
type Image struct {
	Width  int
	Height int
	Stride int // Width / 32
	Words  []uint32
}

// NewImage allocates a zeroed Image for the given dimensions. Width and
// height must both be multiples of 8, and width must additionally be a
// multiple of 32 so that it divides evenly into whole words.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gcif: invalid dimensions %dx%d", width, height)
	}
	if width%8 != 0 || height%8 != 0 {
		return nil, fmt.Errorf("gcif: dimensions %dx%d are not multiples of 8", width, height)
	}
	if width%32 != 0 {
		return nil, fmt.Errorf("gcif: width %d is not a multiple of 32", width)
	}
	stride := width / 32
	return &Image{
		Width:  width,
		Height: height,
		Stride: stride,
		Words:  make([]uint32, stride*height),
	}, nil
}

// Row returns the slice of words making up row i.
func (img *Image) Row(i int) []uint32 {
	return img.Words[i*img.Stride : (i+1)*img.Stride]
}

// Bit reports the value of bit j of row i.
func (img *Image) Bit(i, j int) bool {
	w := img.Words[i*img.Stride+(j>>5)]
	return w&(1<<uint(31-(j&31))) != 0
}
