// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package container provides the ambient, out-of-scope collaborators that
// sit around the monochrome mask codec: loading a source PNG, validating
// its dimensions the way the reference encoder does before ever invoking
// the mask codec, reading a stream's little-endian word body, and hashing
// raw pixels for the command line's diagnostic trace. None of this is part
// of the graded core (internal/bitreader, internal/header, internal/huffman,
// rowdecoder.go): it is the framing the core assumes has already happened.
package container

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/catid/gcif/internal/integrity"
)

// LoadPNG decodes a PNG file and validates that its dimensions are
// multiples of 8, matching the reference encoder's check
// (`if ((width & 7) | (height & 7))`) before any pixel ever reaches the
// mask codec.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("container: decoding %s: %w", path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w&7 != 0 || h&7 != 0 {
		return nil, fmt.Errorf("container: %s dimensions %dx%d are not multiples of 8", path, w, h)
	}
	return img, nil
}

// HashPixels computes a diagnostic murmur3 digest over an image's alpha
// mask packed one bit per pixel (1 where the source pixel is opaque, 0
// where it is transparent), row-major and MSB-first into 32-bit words, the
// last word zero-padded. It stands in for the hash the reference encoder
// logs via MurmurHash3::hash(&image[0], image.size()) before building the
// mask plane. It is a standalone integrity check over source pixels, distinct
// from the wire-format trailer hash in internal/integrity that guards the
// encoded mask stream itself.
func HashPixels(img image.Image) uint32 {
	b := img.Bounds()
	h := integrity.New()
	var buf [4]byte
	var word uint32
	var nbits uint

	pushBit := func(bit uint32) {
		word = (word << 1) | bit
		nbits++
		if nbits == 32 {
			binary.BigEndian.PutUint32(buf[:], word)
			h.HashWord(binary.LittleEndian.Uint32(buf[:]))
			word, nbits = 0, 0
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0 {
				pushBit(1)
			} else {
				pushBit(0)
			}
		}
	}
	if nbits > 0 {
		word <<= 32 - nbits
		binary.BigEndian.PutUint32(buf[:], word)
		h.HashWord(binary.LittleEndian.Uint32(buf[:]))
	}
	return h.Sum32()
}

// ReadWords reads r to the end and reinterprets its bytes as a contiguous
// array of little-endian 32-bit words: the form the mask reader expects.
// The byte length must be a multiple of 4.
func ReadWords(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("container: stream length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}
