// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gcif

import (
	"errors"

	"github.com/catid/gcif/internal/bitreader"
	"github.com/catid/gcif/internal/header"
	"github.com/catid/gcif/internal/huffman"
	"github.com/catid/gcif/internal/integrity"
)

// ImageMaskReader composes the six collaborators of the monochrome mask
// codec: a BitReader over the caller's word array, an IntegrityHasher that
// absorbs every word as it is loaded, the HeaderDecoder that rebuilds the
// Huffman table, the HuffmanTables/HuffmanDecoder pair built from it, and a
// MaskRowDecoder that turns the resulting symbol stream into a bit-plane.
// What looks like inheritance in the reference decoder (an ImageReader
// wrapped by an ImageMaskReader) collapses here to plain composition: this
// type simply holds each collaborator.
type ImageMaskReader struct {
	Image *Image

	br     *bitreader.Reader
	hasher *integrity.Hasher
	dec    *huffman.Decoder
	row    *MaskRowDecoder
}

// NewImageMaskReader rebuilds the Huffman table from words and returns a
// reader positioned at the start of the symbol stream, ready for Decode.
// words is a contiguous little-endian 32-bit word array; framing beyond
// that (container format, trailer placement) is the caller's concern.
func NewImageMaskReader(words []uint32, width, height int) (*ImageMaskReader, error) {
	img, err := NewImage(width, height)
	if err != nil {
		return nil, err
	}

	br := bitreader.New(words)
	hasher := integrity.New()
	br.Observe(hasher.HashWord)

	codelens, win, err := header.Decode(br)
	if err != nil {
		return nil, translateHeaderErr(err)
	}

	tables, err := huffman.Build(codelens[:], huffman.DefaultTableBits)
	if err != nil {
		return nil, ErrMalformedHeader
	}

	dec := huffman.NewDecoder(tables, br, win.Word, win.BitsLeft)

	return &ImageMaskReader{
		Image:  img,
		br:     br,
		hasher: hasher,
		dec:    dec,
		row:    NewMaskRowDecoder(img),
	}, nil
}

// decodeSymbols repeatedly decodes one Huffman symbol and feeds the
// resulting byte to the row decoder until the image is complete.
func (r *ImageMaskReader) decodeSymbols() (*Image, error) {
	for {
		sym, err := r.dec.Next()
		if err != nil {
			return nil, translateHuffmanErr(err)
		}
		done, err := r.row.Feed(byte(sym))
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return r.Image, nil
}

// Digest returns the integrity hasher's current digest: every word loaded
// from the input so far, in stream order. It is meaningful once decoding
// has completed; encoders use the equivalent value as the stream trailer.
func (r *ImageMaskReader) Digest() uint32 {
	return r.hasher.Sum32()
}

// Decode runs the reader to completion and verifies the computed stream
// digest against trailerHash.
func (r *ImageMaskReader) Decode(trailerHash uint32) (*Image, error) {
	img, err := r.decodeSymbols()
	if err != nil {
		return nil, err
	}
	if r.hasher.Sum32() != trailerHash {
		return nil, ErrIntegrityMismatch
	}
	return img, nil
}

func translateHeaderErr(err error) error {
	switch {
	case errors.Is(err, header.ErrTruncated):
		return ErrTruncated
	case errors.Is(err, header.ErrMalformed):
		return ErrMalformedHeader
	default:
		return err
	}
}

func translateHuffmanErr(err error) error {
	switch {
	case errors.Is(err, huffman.ErrTruncated):
		return ErrTruncated
	case errors.Is(err, huffman.ErrCorruptSymbol):
		return ErrCorruptSymbol
	default:
		return err
	}
}

// Decode builds a reader over words and runs it to completion in one call,
// for callers that already have the whole stream materialized.
func Decode(words []uint32, width, height int, trailerHash uint32) (*Image, error) {
	r, err := NewImageMaskReader(words, width, height)
	if err != nil {
		return nil, err
	}
	return r.Decode(trailerHash)
}
