// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gcif decodes GCIF-mono streams: a canonical Huffman-coded,
// run-length/XOR-delta encoded monochrome bit-plane mask. It composes a
// bit reader, an integrity hasher, a Golomb-Rice header decoder, Huffman
// table construction and decoding, and a row-by-row mask reconstructor
// into a single streaming ImageMaskReader. Encoding is out of scope; this
// package only reconstructs an Image from an already-compressed stream.
package gcif
