// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/catid/gcif"
)

// encodeMaskPNG renders a decoded mask as an 8-bit grayscale PNG, set bits
// as white and clear bits as black. Every pixel is opaque: the mask bit is
// carried in luminance, not in the alpha channel that container.HashPixels
// reads.
func encodeMaskPNG(w io.Writer, img *gcif.Image) error {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if img.Bit(y, x) {
				out.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return png.Encode(w, out)
}
