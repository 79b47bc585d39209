// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package container

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestReadWordsRoundTrip(t *testing.T) {
	want := []uint32{0x01020304, 0xAABBCCDD, 0x00000000}
	var buf bytes.Buffer
	for _, w := range want {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], w)
		buf.Write(b[:])
	}

	got, err := ReadWords(&buf)
	if err != nil {
		t.Fatalf("ReadWords: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestReadWordsRejectsPartialWord(t *testing.T) {
	if _, err := ReadWords(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatalf("expected an error for a non-multiple-of-4 length")
	}
}

func TestLoadPNGValidatesDimensions(t *testing.T) {
	dir := t.TempDir()

	good := image.NewGray(image.Rect(0, 0, 16, 8))
	goodPath := filepath.Join(dir, "good.png")
	writePNG(t, goodPath, good)
	if _, err := LoadPNG(goodPath); err != nil {
		t.Fatalf("LoadPNG(good): %v", err)
	}

	bad := image.NewGray(image.Rect(0, 0, 15, 8))
	badPath := filepath.Join(dir, "bad.png")
	writePNG(t, badPath, bad)
	if _, err := LoadPNG(badPath); err == nil {
		t.Fatalf("expected LoadPNG to reject width 15 (not a multiple of 8)")
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestHashPixelsDeterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(0, 0, color.RGBA{A: 255})
	img.Set(3, 3, color.RGBA{A: 255})

	h1 := HashPixels(img)
	h2 := HashPixels(img)
	if h1 != h2 {
		t.Fatalf("HashPixels not deterministic: %#x != %#x", h1, h2)
	}

	other := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if HashPixels(other) == h1 {
		t.Fatalf("HashPixels did not change for a different image")
	}
}
