// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitreader

import (
	"errors"
	"testing"
)

func TestLoadInOrder(t *testing.T) {
	r := New([]uint32{0x01020304, 0xAABBCCDD, 0x0})

	for i, want := range []uint32{0x01020304, 0xAABBCCDD, 0x0} {
		if got := r.WordsLeft(); got != 3-i {
			t.Fatalf("WordsLeft before load %d: got %d, want %d", i, got, 3-i)
		}
		got, err := r.Load()
		if err != nil {
			t.Fatalf("Load %d: unexpected error %v", i, err)
		}
		if got != want {
			t.Fatalf("Load %d: got %#x, want %#x", i, got, want)
		}
	}
	if r.WordsLeft() != 0 {
		t.Fatalf("WordsLeft at end: got %d, want 0", r.WordsLeft())
	}
}

func TestUnderflow(t *testing.T) {
	r := New([]uint32{0x1})
	if _, err := r.Load(); err != nil {
		t.Fatalf("first load: unexpected error %v", err)
	}
	_, err := r.Load()
	if !errors.Is(err, ErrUnderflow) {
		t.Fatalf("second load: got %v, want ErrUnderflow", err)
	}
}

func TestObserver(t *testing.T) {
	r := New([]uint32{0x1, 0x2, 0x3})
	var seen []uint32
	r.Observe(func(w uint32) { seen = append(seen, w) })

	for i := 0; i < 3; i++ {
		if _, err := r.Load(); err != nil {
			t.Fatalf("Load %d: %v", i, err)
		}
	}
	want := []uint32{0x1, 0x2, 0x3}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer[%d] = %#x, want %#x", i, seen[i], want[i])
		}
	}
}
