// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nibble provides an immutable, nibble-addressable view over a
// byte slice, used by the trie layer to index keys by half-byte. The
// view never owns or mutates its bytes; all operations are pure.
package nibble

import (
	"fmt"
	"strings"
)

// Slice is a nibble-orientated view onto a byte slice with a
// nibble-precision offset. The view is backed by a primary span plus an
// optional encode-suffix span so a caller can splice a header byte
// without reallocating; the constructors leave the suffix empty.
type Slice struct {
	data   []byte
	offset int

	dataEncodeSuffix   []byte
	offsetEncodeSuffix int
}

// New creates a view over the whole of [data].
func New(data []byte) Slice {
	return NewOffset(data, 0)
}

// NewOffset creates a view over [data] starting [offset] nibbles in.
func NewOffset(data []byte, offset int) Slice {
	return Slice{
		data:   data,
		offset: offset,
	}
}

// FromEncoded decodes hex-prefix encoded bytes (the output of Encoded)
// into a view plus the leaf flag.
func FromEncoded(data []byte) (Slice, bool) {
	offset := 2
	if data[0]&0x10 == 0x10 {
		offset = 1
	}
	return NewOffset(data, offset), data[0]&0x20 == 0x20
}

// Len returns the length of the view in nibbles.
func (s Slice) Len() int {
	return (len(s.data)+len(s.dataEncodeSuffix))*2 - s.offset - s.offsetEncodeSuffix
}

// IsEmpty returns whether the view has no nibbles.
func (s Slice) IsEmpty() bool {
	return s.Len() == 0
}

// At returns the nibble at position [i]. Calling with i >= Len is a
// caller bug.
func (s Slice) At(i int) byte {
	l := len(s.data)*2 - s.offset
	if i < l {
		if (s.offset+i)&1 == 1 {
			return s.data[(s.offset+i)/2] & 0x0F
		}
		return s.data[(s.offset+i)/2] >> 4
	}
	i -= l
	if (s.offsetEncodeSuffix+i)&1 == 1 {
		return s.dataEncodeSuffix[(s.offsetEncodeSuffix+i)/2] & 0x0F
	}
	return s.dataEncodeSuffix[(s.offsetEncodeSuffix+i)/2] >> 4
}

// Mid returns a view onto this slice offset by a further [i] nibbles.
// The encode suffix is dropped.
func (s Slice) Mid(i int) Slice {
	return Slice{
		data:   s.data,
		offset: s.offset + i,
	}
}

// StartsWith returns whether the view begins with the whole of [them].
func (s Slice) StartsWith(them Slice) bool {
	return s.CommonPrefix(them) == them.Len()
}

// CommonPrefix returns how many leading nibbles the views share.
func (s Slice) CommonPrefix(them Slice) int {
	n := min(s.Len(), them.Len())
	for i := 0; i < n; i++ {
		if s.At(i) != them.At(i) {
			return i
		}
	}
	return n
}

// Equal returns whether the views describe the same nibble sequence.
func (s Slice) Equal(them Slice) bool {
	return s.Len() == them.Len() && s.StartsWith(them)
}

// Compare orders views lexicographically over nibble values, with
// shorter-is-less on an equal prefix.
func (s Slice) Compare(them Slice) int {
	n := min(s.Len(), them.Len())
	for i := 0; i < n; i++ {
		switch {
		case s.At(i) < them.At(i):
			return -1
		case s.At(i) > them.At(i):
			return 1
		}
	}
	switch {
	case s.Len() < them.Len():
		return -1
	case s.Len() > them.Len():
		return 1
	default:
		return 0
	}
}

// Less returns whether the view orders strictly before [them].
func (s Slice) Less(them Slice) bool {
	return s.Compare(them) < 0
}

// Encoded returns the hex-prefix encoding of the view, noting whether it
// is a leaf key.
func (s Slice) Encoded(isLeaf bool) []byte {
	return s.EncodedLeftmost(s.Len(), isLeaf)
}

// EncodedLeftmost hex-prefix encodes only the first min(n, Len) nibbles.
func (s Slice) EncodedLeftmost(n int, isLeaf bool) []byte {
	l := min(s.Len(), n)
	r := make([]byte, 0, l/2+1)

	i := l % 2
	first := byte(0)
	if i == 1 {
		first = 0x10 + s.At(0)
	}
	if isLeaf {
		first += 0x20
	}
	r = append(r, first)
	for ; i < l; i += 2 {
		r = append(r, s.At(i)<<4|s.At(i+1))
	}
	return r
}

// Iter returns an iterator over the nibbles of the view.
func (s Slice) Iter() *Iterator {
	return &Iterator{s: s}
}

// Iterator walks a Slice front to back. Not restartable.
type Iterator struct {
	s Slice
	i int
}

// Next returns the next nibble, or false once the view is exhausted.
func (it *Iterator) Next() (byte, bool) {
	if it.i >= it.s.Len() {
		return 0, false
	}
	nib := it.s.At(it.i)
	it.i++
	return nib, true
}

func (s Slice) String() string {
	var sb strings.Builder
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			sb.WriteByte('\'')
		}
		fmt.Fprintf(&sb, "%01x", s.At(i))
	}
	return sb.String()
}
