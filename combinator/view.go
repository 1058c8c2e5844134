// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

// View is a read-only window onto an input buffer. It is the buffer plus
// the index of the first unread byte. Parsers never copy the buffer: every
// remainder is a View of the same buffer at an equal or larger offset, and
// every slice a parser returns is a sub-slice of that buffer.
//
// The caller owns the buffer. Views and parse outputs alias it, so the
// buffer must not be modified while any of them are in use.
type View struct {
	buf   []byte
	start int
}

// NewView returns a View over the whole of b.
func NewView(b []byte) View {
	return View{buf: b}
}

// NewViewString returns a View over the bytes of s.
func NewViewString(s string) View {
	return View{buf: []byte(s)}
}

// Len returns the number of unread bytes.
func (v View) Len() int {
	return len(v.buf) - v.start
}

func (v View) Empty() bool {
	return v.Len() == 0
}

// Offset returns the index of the first unread byte within the buffer.
func (v View) Offset() int {
	return v.start
}

// Bytes returns the unread bytes. The returned slice has its capacity
// clipped so that appending to it never writes into the shared buffer.
func (v View) Bytes() []byte {
	return v.buf[v.start:len(v.buf):len(v.buf)]
}

func (v View) String() string {
	return string(v.Bytes())
}

// First returns the first unread byte. ok is false when the view is empty.
func (v View) First() (b byte, ok bool) {
	if v.Empty() {
		return 0, false
	}
	return v.buf[v.start], true
}

// Advance returns the view with the first n bytes consumed. n must be
// between 0 and v.Len().
func (v View) Advance(n int) View {
	if n < 0 || n > v.Len() {
		panic("combinator: advance out of range")
	}
	return View{buf: v.buf, start: v.start + n}
}

// Consumed returns the bytes between v and rest, where rest is a remainder
// produced by parsing v. The region is computed from the two offsets.
func (v View) Consumed(rest View) []byte {
	end := rest.start
	if end < v.start {
		end = v.start
	}
	if end > len(v.buf) {
		end = len(v.buf)
	}
	return v.buf[v.start:end:end]
}

func (v View) at(i int) byte {
	return v.buf[v.start+i]
}
