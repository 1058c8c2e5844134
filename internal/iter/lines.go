// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bytes"
	"context"

	"gopkg.microglot.org/chiaro.go/optional"
)

// Line is one line of a buffer. Text excludes the terminator ("\n" or
// "\r\n") and aliases the buffer.
type Line struct {
	Number int
	Offset int
	Text   []byte
}

// NewLines iterates over the lines of buf without copying it. A final line
// without a terminator is still produced; an empty buffer has no lines.
func NewLines(buf []byte) Iterator[Line] {
	return &lines{buf: buf}
}

type lines struct {
	buf    []byte
	offset int
	number int
}

func (l *lines) Next(ctx context.Context) optional.Optional[Line] {
	if l.offset >= len(l.buf) {
		return optional.None[Line]()
	}
	start := l.offset
	end := len(l.buf)
	next := end
	if i := bytes.IndexByte(l.buf[start:], '\n'); i >= 0 {
		end = start + i
		next = end + 1
	}
	if end > start && l.buf[end-1] == '\r' {
		end = end - 1
	}
	l.offset = next
	l.number = l.number + 1
	return optional.Some(Line{
		Number: l.number,
		Offset: start,
		Text:   l.buf[start:end:end],
	})
}

func (l *lines) Close(ctx context.Context) error {
	return nil
}

// SkipBlankAndComments keeps lines that contain something other than
// whitespace and do not start with the given comment prefix.
func SkipBlankAndComments(comment string) Filter[Line] {
	return FilterFunc[Line](func(ctx context.Context, l Line) bool {
		trimmed := bytes.TrimSpace(l.Text)
		if len(trimmed) == 0 {
			return false
		}
		if comment != "" && bytes.HasPrefix(trimmed, []byte(comment)) {
			return false
		}
		return true
	})
}
