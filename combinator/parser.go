// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package combinator builds recursive-descent parsers out of small parser
// values. A grammar is a tree of Parser values assembled with the functions
// in this package; nothing is parsed until Run, RunString or Parse is called
// with an input.
//
// Parsers must be pure: invoking the same parser on the same View always
// produces the same result and has no other effect. The repetition and
// optional combinators rely on this when they abandon a failed attempt.
// Parser values hold no mutable state and may be shared between goroutines.
//
// Failures are exc.Exception values carrying one of the engine codes
// (exc.CodeUnexpectedByte, exc.CodeUnexpectedEOF, exc.CodeLiteralMismatch,
// exc.CodePredicateNeverMatched, exc.CodeRejected) and the byte offset where
// the failing parser started. The first failure aborts the enclosing chain
// and is returned unchanged.
package combinator

import (
	"fmt"

	"gopkg.microglot.org/chiaro.go/exc"
)

// Unit is the output of parsers that only recognise input.
type Unit = struct{}

// Parser attempts to produce a T from the front of a View.
//
// On success Parse returns the value and the unconsumed remainder, which is
// a suffix of in. On failure it returns the zero T, in unchanged and an
// exc.Exception.
type Parser[T any] interface {
	Parse(in View) (T, View, error)
}

// ParserFunc is an adaptor for plain functions that makes them compatible
// with the Parser interface. Use like:
//
//	ParserFunc[int](func(in View) (int, View, error) { return 0, in, nil })
//
// The function must follow the Parser contract.
type ParserFunc[T any] func(in View) (T, View, error)

func (f ParserFunc[T]) Parse(in View) (T, View, error) {
	return f(in)
}

// Result is the outcome of running a parser over a whole input buffer.
// Exactly one of the following holds: Err is nil and Value and Rest describe
// the success, or Err is set, Value is the zero T and Rest is the input.
type Result[T any] struct {
	Value T
	Rest  View
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Remaining returns the unconsumed bytes.
func (r Result[T]) Remaining() []byte {
	return r.Rest.Bytes()
}

// Exception returns the failure as an exc.Exception, or nil on success.
func (r Result[T]) Exception() exc.Exception {
	if r.Err == nil {
		return nil
	}
	if e, ok := r.Err.(exc.Exception); ok {
		return e
	}
	return exc.WrapUnknown(exc.Location{Offset: r.Rest.Offset()}, r.Err)
}

// Run invokes p on the whole of input.
func Run[T any](p Parser[T], input []byte) Result[T] {
	in := NewView(input)
	v, rest, err := p.Parse(in)
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Rest: in, Err: err}
	}
	return Result[T]{Value: v, Rest: rest}
}

// RunString invokes p on the bytes of input.
func RunString[T any](p Parser[T], input string) Result[T] {
	return Run(p, []byte(input))
}

func fail[T any](in View, code string, format string, args ...any) (T, View, error) {
	var zero T
	return zero, in, exc.New(exc.Location{Offset: in.Offset()}, code, fmt.Sprintf(format, args...))
}

func failWith[T any](in View, err error) (T, View, error) {
	var zero T
	return zero, in, err
}

// quoteByte renders b the way failure messages name bytes.
func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f && b != '\'' && b != '\\' {
		return fmt.Sprintf("'%c'", b)
	}
	return fmt.Sprintf("0x%02x", b)
}
