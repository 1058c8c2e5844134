// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"gopkg.microglot.org/chiaro.go/exc"
)

// Byte matches exactly one byte equal to b.
func Byte(b byte) Parser[Unit] {
	return byteParser(b)
}

type byteParser byte

func (p byteParser) Parse(in View) (Unit, View, error) {
	c, ok := in.First()
	if !ok {
		return fail[Unit](in, exc.CodeUnexpectedEOF, "expected byte %s, but ran out of input", quoteByte(byte(p)))
	}
	if c != byte(p) {
		return fail[Unit](in, exc.CodeUnexpectedByte, "expected byte %s, found %s", quoteByte(byte(p)), quoteByte(c))
	}
	return Unit{}, in.Advance(1), nil
}

// String matches the literal s byte for byte. The empty literal always
// matches without consuming input.
func String(s string) Parser[Unit] {
	return literalParser(s)
}

type literalParser string

func (p literalParser) Parse(in View) (Unit, View, error) {
	lit := string(p)
	n := len(lit)
	if in.Len() < n {
		n = in.Len()
	}
	for i := 0; i < n; i = i + 1 {
		if in.at(i) != lit[i] {
			return fail[Unit](in, exc.CodeLiteralMismatch, "expected %q, found %q (diverged at index %d)", lit, in.Bytes()[:i+1], i)
		}
	}
	if n < len(lit) {
		return fail[Unit](in, exc.CodeUnexpectedEOF, "expected %q, but ran out of input after %d bytes", lit, n)
	}
	return Unit{}, in.Advance(len(lit)), nil
}

// Return always succeeds with v and consumes nothing.
func Return[T any](v T) Parser[T] {
	return returnParser[T]{value: v}
}

type returnParser[T any] struct {
	value T
}

func (p returnParser[T]) Parse(in View) (T, View, error) {
	return p.value, in, nil
}

// Fail always fails at the current offset with the given code and message.
// It is mostly useful as the result of a Bind function that rejects a value.
func Fail[T any](code string, message string) Parser[T] {
	return failParser[T]{code: code, message: message}
}

type failParser[T any] struct {
	code    string
	message string
}

func (p failParser[T]) Parse(in View) (T, View, error) {
	return fail[T](in, p.code, "%s", p.message)
}

// Satisfy matches one byte for which pred holds and returns it.
func Satisfy(pred func(byte) bool) Parser[byte] {
	return satisfyParser(pred)
}

// AnyByte matches any single byte.
func AnyByte() Parser[byte] {
	return Satisfy(func(byte) bool { return true })
}

type satisfyParser func(byte) bool

func (p satisfyParser) Parse(in View) (byte, View, error) {
	c, ok := in.First()
	if !ok {
		return fail[byte](in, exc.CodeUnexpectedEOF, "expected a byte, but ran out of input")
	}
	if !p(c) {
		return fail[byte](in, exc.CodeUnexpectedByte, "unexpected byte %s", quoteByte(c))
	}
	return c, in.Advance(1), nil
}

// End matches only when no input is left.
func End() Parser[Unit] {
	return endParser{}
}

type endParser struct{}

func (endParser) Parse(in View) (Unit, View, error) {
	if c, ok := in.First(); ok {
		return fail[Unit](in, exc.CodeUnexpectedByte, "expected end of input, found %s", quoteByte(c))
	}
	return Unit{}, in, nil
}

// Position returns the current offset into the input without consuming
// anything.
func Position() Parser[int] {
	return positionParser{}
}

type positionParser struct{}

func (positionParser) Parse(in View) (int, View, error) {
	return in.Offset(), in, nil
}
