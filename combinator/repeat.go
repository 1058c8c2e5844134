// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"gopkg.microglot.org/chiaro.go/exc"
	"gopkg.microglot.org/chiaro.go/optional"
)

// TakeWhile matches the longest non-empty prefix whose bytes all satisfy
// pred. Matching nothing is a failure, including on empty input; wrap the
// parser in Optional when an empty match is acceptable.
func TakeWhile(pred func(byte) bool) Parser[[]byte] {
	return takeWhileParser(pred)
}

type takeWhileParser func(byte) bool

func (p takeWhileParser) Parse(in View) ([]byte, View, error) {
	n := 0
	for n < in.Len() && p(in.at(n)) {
		n = n + 1
	}
	if n == 0 {
		if c, ok := in.First(); ok {
			return fail[[]byte](in, exc.CodePredicateNeverMatched, "no match for take-while, found %s", quoteByte(c))
		}
		return fail[[]byte](in, exc.CodePredicateNeverMatched, "no match for take-while, input is empty")
	}
	rest := in.Advance(n)
	return in.Consumed(rest), rest, nil
}

// Many runs p until it fails and returns the bytes consumed by all
// iterations. It never fails: when p does not match, the output is empty
// and nothing is consumed.
func Many[T any](p Parser[T]) Parser[[]byte] {
	return manySlice[T]{p: p, allowZero: true}
}

// Many1 is Many but requires at least one match. When p does not match at
// all, Many1 fails with exactly the failure p produced on the input.
func Many1[T any](p Parser[T]) Parser[[]byte] {
	return manySlice[T]{p: p, allowZero: false}
}

// CollectMany runs p until it fails and returns every output in order.
func CollectMany[T any](p Parser[T]) Parser[[]T] {
	return manyCollect[T]{p: p, allowZero: true}
}

// CollectMany1 is CollectMany but requires at least one match, failing the
// same way Many1 does.
func CollectMany1[T any](p Parser[T]) Parser[[]T] {
	return manyCollect[T]{p: p, allowZero: false}
}

// repeat drives p over in until it fails or stops consuming input. visit is
// called with every successful output. It returns the final remainder, the
// number of successful iterations and the first failure seen.
//
// An iteration that succeeds without consuming input ends the loop, so a
// parser such as Many(Return(x)) nested in another repetition terminates.
func repeat[T any](p Parser[T], in View, visit func(T)) (View, int, error) {
	rest := in
	matched := 0
	for {
		v, next, err := p.Parse(rest)
		if err != nil {
			return rest, matched, err
		}
		matched = matched + 1
		if visit != nil {
			visit(v)
		}
		if next.Offset() == rest.Offset() {
			return next, matched, nil
		}
		rest = next
	}
}

type manySlice[T any] struct {
	p         Parser[T]
	allowZero bool
}

func (m manySlice[T]) Parse(in View) ([]byte, View, error) {
	rest, matched, err := repeat(m.p, in, nil)
	if matched == 0 && !m.allowZero {
		// The first attempt ran on in, so err is the failure p alone
		// produces there.
		return failWith[[]byte](in, err)
	}
	return in.Consumed(rest), rest, nil
}

type manyCollect[T any] struct {
	p         Parser[T]
	allowZero bool
}

func (m manyCollect[T]) Parse(in View) ([]T, View, error) {
	values := []T{}
	rest, matched, err := repeat(m.p, in, func(v T) {
		values = append(values, v)
	})
	if matched == 0 && !m.allowZero {
		return failWith[[]T](in, err)
	}
	return values, rest, nil
}

// Count runs p exactly n times, each run starting where the previous one
// stopped, and returns the bytes consumed by all of them. The first failing
// run fails the whole parser. A count of zero or less always succeeds
// without consuming input.
func Count[T any](n int, p Parser[T]) Parser[[]byte] {
	return countSlice[T]{n: n, p: p}
}

type countSlice[T any] struct {
	n int
	p Parser[T]
}

func (c countSlice[T]) Parse(in View) ([]byte, View, error) {
	rest := in
	for x := 0; x < c.n; x = x + 1 {
		_, next, err := c.p.Parse(rest)
		if err != nil {
			return failWith[[]byte](in, err)
		}
		rest = next
	}
	return in.Consumed(rest), rest, nil
}

// CollectCount is Count returning the output of every run.
func CollectCount[T any](n int, p Parser[T]) Parser[[]T] {
	return countCollect[T]{n: n, p: p}
}

type countCollect[T any] struct {
	n int
	p Parser[T]
}

func (c countCollect[T]) Parse(in View) ([]T, View, error) {
	values := []T{}
	rest := in
	for x := 0; x < c.n; x = x + 1 {
		v, next, err := c.p.Parse(rest)
		if err != nil {
			return failWith[[]T](in, err)
		}
		values = append(values, v)
		rest = next
	}
	return values, rest, nil
}

// Optional runs p and never fails. On success the output is present and the
// remainder is p's. On failure the output is absent and the remainder is in,
// untouched.
func Optional[T any](p Parser[T]) Parser[optional.Optional[T]] {
	return optionalParser[T]{p: p}
}

type optionalParser[T any] struct {
	p Parser[T]
}

func (o optionalParser[T]) Parse(in View) (optional.Optional[T], View, error) {
	v, rest, err := o.p.Parse(in)
	if err != nil {
		return optional.None[T](), in, nil
	}
	return optional.Some(v), rest, nil
}
