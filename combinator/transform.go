// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

// Map runs p and transforms its output with f. f must be pure.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return mapParser[T, U]{p: p, f: f}
}

type mapParser[T, U any] struct {
	p Parser[T]
	f func(T) U
}

func (m mapParser[T, U]) Parse(in View) (U, View, error) {
	v, rest, err := m.p.Parse(in)
	if err != nil {
		return failWith[U](in, err)
	}
	return m.f(v), rest, nil
}

// Bind runs p, hands its output to f to choose the next parser and runs
// that parser on p's remainder. f is not called when p fails. This is how
// data-dependent grammars are written, for example reading a length and
// then that many bytes.
func Bind[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return bindParser[T, U]{p: p, f: f}
}

type bindParser[T, U any] struct {
	p Parser[T]
	f func(T) Parser[U]
}

func (b bindParser[T, U]) Parse(in View) (U, View, error) {
	v, rest, err := b.p.Parse(in)
	if err != nil {
		return failWith[U](in, err)
	}
	u, rest, err := b.f(v).Parse(rest)
	if err != nil {
		return failWith[U](in, err)
	}
	return u, rest, nil
}

// Seq runs p then q on p's remainder and keeps q's output.
func Seq[T, U any](p Parser[T], q Parser[U]) Parser[U] {
	return seqParser[T, U]{p: p, q: q}
}

type seqParser[T, U any] struct {
	p Parser[T]
	q Parser[U]
}

func (s seqParser[T, U]) Parse(in View) (U, View, error) {
	_, rest, err := s.p.Parse(in)
	if err != nil {
		return failWith[U](in, err)
	}
	u, rest, err := s.q.Parse(rest)
	if err != nil {
		return failWith[U](in, err)
	}
	return u, rest, nil
}

// Left runs p then q on p's remainder and keeps p's output.
func Left[T, U any](p Parser[T], q Parser[U]) Parser[T] {
	return Map2(p, q, func(t T, _ U) T { return t })
}

// Map2 runs p then q and combines both outputs with f. Nothing is combined
// unless both succeed.
func Map2[A, B, R any](p Parser[A], q Parser[B], f func(A, B) R) Parser[R] {
	return map2Parser[A, B, R]{p: p, q: q, f: f}
}

type map2Parser[A, B, R any] struct {
	p Parser[A]
	q Parser[B]
	f func(A, B) R
}

func (m map2Parser[A, B, R]) Parse(in View) (R, View, error) {
	a, rest, err := m.p.Parse(in)
	if err != nil {
		return failWith[R](in, err)
	}
	b, rest, err := m.q.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	return m.f(a, b), rest, nil
}

// Map3 is Map2 for three parsers.
func Map3[A, B, C, R any](p Parser[A], q Parser[B], r Parser[C], f func(A, B, C) R) Parser[R] {
	return map3Parser[A, B, C, R]{p: p, q: q, r: r, f: f}
}

type map3Parser[A, B, C, R any] struct {
	p Parser[A]
	q Parser[B]
	r Parser[C]
	f func(A, B, C) R
}

func (m map3Parser[A, B, C, R]) Parse(in View) (R, View, error) {
	a, rest, err := m.p.Parse(in)
	if err != nil {
		return failWith[R](in, err)
	}
	b, rest, err := m.q.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	c, rest, err := m.r.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	return m.f(a, b, c), rest, nil
}

// Map4 is Map2 for four parsers.
func Map4[A, B, C, D, R any](p Parser[A], q Parser[B], r Parser[C], s Parser[D], f func(A, B, C, D) R) Parser[R] {
	return map4Parser[A, B, C, D, R]{p: p, q: q, r: r, s: s, f: f}
}

type map4Parser[A, B, C, D, R any] struct {
	p Parser[A]
	q Parser[B]
	r Parser[C]
	s Parser[D]
	f func(A, B, C, D) R
}

func (m map4Parser[A, B, C, D, R]) Parse(in View) (R, View, error) {
	a, rest, err := m.p.Parse(in)
	if err != nil {
		return failWith[R](in, err)
	}
	b, rest, err := m.q.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	c, rest, err := m.r.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	d, rest, err := m.s.Parse(rest)
	if err != nil {
		return failWith[R](in, err)
	}
	return m.f(a, b, c, d), rest, nil
}

// Tuple2 holds the outputs of Pair.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Pair runs p then q and returns both outputs.
func Pair[A, B any](p Parser[A], q Parser[B]) Parser[Tuple2[A, B]] {
	return Map2(p, q, func(a A, b B) Tuple2[A, B] {
		return Tuple2[A, B]{First: a, Second: b}
	})
}
