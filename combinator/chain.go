// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

// Scope threads the remainder through the steps of a Do block. A Scope is
// created for each invocation and must not escape the block.
type Scope struct {
	rest View
}

// Rest returns the input not yet consumed by the block's steps.
func (s *Scope) Rest() View {
	return s.rest
}

type stepFailure struct {
	err error
}

// Step runs p on the scope's remainder, advances the scope past what p
// consumed and returns p's output. If p fails the rest of the block is
// skipped and the enclosing Do fails with p's failure.
func Step[T any](s *Scope, p Parser[T]) T {
	v, rest, err := p.Parse(s.rest)
	if err != nil {
		panic(stepFailure{err: err})
	}
	s.rest = rest
	return v
}

// Do turns a block of Steps into a parser. It reads like a chain of Bind and
// Seq written by hand, and behaves identically: steps run in order, each on
// the previous remainder, the first failure is returned unchanged, and the
// block's return value is the output.
//
//	request := Do(func(s *Scope) Request {
//		method := Step(s, TakeWhile(isToken))
//		Step(s, Byte(' '))
//		uri := Step(s, TakeWhile(isNotSpace))
//		return Request{Method: method, URI: uri}
//	})
//
// The block must be pure apart from its Steps.
func Do[T any](block func(s *Scope) T) Parser[T] {
	return doParser[T](block)
}

type doParser[T any] func(s *Scope) T

func (d doParser[T]) Parse(in View) (value T, rest View, err error) {
	s := &Scope{rest: in}
	defer func() {
		if x := recover(); x != nil {
			f, ok := x.(stepFailure)
			if !ok {
				panic(x)
			}
			var zero T
			value, rest, err = zero, in, f.err
		}
	}()
	value = d(s)
	return value, s.rest, nil
}
