// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/chiaro.go/exc"
)

type keyValue struct {
	key   string
	value int
}

func TestDoMatchesHandWrittenChain(t *testing.T) {
	t.Parallel()

	equals := Byte('=')
	semi := Byte(';')

	byHand := Bind(TakeWhile(isAlpha), func(key []byte) Parser[keyValue] {
		return Seq(equals, Bind(number, func(value int) Parser[keyValue] {
			return Seq(semi, Return(keyValue{key: string(key), value: value}))
		}))
	})

	declared := Do(func(s *Scope) keyValue {
		key := Step(s, TakeWhile(isAlpha))
		Step(s, equals)
		value := Step(s, number)
		Step(s, semi)
		return keyValue{key: string(key), value: value}
	})

	inputs := []string{
		"port=80;rest",
		"port=80",
		"port:80;",
		"=80;",
		"port=x;",
		"",
	}
	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			expected := RunString(byHand, input)
			actual := RunString(declared, input)
			require.Equal(t, expected.Err, actual.Err)
			require.Equal(t, expected.Value, actual.Value)
			require.Equal(t, expected.Rest.Offset(), actual.Rest.Offset())
		})
	}

	result := RunString(declared, "port=80;rest")
	require.NoError(t, result.Err)
	require.Equal(t, keyValue{key: "port", value: 80}, result.Value)
	require.Equal(t, "rest", string(result.Remaining()))
}

func TestDoStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	reached := false
	p := Do(func(s *Scope) int {
		Step(s, Byte('a'))
		Step(s, Byte('b'))
		reached = true
		return Step(s, number)
	})

	result := RunString(p, "ax1")
	requireFailure(t, result.Err, exc.CodeUnexpectedByte, 1, "expected byte 'b', found 'x'")
	require.False(t, reached)
	require.Equal(t, 0, result.Value)
	require.Equal(t, 0, result.Rest.Offset())
}

func TestDoScopeRest(t *testing.T) {
	t.Parallel()

	p := Do(func(s *Scope) int {
		Step(s, String("ab"))
		return s.Rest().Offset()
	})
	result := RunString(p, "abc")
	require.NoError(t, result.Err)
	require.Equal(t, 2, result.Value)
}

func TestDoRepanicsForeignPanics(t *testing.T) {
	t.Parallel()

	p := Do(func(s *Scope) int {
		panic("boom")
	})
	require.PanicsWithValue(t, "boom", func() {
		RunString(p, "")
	})
}

func TestDoNested(t *testing.T) {
	t.Parallel()

	pair := Do(func(s *Scope) [2]int {
		a := Step(s, number)
		Step(s, Byte(','))
		b := Step(s, number)
		return [2]int{a, b}
	})
	list := Do(func(s *Scope) [][2]int {
		Step(s, Byte('['))
		items := Step(s, CollectMany(Left(pair, Optional(Byte(' ')))))
		Step(s, Byte(']'))
		return items
	})

	result := RunString(list, "[1,2 3,4]")
	require.NoError(t, result.Err)
	require.Equal(t, [][2]int{{1, 2}, {3, 4}}, result.Value)

	result = RunString(list, "[1,2 3,]")
	requireFailure(t, result.Err, exc.CodeUnexpectedByte, 5, "expected byte ']', found '3'")
}
