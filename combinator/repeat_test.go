// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/chiaro.go/exc"
	"gopkg.microglot.org/chiaro.go/optional"
)

func TestTakeWhile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
		rest     string
		errMsg   string
	}{
		{
			name:     "prefix",
			input:    "123abc",
			expected: "123",
			rest:     "abc",
		},
		{
			name:     "whole input",
			input:    "987",
			expected: "987",
			rest:     "",
		},
		{
			name:   "no match",
			input:  "abc",
			errMsg: "no match for take-while, found 'a'",
		},
		{
			name:   "empty",
			input:  "",
			errMsg: "no match for take-while, input is empty",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := RunString(TakeWhile(isDigit), testCase.input)
			if testCase.errMsg != "" {
				requireFailure(t, result.Err, exc.CodePredicateNeverMatched, 0, testCase.errMsg)
				require.Nil(t, result.Value)
				return
			}
			require.NoError(t, result.Err)
			require.Equal(t, testCase.expected, string(result.Value))
			require.Equal(t, testCase.rest, string(result.Remaining()))
		})
	}
}

func TestTakeWhileIsZeroCopy(t *testing.T) {
	t.Parallel()

	buf := []byte("123abc")
	result := Run(TakeWhile(isDigit), buf)
	require.NoError(t, result.Err)
	require.Same(t, &buf[0], &result.Value[0])
	require.Same(t, &buf[3], &result.Remaining()[0])
}

func TestMany(t *testing.T) {
	t.Parallel()

	spaces := Many(Byte(' '))

	result := RunString(spaces, "   abc")
	require.NoError(t, result.Err)
	require.Equal(t, "   ", string(result.Value))
	require.Equal(t, "abc", string(result.Remaining()))

	result = RunString(spaces, "abc")
	require.NoError(t, result.Err)
	require.Empty(t, result.Value)
	require.Equal(t, 0, result.Rest.Offset())

	result = RunString(spaces, "")
	require.NoError(t, result.Err)
	require.Empty(t, result.Value)
}

func TestMany1(t *testing.T) {
	t.Parallel()

	spaces := Many1(Byte(' '))

	result := RunString(spaces, "  x")
	require.NoError(t, result.Err)
	require.Equal(t, "  ", string(result.Value))
	require.Equal(t, "x", string(result.Remaining()))

	testCases := []struct {
		name  string
		p     Parser[Unit]
		input string
	}{
		{name: "byte", p: Byte(' '), input: "abc"},
		{name: "byte eof", p: Byte(' '), input: ""},
		{name: "literal", p: String("ab"), input: "aXb"},
		{name: "literal eof", p: String("ab"), input: "a"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			direct := RunString(testCase.p, testCase.input)
			require.Error(t, direct.Err)

			many1 := RunString(Many1(testCase.p), testCase.input)
			require.Equal(t, direct.Err, many1.Err)
			require.Equal(t, direct.Err.Error(), many1.Err.Error())

			collected := RunString(CollectMany1(testCase.p), testCase.input)
			require.Equal(t, direct.Err, collected.Err)
		})
	}
}

func TestMany1StopsAtFailureAfterMatch(t *testing.T) {
	t.Parallel()

	result := RunString(Many1(String("ab")), "abax")
	require.NoError(t, result.Err)
	require.Equal(t, "ab", string(result.Value))
	require.Equal(t, "ax", string(result.Remaining()))
}

func TestCollectMany(t *testing.T) {
	t.Parallel()

	words := CollectMany(Left(TakeWhile(isAlpha), Many(Byte(' '))))

	result := RunString(words, "get the  dog 42")
	require.NoError(t, result.Err)
	require.Len(t, result.Value, 3)
	require.Equal(t, "get", string(result.Value[0]))
	require.Equal(t, "the", string(result.Value[1]))
	require.Equal(t, "dog", string(result.Value[2]))
	require.Equal(t, "42", string(result.Remaining()))

	result = RunString(words, "42")
	require.NoError(t, result.Err)
	require.Empty(t, result.Value)
	require.Equal(t, "42", string(result.Remaining()))

	result = RunString(CollectMany1(TakeWhile(isAlpha)), "42")
	requireFailure(t, result.Err, exc.CodePredicateNeverMatched, 0, "no match for take-while, found '4'")
}

func TestManyTerminatesOnEmptyMatch(t *testing.T) {
	t.Parallel()

	result := RunString(Many(Return(1)), "abc")
	require.NoError(t, result.Err)
	require.Empty(t, result.Value)
	require.Equal(t, "abc", string(result.Remaining()))

	collected := RunString(CollectMany(Many(Byte('a'))), "aab")
	require.NoError(t, collected.Err)
	require.Len(t, collected.Value, 2)
	require.Equal(t, "aa", string(collected.Value[0]))
	require.Empty(t, collected.Value[1])
	require.Equal(t, "b", string(collected.Remaining()))

	one := RunString(Many1(Return(1)), "abc")
	require.NoError(t, one.Err)
	require.Equal(t, 0, one.Rest.Offset())
}

func TestCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		n        int
		input    string
		expected string
		rest     string
		errCode  string
		errAt    int
	}{
		{name: "exact", n: 3, input: "aaa", expected: "aaa", rest: ""},
		{name: "successive remainders", n: 3, input: "aaab", expected: "aaa", rest: "b"},
		{name: "zero", n: 0, input: "xyz", expected: "", rest: "xyz"},
		{name: "negative", n: -2, input: "xyz", expected: "", rest: "xyz"},
		{name: "zero on empty", n: 0, input: "", expected: "", rest: ""},
		{name: "too few", n: 3, input: "aab", errCode: exc.CodeUnexpectedByte, errAt: 2},
		{name: "runs out", n: 3, input: "aa", errCode: exc.CodeUnexpectedEOF, errAt: 2},
		{name: "first fails", n: 1, input: "b", errCode: exc.CodeUnexpectedByte, errAt: 0},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := RunString(Count(testCase.n, Byte('a')), testCase.input)
			if testCase.errCode != "" {
				requireFailure(t, result.Err, testCase.errCode, testCase.errAt, "")
				require.Nil(t, result.Value)
				require.Equal(t, 0, result.Rest.Offset())
				return
			}
			require.NoError(t, result.Err)
			require.Equal(t, testCase.expected, string(result.Value))
			require.Equal(t, testCase.rest, string(result.Remaining()))
		})
	}
}

func TestCountZeroIgnoresParser(t *testing.T) {
	t.Parallel()

	never := Fail[int](exc.CodeRejected, "never")
	result := RunString(Count(0, never), "abc")
	require.NoError(t, result.Err)
	require.Empty(t, result.Value)
	require.Equal(t, 0, result.Rest.Offset())
}

func TestCollectCount(t *testing.T) {
	t.Parallel()

	digits := CollectCount(3, Map(anyByte, func(b byte) int { return int(b - '0') }))

	result := RunString(digits, "1234")
	require.NoError(t, result.Err)
	require.Equal(t, []int{1, 2, 3}, result.Value)
	require.Equal(t, "4", string(result.Remaining()))

	result = RunString(digits, "12")
	requireFailure(t, result.Err, exc.CodeUnexpectedEOF, 2, "")

	empty := RunString(CollectCount(0, anyByte), "")
	require.NoError(t, empty.Err)
	require.Empty(t, empty.Value)
}

func TestOptional(t *testing.T) {
	t.Parallel()

	maybeX := Optional(Byte('x'))

	result := RunString(maybeX, "abc")
	require.NoError(t, result.Err)
	require.Equal(t, optional.None[Unit](), result.Value)
	require.Equal(t, 0, result.Rest.Offset())
	require.Equal(t, "abc", string(result.Remaining()))

	result = RunString(maybeX, "xbc")
	require.NoError(t, result.Err)
	require.True(t, result.Value.IsPresent())
	require.Equal(t, "bc", string(result.Remaining()))

	// A literal that matches partway must not leak its progress.
	partial := RunString(Optional(String("HTTP/")), "HTTX/1.0")
	require.NoError(t, partial.Err)
	require.False(t, partial.Value.IsPresent())
	require.Equal(t, 0, partial.Rest.Offset())

	// Nor may a chain that fails after consuming.
	chain := RunString(Optional(Seq(Byte('a'), Byte('b'))), "ac")
	require.NoError(t, chain.Err)
	require.False(t, chain.Value.IsPresent())
	require.Equal(t, "ac", string(chain.Remaining()))
}
