// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package httpmsg

import (
	"bytes"
	"fmt"
	"strconv"

	c "gopkg.microglot.org/chiaro.go/combinator"
	"gopkg.microglot.org/chiaro.go/exc"
	"gopkg.microglot.org/chiaro.go/optional"
)

func isToken(b byte) bool {
	return b < 128 && b > 31 && bytes.IndexByte([]byte("()<>@,;:\\\"/[]?={} \t"), b) < 0
}

func isHorizontalSpace(b byte) bool { return b == ' ' || b == '\t' }
func isSpace(b byte) bool           { return b == ' ' }
func isNotSpace(b byte) bool        { return b != ' ' && b != '\r' && b != '\n' }
func isNotEndOfLine(b byte) bool    { return b != '\r' && b != '\n' }
func isHTTPVersion(b byte) bool     { return b >= '0' && b <= '9' || b == '.' }
func isDigit(b byte) bool           { return b >= '0' && b <= '9' }

var (
	endl = c.Seq(c.Optional(c.Byte('\r')), c.Byte('\n'))

	decimal = c.Bind(c.TakeWhile(isDigit), func(digits []byte) c.Parser[int] {
		n, err := strconv.Atoi(string(digits))
		if err != nil {
			return c.Fail[int](exc.CodeRejected, fmt.Sprintf("number %q out of range", digits))
		}
		return c.Return(n)
	})

	protoVersion = c.Map2(c.Left(decimal, c.Byte('.')), decimal, func(major, minor int) [2]int {
		return [2]int{major, minor}
	})

	httpVersion = c.Seq(c.String("HTTP/"), c.TakeWhile(isHTTPVersion))

	// lineText is the rest of a line, which may be empty.
	lineText = c.Map(c.Optional(c.TakeWhile(isNotEndOfLine)), func(text optional.Optional[[]byte]) []byte {
		return bytes.TrimRight(text.ValueOr(nil), " \t")
	})

	requestLine = c.Bind(c.Position(), func(offset int) c.Parser[RequestLine] {
		return c.Bind(c.TakeWhile(isToken), func(method []byte) c.Parser[RequestLine] {
			return c.Bind(c.Seq(c.TakeWhile(isSpace), c.TakeWhile(isNotSpace)), func(uri []byte) c.Parser[RequestLine] {
				return c.Bind(c.Seq(c.TakeWhile(isSpace), httpVersion), func(version []byte) c.Parser[RequestLine] {
					return c.Return(RequestLine{Offset: offset, Method: method, URI: uri, Version: version})
				})
			})
		})
	})

	firstHeaderLine = c.Do(func(s *c.Scope) []byte {
		c.Step(s, c.Optional(c.TakeWhile(isHorizontalSpace)))
		text := c.Step(s, lineText)
		c.Step(s, endl)
		return text
	})

	// A continuation line must start with whitespace; that is what ends the
	// repetition at the next header name.
	continuationLine = c.Do(func(s *c.Scope) []byte {
		c.Step(s, c.TakeWhile(isHorizontalSpace))
		text := c.Step(s, lineText)
		c.Step(s, endl)
		return text
	})

	header = c.Do(func(s *c.Scope) Header {
		name := c.Step(s, c.TakeWhile(isToken))
		c.Step(s, c.Byte(':'))
		first := c.Step(s, firstHeaderLine)
		folded := c.Step(s, c.CollectMany(continuationLine))
		return Header{Name: name, Value: append([][]byte{first}, folded...)}
	})

	head = c.Do(func(s *c.Scope) Request {
		line := c.Step(s, requestLine)
		c.Step(s, endl)
		headers := c.Step(s, c.CollectMany(header))
		c.Step(s, endl)
		return Request{RequestLine: line, Headers: headers}
	})

	request = c.Bind(head, func(r Request) c.Parser[Request] {
		h, ok := r.Header("Content-Length")
		if !ok {
			return c.Return(r)
		}
		n, err := contentLength(h)
		if err != nil {
			return c.Fail[Request](exc.CodeRejected, err.Error())
		}
		return c.Map(c.Count(n, c.AnyByte()), func(body []byte) Request {
			withBody := r
			withBody.Body = body
			return withBody
		})
	})

	// noTrailing fails at the first unconsumed byte.
	noTrailing = c.ParserFunc[c.Unit](func(in c.View) (c.Unit, c.View, error) {
		if in.Empty() {
			return c.Unit{}, in, nil
		}
		return c.Unit{}, in, exc.New(exc.Location{Offset: in.Offset()}, exc.CodeTrailingInput, fmt.Sprintf("unexpected trailing input %q", in.Bytes()))
	})

	requests = c.Do(func(s *c.Scope) []Request {
		list := c.Step(s, c.CollectMany1(request))
		if !s.Rest().Empty() {
			// Parsing is pure, so running request again where the
			// repetition stopped reports why it stopped.
			c.Step(s, request)
		}
		c.Step(s, noTrailing)
		return list
	})
)

func contentLength(h Header) (int, error) {
	result := c.Run(c.Left(decimal, c.End()), h.Joined())
	if !result.OK() {
		return 0, fmt.Errorf("invalid Content-Length %q", h.Joined())
	}
	return result.Value, nil
}

func parseVersion(b []byte) ([2]int, error) {
	result := c.Run(c.Left(protoVersion, c.End()), b)
	return result.Value, result.Err
}

// RequestLineParser parses "METHOD SP URI SP HTTP/VERSION" and stops before
// the line terminator.
func RequestLineParser() c.Parser[RequestLine] {
	return requestLine
}

// RequestParser parses a request line, its headers, the blank line that ends
// them and, when Content-Length is present, that many bytes of body.
func RequestParser() c.Parser[Request] {
	return request
}

// RequestsParser parses one or more consecutive requests that make up the
// whole input.
func RequestsParser() c.Parser[[]Request] {
	return requests
}

// ParseRequestLine parses b as exactly one request line.
func ParseRequestLine(b []byte) c.Result[RequestLine] {
	return c.Run(c.Left(requestLine, noTrailing), b)
}

// ParseRequests parses b as a sequence of requests.
func ParseRequests(b []byte) c.Result[[]Request] {
	return c.Run(requests, b)
}
