// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package httpmsg is an HTTP/1.x request grammar written with the
// combinator package. Every field of a parsed message aliases the input
// buffer.
package httpmsg

import (
	"bytes"
)

type RequestLine struct {
	// Offset is where the line starts in the parsed input.
	Offset  int
	Method  []byte
	URI     []byte
	Version []byte
}

// ProtoVersion splits Version into its major and minor numbers.
func (r RequestLine) ProtoVersion() (major int, minor int, ok bool) {
	v, err := parseVersion(r.Version)
	if err != nil {
		return 0, 0, false
	}
	return v[0], v[1], true
}

// Header is a header field. Value holds one entry per physical line, so a
// folded header has more than one.
type Header struct {
	Name  []byte
	Value [][]byte
}

// Joined returns the header value with folded lines joined by a space.
func (h Header) Joined() []byte {
	return bytes.Join(h.Value, []byte(" "))
}

type Request struct {
	RequestLine
	Headers []Header
	Body    []byte
}

// Header returns the first header whose name matches name
// case-insensitively.
func (r Request) Header(name string) (Header, bool) {
	for _, h := range r.Headers {
		if bytes.EqualFold(h.Name, []byte(name)) {
			return h, true
		}
	}
	return Header{}, false
}

// Fields renders the request as plain values suitable for structured
// output.
func (r Request) Fields() map[string]any {
	headers := make([]any, 0, len(r.Headers))
	for _, h := range r.Headers {
		headers = append(headers, map[string]any{
			"name":  string(h.Name),
			"value": string(h.Joined()),
		})
	}
	out := r.RequestLine.Fields()
	out["headers"] = headers
	if len(r.Body) > 0 {
		out["body"] = string(r.Body)
	}
	return out
}

func (r RequestLine) Fields() map[string]any {
	out := map[string]any{
		"method":  string(r.Method),
		"uri":     string(r.URI),
		"version": string(r.Version),
	}
	if major, minor, ok := r.ProtoVersion(); ok {
		out["major"] = major
		out["minor"] = minor
	}
	return out
}
