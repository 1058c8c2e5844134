// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

const (
	CodeUnknownFatal = "M0000"
)

// Parse failures produced by the combinator engine.
const (
	CodeUnexpectedByte        = "P0001"
	CodeUnexpectedEOF         = "P0002"
	CodeLiteralMismatch       = "P0003"
	CodePredicateNeverMatched = "P0004"
	CodeRejected              = "P0005"
)

// Failures raised by grammars built on the engine.
const (
	CodeUnsupportedMethod = "H0001"
	CodeTrailingInput     = "H0002"
)

var (
	defaultNonFatal = map[string]bool{}
)
