// Package spectre implements the Spectre (formerly Master Password)
// stateless password derivation algorithm: given a user's full name, a
// personal secret, and a site name, it deterministically derives a
// site-specific credential without ever persisting the inputs.
//
// BSD-3-Clause
//
// Copyright (c) 2024, Spectre Contributors
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice,
//   this list of conditions and the following disclaimer.
// * Redistributions in binary form must reproduce the above copyright
//   notice, this list of conditions and the following disclaimer in the
//   documentation and/or other materials provided with the distribution.
// * Neither the name of the copyright holder nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES ARE DISCLAIMED.
package spectre

import "fmt"

// Error is a distinguishable Spectre failure kind. Callers that need to
// branch on the exact failure (the CLI's password-rotation prompt, for
// instance) should use errors.Is against the sentinel values below rather
// than string-matching Error().
type Error struct {
	kind    string
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the same error kind, ignoring message and
// cause. This lets errors.Is(err, ErrUserSecretMismatch) succeed even when
// the concrete error carries additional context.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind
}

func newError(kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func wrapError(kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Sentinel errors for the taxonomy in spec.md §7. Compare with errors.Is.
var (
	ErrInvalidAlgorithm       = newError("invalid_algorithm", "invalid algorithm version")
	ErrInvalidResultType      = newError("invalid_result_type", "invalid result type")
	ErrInvalidKeyPurpose      = newError("invalid_key_purpose", "invalid key purpose")
	ErrInvalidFileFormat      = newError("invalid_file_format", "invalid file format")
	ErrKeyDerivationFailed    = newError("key_derivation_failed", "user key derivation failed")
	ErrPasswordGenerationFail = newError("password_generation_failed", "password generation failed")
	ErrUserSecretMismatch     = newError("user_secret_mismatch", "user secret mismatch")
	ErrMissingField           = newError("missing_field", "missing required field")
	ErrIO                     = newError("io", "I/O error")
	ErrJSON                   = newError("json", "JSON error")
)

// InvalidAlgorithmError reports the specific out-of-range value supplied.
func InvalidAlgorithmError(v Algorithm) error {
	return wrapError("invalid_algorithm", fmt.Sprintf("invalid algorithm version: %d", v), nil)
}

// InvalidResultTypeError reports the specific unparsable token.
func InvalidResultTypeError(s string) error {
	return wrapError("invalid_result_type", fmt.Sprintf("invalid result type: %q", s), nil)
}

// InvalidKeyPurposeError reports the specific unparsable token.
func InvalidKeyPurposeError(s string) error {
	return wrapError("invalid_key_purpose", fmt.Sprintf("invalid key purpose: %q", s), nil)
}

// InvalidFileFormatError reports the specific unparsable token or reason.
func InvalidFileFormatError(s string) error {
	return wrapError("invalid_file_format", fmt.Sprintf("invalid file format: %s", s), nil)
}

// MissingFieldError reports which required field was empty.
func MissingFieldError(field string) error {
	return wrapError("missing_field", fmt.Sprintf("missing required field: %s", field), nil)
}

// IOError wraps an underlying filesystem error.
func IOError(cause error) error {
	return wrapError("io", "file I/O error", cause)
}

// JSONError wraps an underlying encoding/json error.
func JSONError(cause error) error {
	return wrapError("json", "JSON encoding error", cause)
}
