package spectre

import (
	"encoding/binary"

	"golang.org/x/crypto/scrypt"
)

// Fixed scrypt parameters for user-key derivation. These are not
// configurable by any other component: spec.md §4.1 makes them part of
// the on-the-wire contract, so changing them would silently produce
// different passwords for the same inputs.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 2
	scryptDKLen  = 64
	scopeUserKey = "com.lyndir.masterpassword"
)

// appendUint32BE appends n as four big-endian bytes, per spec.md §4.1's
// "all integer fields packed into salts are big-endian, unsigned, 32-bit".
func appendUint32BE(buf []byte, n uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return append(buf, b[:]...)
}

// appendLengthPrefixed appends the big-endian uint32 byte length of s
// followed by s itself.
func appendLengthPrefixed(buf []byte, s string) []byte {
	buf = appendUint32BE(buf, uint32(len(s)))
	return append(buf, s...)
}

// deriveUserKeyBytes runs the memory-hard KDF over (name, secret) per
// spec.md §4.3.1. The salt is:
//
//	"com.lyndir.masterpassword" || be32(len(name)) || name
func deriveUserKeyBytes(name, secret string) ([]byte, error) {
	salt := make([]byte, 0, len(scopeUserKey)+4+len(name))
	salt = append(salt, scopeUserKey...)
	salt = appendLengthPrefixed(salt, name)

	key, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, wrapError("key_derivation_failed", "user key derivation failed", err)
	}
	return key, nil
}
