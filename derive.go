package spectre

import (
	"crypto/hmac"
	"crypto/sha256"
)

// UserKey is the opaque, high-entropy key derived from a user's name and
// secret. It is immutable once derived and sensitive: zero it with Zero
// once it is no longer needed (spec.md §3).
type UserKey struct {
	KeyID     [32]byte
	Algorithm Algorithm
	bytes     []byte
}

// Bytes returns the raw 64-byte key material. Callers must not retain the
// returned slice past a Zero call.
func (k *UserKey) Bytes() []byte { return k.bytes }

// Zero overwrites the key material in place. Call this on every code path
// that drops a UserKey (spec.md §5's zeroization requirement).
func (k *UserKey) Zero() {
	for i := range k.bytes {
		k.bytes[i] = 0
	}
	k.bytes = nil
	k.KeyID = [32]byte{}
}

// DeriveUserKey derives a UserKey from a user's full name and personal
// secret for the given algorithm version (spec.md §4.3.1).
//
// Empty name or secret is accepted here; callers at the system boundary
// (the CLI) are responsible for rejecting empty input before it reaches
// this function (spec.md §4.3.1's note on upstream validation).
func DeriveUserKey(name, secret string, algorithm Algorithm) (*UserKey, error) {
	if !algorithm.Valid() {
		return nil, InvalidAlgorithmError(algorithm)
	}

	keyBytes, err := deriveUserKeyBytes(name, secret)
	if err != nil {
		return nil, err
	}

	return &UserKey{
		KeyID:     sha256.Sum256(keyBytes),
		Algorithm: algorithm,
		bytes:     keyBytes,
	}, nil
}

// DeriveSiteKey derives a 32-byte site key from a UserKey, scoped by site
// name, counter, purpose, and an optional context string (spec.md §4.3.2).
func DeriveSiteKey(userKey *UserKey, site string, counter Counter, purpose KeyPurpose, context string) ([32]byte, error) {
	var out [32]byte

	scope := purpose.scope()
	salt := make([]byte, 0, len(scope)+4+len(site)+4+4+len(context))
	salt = append(salt, scope...)
	salt = appendLengthPrefixed(salt, site)
	salt = appendUint32BE(salt, uint32(counter))
	if context != "" {
		salt = appendLengthPrefixed(salt, context)
	}

	mac := hmac.New(sha256.New, userKey.bytes)
	mac.Write(salt)
	sum := mac.Sum(nil)
	if len(sum) != 32 {
		return out, wrapError("key_derivation_failed", "unexpected HMAC output length", nil)
	}
	copy(out[:], sum)
	return out, nil
}

// SiteResult derives the template-based credential for a template result
// type, or returns resultParam unchanged for a stateful type (spec.md
// §4.3.3-§4.3.4; stateful encode/decode is the caller's responsibility via
// EncryptSiteState/DecryptSiteState).
func SiteResult(userKey *UserKey, site string, resultType ResultType, resultParam string, counter Counter, purpose KeyPurpose, context string) (string, error) {
	siteKey, err := DeriveSiteKey(userKey, site, counter, purpose, context)
	if err != nil {
		return "", err
	}

	if resultType.IsStateful() {
		if resultParam == "" {
			return "", wrapError("password_generation_failed", "stateful result type requires a result parameter", nil)
		}
		return resultParam, nil
	}

	return assembleTemplate(siteKey, resultType)
}

// assembleTemplate walks a template string selected by siteKey[0], filling
// each substitution position from siteKey[seedIndex % 32] (spec.md §4.3.3).
func assembleTemplate(siteKey [32]byte, resultType ResultType) (string, error) {
	templates := templatesFor(resultType)
	if len(templates) == 0 {
		return "", wrapError("password_generation_failed", "no templates for result type", nil)
	}

	template := templates[int(siteKey[0])%len(templates)]

	out := make([]byte, 0, len(template))
	seedIndex := 1
	for _, r := range template {
		class := charClass(r)
		if len(class) == 0 {
			out = append(out, byte(r))
			continue
		}
		out = append(out, class[int(siteKey[seedIndex%len(siteKey)])%len(class)])
		seedIndex++
	}
	return string(out), nil
}
