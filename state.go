package spectre

import "encoding/hex"

// EncryptSiteState turns plaintext into the stored form for a stateful
// result type (PersonalPassword / DeriveKey): XOR the plaintext bytes with
// the site-key stream (position modulo len(siteKey)), then hex-encode.
//
// This is explicitly a known-weak placeholder for AES, carried unchanged
// from the reference implementation (spec.md §4.3.4, §9 Open Questions). A
// conforming rewrite should move to AES-CTR keyed on the site key, but
// that changes the persisted state byte-for-byte and must be versioned
// rather than swapped in place.
func EncryptSiteState(userKey *UserKey, site string, plaintext string, counter Counter, purpose KeyPurpose, context string) (string, error) {
	siteKey, err := DeriveSiteKey(userKey, site, counter, purpose, context)
	if err != nil {
		return "", err
	}
	return xorHexEncode([]byte(plaintext), siteKey), nil
}

// DecryptSiteState reverses EncryptSiteState for display.
func DecryptSiteState(userKey *UserKey, site string, state string, counter Counter, purpose KeyPurpose, context string) (string, error) {
	siteKey, err := DeriveSiteKey(userKey, site, counter, purpose, context)
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(state)
	if err != nil {
		return "", wrapError("password_generation_failed", "malformed stored state", err)
	}
	return string(xorBytes(raw, siteKey)), nil
}

func xorHexEncode(plaintext []byte, siteKey [32]byte) string {
	return hex.EncodeToString(xorBytes(plaintext, siteKey))
}

func xorBytes(data []byte, siteKey [32]byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ siteKey[i%len(siteKey)]
	}
	return out
}
