package spectre

import "strings"

// Identicon is a four-byte visual fingerprint of a user, drawn from the
// first four bytes of their UserKey (spec.md §4.3.5). The same (name,
// secret) pair always yields the same Identicon under the current
// algorithm; with only four bytes, different pairs can also collide.
type Identicon [4]byte

// DeriveIdenticon computes the Identicon for (name, secret) under the
// current algorithm version.
func DeriveIdenticon(name, secret string) (Identicon, error) {
	userKey, err := DeriveUserKey(name, secret, AlgorithmCurrent)
	if err != nil {
		return Identicon{}, err
	}
	defer userKey.Zero()

	var id Identicon
	copy(id[:], userKey.bytes[:4])
	return id, nil
}

// identiconPalette is a fixed 16-entry glyph palette. It is display-only:
// spec.md §4.3.5 makes clear that only the four raw bytes constitute the
// identicon's value, so the palette may change across renderings without
// affecting compatibility.
var identiconPalette = [16]string{
	"●", "◆", "■", "▲", "◉", "◈", "◇", "○",
	"◐", "◑", "◒", "◓", "◔", "◕", "◖", "◗",
}

// Render renders an Identicon as a short glyph sequence for human
// recognition of a profile.
func (id Identicon) Render() string {
	var b strings.Builder
	for _, by := range id {
		b.WriteString(identiconPalette[by%16])
	}
	return b.String()
}
