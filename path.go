package spectre

import (
	"os"
	"path/filepath"
)

// ProfilePath returns the default profile path for userName under the
// given format: $HOME/.spectre.d/<user_name>.<ext> (spec.md §6.2). It
// returns ("", false) for FormatNone, which has no on-disk representation.
func ProfilePath(userName string, format Format) (string, bool) {
	ext := format.Extension()
	if ext == "" {
		return "", false
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	return filepath.Join(home, ".spectre.d", userName+"."+ext), true
}
