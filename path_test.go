package spectre

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfilePathJSON(t *testing.T) {
	path, ok := ProfilePath("Jane Doe", FormatJSON)
	require.True(t, ok)
	require.True(t, strings.HasSuffix(path, "Jane Doe.json"))
	require.Contains(t, path, ".spectre.d")
}

func TestProfilePathNoneHasNoPath(t *testing.T) {
	_, ok := ProfilePath("Jane Doe", FormatNone)
	require.False(t, ok)
}
