package spectre

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveIdenticonDeterministic(t *testing.T) {
	first, err := DeriveIdenticon("name", "secretsecret")
	require.NoError(t, err)
	second, err := DeriveIdenticon("name", "secretsecret")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDeriveIdenticonVariesBySecret(t *testing.T) {
	first, err := DeriveIdenticon("name", "secretsecret")
	require.NoError(t, err)
	second, err := DeriveIdenticon("name", "differentsecret")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestIdenticonRenderProducesOneGlyphPerByte(t *testing.T) {
	id := Identicon{0, 1, 2, 3}
	rendered := []rune(id.Render())
	require.Len(t, rendered, 4)
}
