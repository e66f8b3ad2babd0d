package spectre

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplatesForKnownTypesNonEmpty(t *testing.T) {
	for _, rt := range []ResultType{
		ResultMaximum, ResultLong, ResultMedium, ResultBasic,
		ResultShort, ResultPIN, ResultName, ResultPhrase,
	} {
		require.NotEmpty(t, templatesFor(rt), rt.String())
	}
}

func TestTemplatesForStatefulTypesAreEmpty(t *testing.T) {
	require.Empty(t, templatesFor(ResultPersonalPassword))
	require.Empty(t, templatesFor(ResultDeriveKey))
	require.Empty(t, templatesFor(ResultNone))
}

func TestCharClassCoversEveryTemplateToken(t *testing.T) {
	for _, templates := range templatesByType {
		for _, template := range templates {
			for _, r := range template {
				if r == ' ' {
					require.Equal(t, []byte(" "), charClass(r))
					continue
				}
				require.NotEmpty(t, charClass(r), "token %q has no character class", r)
			}
		}
	}
}

func TestCharClassUnknownTokenIsLiteral(t *testing.T) {
	require.Nil(t, charClass('Z'))
}
