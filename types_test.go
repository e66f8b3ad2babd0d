package spectre

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeyPurposeAcceptsShortAndLongForms(t *testing.T) {
	cases := map[string]KeyPurpose{
		"a": PurposeAuthentication, "auth": PurposeAuthentication, "authentication": PurposeAuthentication,
		"i": PurposeIdentification, "ident": PurposeIdentification, "identification": PurposeIdentification,
		"r": PurposeRecovery, "rec": PurposeRecovery, "recovery": PurposeRecovery,
	}
	for input, want := range cases {
		got, err := ParseKeyPurpose(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}
}

func TestParseKeyPurposeRejectsUnknown(t *testing.T) {
	_, err := ParseKeyPurpose("bogus")
	require.ErrorIs(t, err, ErrInvalidKeyPurpose)
}

func TestParseResultTypeAcceptsShortAndLongForms(t *testing.T) {
	cases := map[string]ResultType{
		"x": ResultMaximum, "max": ResultMaximum,
		"l": ResultLong, "long": ResultLong,
		"m": ResultMedium, "medium": ResultMedium,
		"b": ResultBasic, "basic": ResultBasic,
		"s": ResultShort, "short": ResultShort,
		"i": ResultPIN, "pin": ResultPIN,
		"n": ResultName, "name": ResultName,
		"p": ResultPhrase, "phrase": ResultPhrase,
		"K": ResultDeriveKey, "key": ResultDeriveKey,
		"P": ResultPersonalPassword, "personal": ResultPersonalPassword,
		"":  ResultNone,
		"none": ResultNone,
	}
	for input, want := range cases {
		got, err := ParseResultType(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}
}

func TestParseResultTypeRejectsUnknown(t *testing.T) {
	_, err := ParseResultType("bogus")
	require.ErrorIs(t, err, ErrInvalidResultType)
}

func TestResultTypeIsStateful(t *testing.T) {
	require.True(t, ResultPersonalPassword.IsStateful())
	require.True(t, ResultDeriveKey.IsStateful())
	require.False(t, ResultLong.IsStateful())
	require.False(t, ResultNone.IsStateful())
}

func TestParseFormatAcceptsShortAndLongForms(t *testing.T) {
	cases := map[string]Format{
		"n": FormatNone, "none": FormatNone,
		"f": FormatFlat, "flat": FormatFlat,
		"j": FormatJSON, "json": FormatJSON,
	}
	for input, want := range cases {
		got, ok := ParseFormat(input)
		require.True(t, ok, input)
		require.Equal(t, want, got, input)
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	_, ok := ParseFormat("bogus")
	require.False(t, ok)
}

func TestFormatExtension(t *testing.T) {
	require.Equal(t, "", FormatNone.Extension())
	require.Equal(t, "mpsites", FormatFlat.Extension())
	require.Equal(t, "json", FormatJSON.Extension())
}

func TestAlgorithmValid(t *testing.T) {
	require.True(t, AlgorithmCurrent.Valid())
	require.True(t, AlgorithmFirst.Valid())
	require.False(t, Algorithm(99).Valid())
}

func TestParseBoolLooseVocabulary(t *testing.T) {
	for _, truthy := range []string{"1", "true", "yes", "y", "on"} {
		require.True(t, ParseBool(truthy), truthy)
	}
	for _, falsy := range []string{"0", "false", "no", "n", "off", ""} {
		require.False(t, ParseBool(falsy), falsy)
	}
}
