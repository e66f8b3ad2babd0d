package spectre

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func buildTestUser(t *testing.T, redacted bool) *ProfileUser {
	t.Helper()

	userKey, err := DeriveUserKey("Jane Doe", "hunter2 hunter2", AlgorithmCurrent)
	require.NoError(t, err)
	defer userKey.Zero()

	identicon, err := DeriveIdenticon("Jane Doe", "hunter2 hunter2")
	require.NoError(t, err)

	user := NewProfileUser("Jane Doe", identicon, userKey.KeyID, AlgorithmCurrent)
	user.Redacted = redacted
	user.AddSite(ProfileSite{
		SiteName:    "example.com",
		ResultType:  ResultLong,
		ResultState: "deadbeef",
		Counter:     CounterDefault,
		Algorithm:   AlgorithmCurrent,
		URL:         "https://example.com/login",
		Uses:        3,
		LastUsed:    time.Now().UTC().Truncate(time.Second),
		Questions: []ProfileQuestion{
			{Keyword: "pet", QuestionType: ResultName, State: "cafebabe"},
		},
	})
	return user
}

func TestJSONRoundTripPreservesNonRedactedFields(t *testing.T) {
	user := buildTestUser(t, false)

	data, err := json.MarshalIndent(toJSONUser(user), "", "  ")
	require.NoError(t, err)

	var decoded jsonUser
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := fromJSONUser(decoded)
	require.NoError(t, err)

	require.Equal(t, user.UserName, restored.UserName)
	require.Equal(t, user.KeyID, restored.KeyID)
	require.Equal(t, user.Identicon, restored.Identicon)
	require.Len(t, restored.Sites, 1)
	require.Equal(t, "example.com", restored.Sites[0].SiteName)
	require.Equal(t, "https://example.com/login", restored.Sites[0].URL)
	require.Equal(t, "pet", restored.Sites[0].Questions[0].Keyword)
}

func TestJSONRedactionOmitsSiteSecrets(t *testing.T) {
	user := buildTestUser(t, true)

	out := toJSONUser(user)

	require.Len(t, out.Sites, 1)
	require.Empty(t, out.Sites[0].SiteName)
	require.Empty(t, out.Sites[0].ResultState)
	require.Empty(t, out.Sites[0].URL)
	require.Empty(t, out.Sites[0].Questions[0].Keyword)
	require.Empty(t, out.Sites[0].Questions[0].State)

	// Aggregate telemetry survives redaction.
	require.Equal(t, uint32(3), out.Sites[0].Uses)
	require.Equal(t, uint32(CounterDefault), out.Sites[0].Counter)
}

func TestReadProfileMissingFileIsNotAnError(t *testing.T) {
	user, ok, err := ReadProfile("/nonexistent/path/does/not/exist.json")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, user)
}

func TestWriteProfileFormatNoneIsNoop(t *testing.T) {
	user := buildTestUser(t, false)
	err := WriteProfile("/should/never/be/written.json", FormatNone, user)
	require.NoError(t, err)
}

func TestWriteProfileJSONRoundTripsThroughDisk(t *testing.T) {
	user := buildTestUser(t, false)
	path := t.TempDir() + "/jane-doe.json"

	require.NoError(t, WriteProfile(path, FormatJSON, user))

	restored, ok, err := ReadProfile(path)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user.UserName, restored.UserName)
	require.Equal(t, user.Sites[0].SiteName, restored.Sites[0].SiteName)
}

func TestWriteProfileFlatAlwaysErrors(t *testing.T) {
	user := buildTestUser(t, false)
	err := WriteProfile(t.TempDir()+"/jane-doe.mpsites", FormatFlat, user)
	require.ErrorIs(t, err, ErrInvalidFileFormat)
}

func TestDecodeFixedBytesRejectsWrongLength(t *testing.T) {
	_, err := decodeFixedBytes("AAAA", 32)
	require.Error(t, err)
}
