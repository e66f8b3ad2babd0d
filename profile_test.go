package spectre

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileUserAuthenticateSuccess(t *testing.T) {
	userKey, err := DeriveUserKey("Alice Example", "correct horse", AlgorithmCurrent)
	require.NoError(t, err)
	defer userKey.Zero()

	identicon, err := DeriveIdenticon("Alice Example", "correct horse")
	require.NoError(t, err)

	user := NewProfileUser("Alice Example", identicon, userKey.KeyID, AlgorithmCurrent)

	authenticated, err := user.Authenticate("correct horse")
	require.NoError(t, err)
	require.Equal(t, userKey.KeyID, authenticated.KeyID)
	authenticated.Zero()
}

func TestProfileUserAuthenticateMismatch(t *testing.T) {
	userKey, err := DeriveUserKey("Alice Example", "correct horse", AlgorithmCurrent)
	require.NoError(t, err)
	defer userKey.Zero()

	identicon, err := DeriveIdenticon("Alice Example", "correct horse")
	require.NoError(t, err)

	user := NewProfileUser("Alice Example", identicon, userKey.KeyID, AlgorithmCurrent)

	_, err = user.Authenticate("wrong secret entirely")
	require.ErrorIs(t, err, ErrUserSecretMismatch)
}

func TestProfileUserAddSiteReplacesInPlace(t *testing.T) {
	user := &ProfileUser{}
	user.AddSite(ProfileSite{SiteName: "a.example", Uses: 1})
	user.AddSite(ProfileSite{SiteName: "b.example", Uses: 1})
	user.AddSite(ProfileSite{SiteName: "a.example", Uses: 5})

	require.Len(t, user.Sites, 2)
	require.Equal(t, "a.example", user.Sites[0].SiteName)
	require.Equal(t, uint32(5), user.Sites[0].Uses)
	require.Equal(t, "b.example", user.Sites[1].SiteName)
}

func TestProfileUserFindSite(t *testing.T) {
	user := &ProfileUser{}
	user.AddSite(ProfileSite{SiteName: "a.example"})

	require.NotNil(t, user.FindSite("a.example"))
	require.Nil(t, user.FindSite("missing.example"))
}

func TestProfileSiteAddQuestionReplacesInPlace(t *testing.T) {
	site := &ProfileSite{SiteName: "a.example"}
	site.AddQuestion(ProfileQuestion{Keyword: "pet", State: "first"})
	site.AddQuestion(ProfileQuestion{Keyword: "pet", State: "second"})

	require.Len(t, site.Questions, 1)
	require.Equal(t, "second", site.Questions[0].State)
}

func TestNewProfileUserDefaultsToRedacted(t *testing.T) {
	user := NewProfileUser("name", Identicon{}, [32]byte{}, AlgorithmCurrent)
	require.True(t, user.Redacted)
}
