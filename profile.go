package spectre

import "time"

// ProfileUser is the persisted record of one user: identity, algorithm,
// redaction policy, and the ordered list of sites they have generated
// credentials for (spec.md §3). Sites are addressed by exact name match;
// the first site with a given name is authoritative.
type ProfileUser struct {
	UserName  string
	Identicon Identicon
	KeyID     [32]byte
	Algorithm Algorithm
	Redacted  bool

	LoginType  ResultType
	LoginState string

	LastUsed time.Time

	Sites []ProfileSite
}

// ProfileSite is the persisted record of one site: its credential kind,
// counter, optional stored state, login metadata, and recovery questions.
type ProfileSite struct {
	SiteName    string
	ResultType  ResultType
	ResultState string
	Counter     Counter
	Algorithm   Algorithm

	LoginType  ResultType
	LoginState string

	URL string

	Uses     uint32
	LastUsed time.Time

	Questions []ProfileQuestion
}

// ProfileQuestion is a recovery-question keyword and its stored answer
// state. An empty Keyword denotes "the default question".
type ProfileQuestion struct {
	Keyword      string
	QuestionType ResultType
	State        string
}

// NewProfileUser creates a fresh user record, redacted by default (spec.md
// §3's invariant: redacted = true is the default).
func NewProfileUser(userName string, identicon Identicon, keyID [32]byte, algorithm Algorithm) *ProfileUser {
	return &ProfileUser{
		UserName:  userName,
		Identicon: identicon,
		KeyID:     keyID,
		Algorithm: algorithm,
		Redacted:  true,
		LoginType: ResultNone,
		LastUsed:  time.Now().UTC(),
	}
}

// FindSite returns the authoritative site with the given name, if any.
func (u *ProfileUser) FindSite(name string) *ProfileSite {
	for i := range u.Sites {
		if u.Sites[i].SiteName == name {
			return &u.Sites[i]
		}
	}
	return nil
}

// AddSite inserts site, replacing any existing site with the same name in
// place (preserving its position) and otherwise appending (spec.md §4.4's
// "insertion replaces an existing entry with the same name; otherwise
// appends. Insertion order must be preserved").
func (u *ProfileUser) AddSite(site ProfileSite) {
	for i := range u.Sites {
		if u.Sites[i].SiteName == site.SiteName {
			u.Sites[i] = site
			return
		}
	}
	u.Sites = append(u.Sites, site)
}

// NewProfileSite creates a fresh site record for a newly seen site name.
func NewProfileSite(name string, resultType ResultType, counter Counter, algorithm Algorithm) ProfileSite {
	return ProfileSite{
		SiteName:   name,
		ResultType: resultType,
		Counter:    counter,
		Algorithm:  algorithm,
		LoginType:  ResultNone,
		LastUsed:   time.Now().UTC(),
	}
}

// FindQuestion returns the question with the given keyword, if any.
func (s *ProfileSite) FindQuestion(keyword string) *ProfileQuestion {
	for i := range s.Questions {
		if s.Questions[i].Keyword == keyword {
			return &s.Questions[i]
		}
	}
	return nil
}

// AddQuestion inserts question, replacing any existing question with the
// same keyword in place and otherwise appending.
func (s *ProfileSite) AddQuestion(question ProfileQuestion) {
	for i := range s.Questions {
		if s.Questions[i].Keyword == question.Keyword {
			s.Questions[i] = question
			return
		}
	}
	s.Questions = append(s.Questions, question)
}

// Authenticate verifies secret against u by re-deriving a UserKey from
// (u.UserName, secret, u.Algorithm) and comparing key IDs (spec.md §4.4).
// On success, u.Identicon is refreshed. On mismatch, the returned error
// satisfies errors.Is(err, ErrUserSecretMismatch), distinct from any
// format or I/O error, so callers (the CLI's -U rotation flow) can branch
// on it specifically.
func (u *ProfileUser) Authenticate(secret string) (*UserKey, error) {
	userKey, err := DeriveUserKey(u.UserName, secret, u.Algorithm)
	if err != nil {
		return nil, err
	}

	if userKey.KeyID != u.KeyID {
		userKey.Zero()
		return nil, ErrUserSecretMismatch
	}

	identicon, err := DeriveIdenticon(u.UserName, secret)
	if err != nil {
		return userKey, err
	}
	u.Identicon = identicon

	return userKey, nil
}
