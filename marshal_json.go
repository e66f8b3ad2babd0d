package spectre

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/creachadair/atomicfile"
)

// jsonFormatVersion is bumped whenever the on-disk JSON shape changes in a
// way that is not purely additive. Readers should treat an unrecognized
// version as best-effort: unknown fields are ignored by encoding/json, and
// this implementation understands only version 1.
const jsonFormatVersion = 1

// jsonQuestion is the wire shape of a ProfileQuestion. Field names follow
// spec.md §6.3.
type jsonQuestion struct {
	Keyword      string `json:"keyword"`
	QuestionType string `json:"question_type"`
	State        string `json:"state,omitempty"`
}

// jsonSite is the wire shape of a ProfileSite.
type jsonSite struct {
	SiteName    string         `json:"site_name,omitempty"`
	ResultType  string         `json:"result_type"`
	ResultState string         `json:"result_state,omitempty"`
	Counter     uint32         `json:"counter"`
	Algorithm   uint32         `json:"algorithm"`
	LoginType   string         `json:"login_type,omitempty"`
	LoginState  string         `json:"login_state,omitempty"`
	URL         string         `json:"url,omitempty"`
	Uses        uint32         `json:"uses"`
	LastUsed    time.Time      `json:"last_used"`
	Questions   []jsonQuestion `json:"questions,omitempty"`
}

// jsonUser is the wire shape of a ProfileUser. Byte arrays (KeyID,
// Identicon) serialize as standard base64 strings — spec.md §6.3 leaves
// the choice between integer-array and base64 to the implementation, as
// long as it is fixed and documented; this module fixes base64.
type jsonUser struct {
	FormatVersion int        `json:"format_version"`
	UserName      string     `json:"user_name,omitempty"`
	Identicon     string     `json:"identicon"`
	KeyID         string     `json:"key_id"`
	Algorithm     uint32     `json:"algorithm"`
	Redacted      bool       `json:"redacted"`
	LoginType     string     `json:"login_type,omitempty"`
	LoginState    string     `json:"login_state,omitempty"`
	LastUsed      time.Time  `json:"last_used"`
	Sites         []jsonSite `json:"sites"`
}

func toJSONUser(u *ProfileUser) jsonUser {
	out := jsonUser{
		FormatVersion: jsonFormatVersion,
		UserName:      u.UserName,
		Identicon:     base64.StdEncoding.EncodeToString(u.Identicon[:]),
		KeyID:         base64.StdEncoding.EncodeToString(u.KeyID[:]),
		Algorithm:     uint32(u.Algorithm),
		Redacted:      u.Redacted,
		LoginType:     u.LoginType.String(),
		LoginState:    u.LoginState,
		LastUsed:      u.LastUsed,
		Sites:         make([]jsonSite, len(u.Sites)),
	}

	for i, s := range u.Sites {
		js := jsonSite{
			SiteName:    s.SiteName,
			ResultType:  s.ResultType.String(),
			ResultState: s.ResultState,
			Counter:     uint32(s.Counter),
			Algorithm:   uint32(s.Algorithm),
			LoginType:   s.LoginType.String(),
			LoginState:  s.LoginState,
			URL:         s.URL,
			Uses:        s.Uses,
			LastUsed:    s.LastUsed,
			Questions:   make([]jsonQuestion, len(s.Questions)),
		}
		for j, q := range s.Questions {
			js.Questions[j] = jsonQuestion{
				Keyword:      q.Keyword,
				QuestionType: q.QuestionType.String(),
				State:        q.State,
			}
		}
		out.Sites[i] = js
	}

	if u.Redacted {
		redactJSONUser(&out)
	}

	return out
}

// redactJSONUser implements spec.md §4.4's redaction policy: a redacted
// profile's JSON omits per-site plaintext (site names, stored state, URLs,
// question keywords/state) while preserving user-level metadata and
// per-site telemetry (counter, algorithm, use count, timestamps) so the
// file alone reveals only aggregate shape, never which sites exist.
func redactJSONUser(u *jsonUser) {
	for i := range u.Sites {
		u.Sites[i].SiteName = ""
		u.Sites[i].ResultState = ""
		u.Sites[i].LoginState = ""
		u.Sites[i].URL = ""
		for j := range u.Sites[i].Questions {
			u.Sites[i].Questions[j].Keyword = ""
			u.Sites[i].Questions[j].State = ""
		}
	}
}

func fromJSONUser(in jsonUser) (*ProfileUser, error) {
	identicon, err := decodeFixedBytes(in.Identicon, 4)
	if err != nil {
		return nil, wrapError("json", "malformed identicon", err)
	}
	keyID, err := decodeFixedBytes(in.KeyID, 32)
	if err != nil {
		return nil, wrapError("json", "malformed key_id", err)
	}

	loginType, err := ParseResultType(in.LoginType)
	if err != nil {
		loginType = ResultNone
	}

	u := &ProfileUser{
		UserName:   in.UserName,
		Algorithm:  Algorithm(in.Algorithm),
		Redacted:   in.Redacted,
		LoginType:  loginType,
		LoginState: in.LoginState,
		LastUsed:   in.LastUsed,
		Sites:      make([]ProfileSite, len(in.Sites)),
	}
	copy(u.Identicon[:], identicon)
	copy(u.KeyID[:], keyID)

	for i, js := range in.Sites {
		resultType, err := ParseResultType(js.ResultType)
		if err != nil {
			return nil, err
		}
		loginType, err := ParseResultType(js.LoginType)
		if err != nil {
			loginType = ResultNone
		}

		site := ProfileSite{
			SiteName:    js.SiteName,
			ResultType:  resultType,
			ResultState: js.ResultState,
			Counter:     Counter(js.Counter),
			Algorithm:   Algorithm(js.Algorithm),
			LoginType:   loginType,
			LoginState:  js.LoginState,
			URL:         js.URL,
			Uses:        js.Uses,
			LastUsed:    js.LastUsed,
			Questions:   make([]ProfileQuestion, len(js.Questions)),
		}
		for j, jq := range js.Questions {
			questionType, err := ParseResultType(jq.QuestionType)
			if err != nil {
				return nil, err
			}
			site.Questions[j] = ProfileQuestion{
				Keyword:      jq.Keyword,
				QuestionType: questionType,
				State:        jq.State,
			}
		}
		u.Sites[i] = site
	}

	return u, nil
}

func decodeFixedBytes(s string, n int) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, newError("json", "unexpected byte length")
	}
	return b, nil
}

// ReadProfile loads a profile from path. A missing file is not an error:
// it returns a nil profile with ok=false and a nil error, distinguishing
// "no profile yet" from a read/parse failure (spec.md §4.4); the caller
// creates the fresh profile. JSON is tried
// first; on JSON failure it falls through to the legacy flat reader.
func ReadProfile(path string) (user *ProfileUser, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, IOError(err)
	}

	var in jsonUser
	if jsonErr := json.Unmarshal(data, &in); jsonErr == nil {
		u, err := fromJSONUser(in)
		if err != nil {
			return nil, false, err
		}
		return u, true, nil
	}

	u, err := readFlatProfile(data)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// WriteProfile persists user to path in the given format, creating parent
// directories as needed and replacing the file atomically (spec.md §4.4).
// FormatNone is a no-op: ephemeral profiles are never written to disk.
func WriteProfile(path string, format Format, user *ProfileUser) error {
	if format == FormatNone {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return IOError(err)
	}

	var contents []byte
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(toJSONUser(user), "", "  ")
		if err != nil {
			return JSONError(err)
		}
		contents = data
	case FormatFlat:
		return writeFlatProfile(path, user)
	default:
		return InvalidFileFormatError(format.String())
	}

	if err := atomicfile.WriteFile(path, contents, 0o600); err != nil {
		return IOError(err)
	}
	return nil
}
