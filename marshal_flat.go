package spectre

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// The legacy flat (.mpsites) format predates the JSON profile and is kept
// read-only (spec.md §9 Open Question: "the source contains stubs that
// reject read and write. A rewrite may legitimately provide read-only
// legacy support and refuse writes"). This reader follows the teacher's
// own tokenizing shape (golang.org/x/text/unicode/rangetable +
// strings.FieldsFunc, see _examples/antness-passwd/parse.go) with a tab
// rune in place of the teacher's '$' separator, since flat profiles are
// tab-delimited rather than '$'-delimited.
//
// Layout: a header block of "key: value" lines (terminated by a blank
// line) carrying user_name, key_id (base64), algorithm, and redacted, then
// one tab-separated row per site:
//
//	site_name<TAB>result_type<TAB>counter<TAB>algorithm<TAB>uses<TAB>last_used(RFC3339)<TAB>login_type<TAB>url

var flatFieldSeparator = rangetable.New('\t')

func flatToken(r rune) bool {
	return unicode.Is(flatFieldSeparator, r)
}

func readFlatProfile(data []byte) (*ProfileUser, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	header := map[string]string{}
	inHeader := true
	var sites []ProfileSite

	for scanner.Scan() {
		line := scanner.Text()

		if inHeader {
			if strings.TrimSpace(line) == "" {
				inHeader = false
				continue
			}
			key, value, found := strings.Cut(line, ":")
			if !found {
				return nil, InvalidFileFormatError("malformed flat header line")
			}
			header[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		site, err := parseFlatSiteLine(line)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	if err := scanner.Err(); err != nil {
		return nil, IOError(err)
	}

	userName, ok := header["user_name"]
	if !ok {
		return nil, InvalidFileFormatError("missing user_name in flat header")
	}
	keyIDBytes, err := decodeFixedBytes(header["key_id"], 32)
	if err != nil {
		return nil, wrapError("invalid_file_format", "malformed key_id in flat header", err)
	}
	algorithm, err := strconv.ParseUint(header["algorithm"], 10, 32)
	if err != nil {
		return nil, wrapError("invalid_file_format", "malformed algorithm in flat header", err)
	}

	u := &ProfileUser{
		UserName:  userName,
		Algorithm: Algorithm(algorithm),
		Redacted:  ParseBool(header["redacted"]),
		LastUsed:  time.Now().UTC(),
		Sites:     sites,
	}
	copy(u.KeyID[:], keyIDBytes)
	return u, nil
}

func parseFlatSiteLine(line string) (ProfileSite, error) {
	fields := strings.FieldsFunc(line, flatToken)
	if len(fields) < 6 {
		return ProfileSite{}, InvalidFileFormatError("malformed flat site row")
	}

	resultType, err := ParseResultType(fields[1])
	if err != nil {
		return ProfileSite{}, err
	}
	counter, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return ProfileSite{}, wrapError("invalid_file_format", "malformed counter in flat site row", err)
	}
	algorithm, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return ProfileSite{}, wrapError("invalid_file_format", "malformed algorithm in flat site row", err)
	}
	uses, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return ProfileSite{}, wrapError("invalid_file_format", "malformed uses in flat site row", err)
	}
	lastUsed, err := time.Parse(time.RFC3339, fields[5])
	if err != nil {
		return ProfileSite{}, wrapError("invalid_file_format", "malformed last_used in flat site row", err)
	}

	site := ProfileSite{
		SiteName:   fields[0],
		ResultType: resultType,
		Counter:    Counter(counter),
		Algorithm:  Algorithm(algorithm),
		Uses:       uint32(uses),
		LastUsed:   lastUsed,
		LoginType:  ResultNone,
	}
	if len(fields) > 6 {
		if loginType, err := ParseResultType(fields[6]); err == nil {
			site.LoginType = loginType
		}
	}
	if len(fields) > 7 {
		site.URL = fields[7]
	}
	return site, nil
}

// writeFlatProfile always fails: the flat format is read-only legacy
// support (spec.md §9).
func writeFlatProfile(_ string, _ *ProfileUser) error {
	return InvalidFileFormatError("flat format writing is not supported; use json")
}
