package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creachadair/getpass"
	"github.com/rs/zerolog"

	"github.com/zeroows/spectre"
)

// operation bundles one resolved invocation of the CLI: every flag parsed
// and defaulted, ready to run the single derivation in spec.md §4.6's
// "read profile, authenticate, derive, persist, print" order. It plays the
// role original_source/src/bin/main.rs's execute_operation function plays
// in the reference implementation.
type operation struct {
	userName    string
	userSecret  string
	siteName    string
	resultType  spectre.ResultType
	resultParam string
	counter     spectre.Counter
	algorithm   spectre.Algorithm
	purpose     spectre.KeyPurpose
	context     string
	format      spectre.Format
	redacted    bool
	noNewline   bool
	allowUpdate bool
	verbosity   int
	log         zerolog.Logger
}

func (op *operation) execute() error {
	if !spectre.ValidGenerationInputs(op.userName, op.userSecret, op.siteName) {
		return spectre.MissingFieldError("user name, secret, and site name must meet their minimum lengths")
	}

	path, hasPath := spectre.ProfilePath(op.userName, op.format)

	var (
		profile *spectre.ProfileUser
		loaded  bool
	)
	if hasPath {
		var err error
		profile, loaded, err = spectre.ReadProfile(path)
		if err != nil {
			return err
		}
	}

	userKey, resolved, err := op.resolveIdentity(profile, loaded)
	if err != nil {
		return err
	}
	profile = resolved
	defer userKey.Zero()

	if op.verbosity >= 1 {
		identicon, idErr := spectre.DeriveIdenticon(op.userName, op.userSecret)
		if idErr == nil {
			fmt.Fprintf(os.Stderr, "%s  %s\n", op.userName, identicon.Render())
		}
	}

	resultType := op.resultType
	if resultType == spectre.ResultNone {
		resultType = spectre.ResultDefault
	}

	site := profile.FindSite(op.siteName)
	var resultParam string
	if resultType.IsStateful() {
		resultParam, err = op.resolveStatefulParam(userKey, site)
		if err != nil {
			return err
		}
	} else {
		resultParam = op.resultParam
	}

	result, err := spectre.SiteResult(userKey, op.siteName, resultType, resultParam, op.counter, op.purpose, op.context)
	if err != nil {
		return err
	}

	if err := op.recordUse(profile, resultType, userKey); err != nil {
		return err
	}

	if hasPath {
		if err := spectre.WriteProfile(path, op.format, profile); err != nil {
			return err
		}
		if op.verbosity >= 1 {
			fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
		}
	}

	if op.noNewline {
		fmt.Print(result)
	} else {
		fmt.Println(result)
	}
	return nil
}

// resolveIdentity authenticates against an existing profile, or mints a
// fresh one. When -U (allowUpdate) is given and the existing profile's
// secret no longer matches, the profile's identity is rotated onto the new
// (name, secret) pair while its site history is preserved, mirroring the
// reference CLI's user-name-update flow (original_source/src/bin/main.rs).
func (op *operation) resolveIdentity(profile *spectre.ProfileUser, loaded bool) (*spectre.UserKey, *spectre.ProfileUser, error) {
	if !loaded {
		userKey, err := spectre.DeriveUserKey(op.userName, op.userSecret, op.algorithm)
		if err != nil {
			return nil, nil, err
		}
		identicon, err := spectre.DeriveIdenticon(op.userName, op.userSecret)
		if err != nil {
			return nil, nil, err
		}
		fresh := spectre.NewProfileUser(op.userName, identicon, userKey.KeyID, op.algorithm)
		fresh.Redacted = op.redacted
		return userKey, fresh, nil
	}

	userKey, err := profile.Authenticate(op.userSecret)
	if err == nil {
		return userKey, profile, nil
	}
	if !errors.Is(err, spectre.ErrUserSecretMismatch) || !op.allowUpdate {
		return nil, nil, err
	}

	fmt.Fprintln(os.Stderr, "Personal secret mismatch. Please confirm old secret to update.")
	oldSecret, err := getpass.Prompt("Old personal secret:")
	if err != nil {
		return nil, nil, spectre.IOError(err)
	}
	defer zeroString(&oldSecret)

	if _, err := profile.Authenticate(oldSecret); err != nil {
		return nil, nil, err
	}

	newKey, deriveErr := spectre.DeriveUserKey(op.userName, op.userSecret, op.algorithm)
	if deriveErr != nil {
		return nil, nil, deriveErr
	}
	identicon, idErr := spectre.DeriveIdenticon(op.userName, op.userSecret)
	if idErr != nil {
		return nil, nil, idErr
	}
	profile.UserName = op.userName
	profile.KeyID = newKey.KeyID
	profile.Algorithm = op.algorithm
	profile.Identicon = identicon
	return newKey, profile, nil
}

// existingState returns the stored ciphertext a stateful result type would
// read on a repeat use, routed by purpose the way execute_operation reads
// site.result_state/login_state/question.state (main.rs:325-345): the
// Authentication result, the Identification login, or the Recovery
// question keyed by op.context.
func (op *operation) existingState(site *spectre.ProfileSite) string {
	if site == nil {
		return ""
	}
	switch op.purpose {
	case spectre.PurposeIdentification:
		return site.LoginState
	case spectre.PurposeRecovery:
		if q := site.FindQuestion(op.context); q != nil {
			return q.State
		}
		return ""
	default:
		return site.ResultState
	}
}

// resolveStatefulParam produces the plaintext for a stateful result type:
// the caller-supplied value on first use, or the decrypted stored state on
// subsequent uses (spec.md §4.3.4).
func (op *operation) resolveStatefulParam(userKey *spectre.UserKey, site *spectre.ProfileSite) (string, error) {
	if op.resultParam != "" {
		return op.resultParam, nil
	}
	state := op.existingState(site)
	if state == "" {
		return "", spectre.MissingFieldError("result-param (required on first use of a stateful result type)")
	}
	return spectre.DecryptSiteState(userKey, op.siteName, state, op.counter, op.purpose, op.context)
}

// recordUse inserts or updates the site entry in profile, routing the
// result-type/login-type/recovery-question update and the stateful state
// write by op.purpose, matching execute_operation's purpose switch
// (main.rs:282-303, 325-345): Authentication updates result_type/counter
// and result_state; Identification updates only login_type/login_state;
// Recovery finds-or-creates the ProfileQuestion keyed by op.context and
// updates its question_type/state, leaving ResultType untouched.
func (op *operation) recordUse(profile *spectre.ProfileUser, resultType spectre.ResultType, userKey *spectre.UserKey) error {
	site := profile.FindSite(op.siteName)
	var rec spectre.ProfileSite
	if site != nil {
		rec = *site
	} else {
		rec = spectre.NewProfileSite(op.siteName, spectre.ResultNone, op.counter, op.algorithm)
	}

	rec.Algorithm = op.algorithm
	rec.Uses++
	rec.LastUsed = time.Now().UTC()

	var state string
	if resultType.IsStateful() && op.resultParam != "" {
		var err error
		state, err = spectre.EncryptSiteState(userKey, op.siteName, op.resultParam, op.counter, op.purpose, op.context)
		if err != nil {
			return err
		}
	}

	switch op.purpose {
	case spectre.PurposeIdentification:
		rec.LoginType = resultType
		if state != "" {
			rec.LoginState = state
		}
	case spectre.PurposeRecovery:
		rec.Counter = op.counter
		question := rec.FindQuestion(op.context)
		var q spectre.ProfileQuestion
		if question != nil {
			q = *question
		} else {
			q = spectre.ProfileQuestion{Keyword: op.context}
		}
		q.QuestionType = resultType
		if state != "" {
			q.State = state
		}
		rec.AddQuestion(q)
	default:
		rec.ResultType = resultType
		rec.Counter = op.counter
		if state != "" {
			rec.ResultState = state
		}
	}

	profile.AddSite(rec)
	return nil
}

// readSecretFD reads a personal secret from an already-open file
// descriptor (spec.md §6.1's -s/--secret-fd), trimming a single trailing
// newline the way a pipe or heredoc commonly supplies one.
func readSecretFD(fd int) (string, error) {
	f := os.NewFile(uintptr(fd), "secret-fd")
	if f == nil {
		return "", spectre.IOError(fmt.Errorf("invalid file descriptor: %d", fd))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", spectre.IOError(err)
		}
		return "", spectre.MissingFieldError("personal secret")
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}
