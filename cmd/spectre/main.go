// Command spectre is the stateless password manager's command-line shell:
// a thin adapter wiring CLI arguments and environment variables into a
// single credential derivation (spec.md §6.1).
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creachadair/getpass"
	"github.com/rs/zerolog"

	"github.com/zeroows/spectre"
)

func main() {
	opts := new(options)
	fs := flag.NewFlagSet("spectre", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: spectre [options] [site-name]")
		fs.PrintDefaults()
	}
	bindFlags(fs, opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if err := run(fs.Args(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "spectre:", err)
		os.Exit(1)
	}
}

// options mirrors the flag surface of spec.md §6.1. Every field that has a
// long name is bound twice onto the same flag.FlagSet: once under its long
// name, once under its single-letter alias, both registered against the
// same variable so either spelling updates the same field; -n, -v and -q
// have only their single-letter form. (The pack's dependency manifests
// list github.com/creachadair/flax and github.com/creachadair/command as
// candidates for this, but neither ships source in the pack to confirm
// their exact binding API, so this CLI sticks to the standard library's
// flag package rather than guess at an unverified surface — see DESIGN.md.)
type options struct {
	UserName       string
	UserNameUpdate string
	SecretFD       int
	Secret         string
	ResultType     string
	ResultParam    string
	Counter        uint
	Algorithm      string
	Purpose        string
	Context        string
	Format         string
	FormatFixed    string
	Redacted       string
	NoNewline      bool

	verbose countFlag
	quiet   countFlag
}

// countFlag implements flag.Value, incrementing once per occurrence: the
// conventional Go idiom for repeatable -v/-q style flags.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }
func (c *countFlag) Set(string) error {
	*c++
	return nil
}
func (c *countFlag) IsBoolFlag() bool { return true } // allows bare -v (no argument)

func bindFlags(fs *flag.FlagSet, opts *options) {
	both := func(dst *string, long, short, def, usage string) {
		*dst = def
		fs.StringVar(dst, long, def, usage)
		fs.StringVar(dst, short, def, "see -"+long)
	}

	both(&opts.UserName, "user-name", "u", "", "full name (or $SPECTRE_USERNAME)")
	both(&opts.UserNameUpdate, "user-name-update", "U", "", "full name; re-authenticate with the old secret to rotate to a new one")
	both(&opts.Secret, "secret", "S", "", "personal secret on the command line (insecure)")
	both(&opts.ResultType, "result-type", "t", "", "result type: max/long/medium/basic/short/pin/name/phrase/key/personal")
	both(&opts.ResultParam, "result-param", "P", "", "login name, key size, or personal plaintext")
	both(&opts.Algorithm, "algorithm", "a", "", "algorithm version 0-3 (or $SPECTRE_ALGORITHM)")
	both(&opts.Purpose, "purpose", "p", "auth", "key purpose: auth/ident/rec")
	both(&opts.Context, "context", "C", "", "purpose-specific context (e.g. recovery question keyword)")
	both(&opts.Format, "format", "f", "", "file format: none/flat/json, with fallback (or $SPECTRE_FORMAT)")
	both(&opts.FormatFixed, "format-fixed", "F", "", "file format: none/flat/json, no fallback")
	both(&opts.Redacted, "redacted", "R", "1", "save profile in redacted form (1/true/yes/y/on)")

	fs.IntVar(&opts.SecretFD, "secret-fd", -1, "read personal secret from this file descriptor")
	fs.IntVar(&opts.SecretFD, "s", -1, "see -secret-fd")

	fs.UintVar(&opts.Counter, "counter", 1, "site counter")
	fs.UintVar(&opts.Counter, "c", 1, "see -counter")

	fs.BoolVar(&opts.NoNewline, "n", false, "omit the trailing newline")

	fs.Var(&opts.verbose, "v", "increase verbosity (repeatable)")
	fs.Var(&opts.quiet, "q", "decrease verbosity (repeatable)")
}

// run executes exactly one derivation, per spec.md §4.6.
func run(args []string, opts *options) error {
	verbosity := int(opts.verbose) - int(opts.quiet)
	logger := newLogger(verbosity)

	userName, allowUpdate, err := resolveUserName(opts)
	if err != nil {
		return err
	}

	secret, err := resolveSecret(opts, verbosity)
	if err != nil {
		return err
	}
	defer zeroString(&secret)

	siteName, err := resolveSiteName(args)
	if err != nil {
		return err
	}

	resultType, err := spectre.ParseResultType(opts.ResultType)
	if err != nil {
		return err
	}
	purpose, err := spectre.ParseKeyPurpose(opts.Purpose)
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts)
	if err != nil {
		return err
	}
	algorithm, err := resolveAlgorithm(opts)
	if err != nil {
		return err
	}
	redacted := spectre.ParseBool(opts.Redacted)

	op := &operation{
		userName:    userName,
		userSecret:  secret,
		siteName:    siteName,
		resultType:  resultType,
		resultParam: opts.ResultParam,
		counter:     spectre.Counter(opts.Counter),
		algorithm:   algorithm,
		purpose:     purpose,
		context:     opts.Context,
		format:      format,
		redacted:    redacted,
		noNewline:   opts.NoNewline,
		allowUpdate: allowUpdate,
		verbosity:   verbosity,
		log:         logger,
	}

	return op.execute()
}

func resolveUserName(opts *options) (name string, allowUpdate bool, err error) {
	if opts.UserNameUpdate != "" {
		return opts.UserNameUpdate, true, nil
	}
	if opts.UserName != "" {
		return opts.UserName, false, nil
	}
	if env := os.Getenv("SPECTRE_USERNAME"); env != "" {
		return env, false, nil
	}
	name, err = getpass.Prompt("Your full name:")
	if err != nil {
		return "", false, spectre.IOError(err)
	}
	if name == "" {
		return "", false, spectre.MissingFieldError("user name")
	}
	return name, false, nil
}

func resolveSecret(opts *options, verbosity int) (string, error) {
	switch {
	case opts.Secret != "":
		if verbosity >= 0 {
			fmt.Fprintln(os.Stderr, "Warning: passing secrets via command-line is insecure!")
		}
		return opts.Secret, nil
	case opts.SecretFD >= 0:
		return readSecretFD(opts.SecretFD)
	default:
		secret, err := getpass.Prompt("Your personal secret:")
		if err != nil {
			return "", spectre.IOError(err)
		}
		if secret == "" {
			return "", spectre.MissingFieldError("personal secret")
		}
		return secret, nil
	}
}

func resolveSiteName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	site, err := getpass.Prompt("Site domain:")
	if err != nil {
		return "", spectre.IOError(err)
	}
	if site == "" {
		return "", spectre.MissingFieldError("site name")
	}
	return site, nil
}

func resolveFormat(opts *options) (spectre.Format, error) {
	raw := opts.FormatFixed
	if raw == "" {
		raw = opts.Format
	}
	if raw == "" {
		raw = os.Getenv("SPECTRE_FORMAT")
	}
	if raw == "" {
		return spectre.FormatDefault, nil
	}
	format, ok := spectre.ParseFormat(raw)
	if !ok {
		if opts.FormatFixed == "" {
			return spectre.FormatDefault, nil
		}
		return 0, spectre.InvalidFileFormatError(raw)
	}
	return format, nil
}

func resolveAlgorithm(opts *options) (spectre.Algorithm, error) {
	raw := opts.Algorithm
	if raw == "" {
		raw = os.Getenv("SPECTRE_ALGORITHM")
	}
	if raw == "" {
		return spectre.AlgorithmCurrent, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, spectre.InvalidAlgorithmError(spectre.Algorithm(0))
	}
	algorithm := spectre.Algorithm(v)
	if !algorithm.Valid() {
		return 0, spectre.InvalidAlgorithmError(algorithm)
	}
	return algorithm, nil
}

func zeroString(s *string) {
	b := []byte(*s)
	for i := range b {
		b[i] = 0
	}
	*s = ""
}

func newLogger(verbosity int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity <= -1:
		level = zerolog.Disabled
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
