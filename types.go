package spectre

// Algorithm selects a historical Spectre derivation variant. Version 3 is
// current; versions 0-2 exist only for backward compatibility with older
// profiles and are not independently documented here (spec.md §1 scopes
// full coverage to the current variant).
type Algorithm uint32

const (
	AlgorithmFirst   Algorithm = 0
	AlgorithmCurrent Algorithm = 3
	AlgorithmLast    Algorithm = 3
)

// Valid reports whether a is within [AlgorithmFirst, AlgorithmLast].
func (a Algorithm) Valid() bool {
	return a >= AlgorithmFirst && a <= AlgorithmLast
}

// Counter salts a site key so that one site name can yield many independent
// credentials. Zero is reserved ("initial"); one is the conventional
// default.
type Counter uint32

const (
	CounterInitial Counter = 0
	CounterDefault Counter = 1
	CounterFirst   Counter = 0
	CounterLast    Counter = 1<<32 - 1
)

// KeyPurpose scopes a site key's salt so one site name yields independent
// credential families for login, authentication, and recovery.
type KeyPurpose int

const (
	PurposeAuthentication KeyPurpose = iota
	PurposeIdentification
	PurposeRecovery
)

var purposeScope = map[KeyPurpose]string{
	PurposeAuthentication: "com.lyndir.masterpassword",
	PurposeIdentification: "com.lyndir.masterpassword.login",
	PurposeRecovery:       "com.lyndir.masterpassword.answer",
}

var purposeName = map[KeyPurpose]string{
	PurposeAuthentication: "authentication",
	PurposeIdentification: "identification",
	PurposeRecovery:       "recovery",
}

// String returns the long-form purpose name.
func (p KeyPurpose) String() string {
	if name, ok := purposeName[p]; ok {
		return name
	}
	return "unknown"
}

// scope returns the purpose-specific salt prefix (spec.md §4.3.2).
func (p KeyPurpose) scope() string { return purposeScope[p] }

// ParseKeyPurpose accepts the short and long forms from spec.md §6.1.
func ParseKeyPurpose(s string) (KeyPurpose, error) {
	switch s {
	case "a", "auth", "authentication":
		return PurposeAuthentication, nil
	case "i", "ident", "identification":
		return PurposeIdentification, nil
	case "r", "rec", "recovery":
		return PurposeRecovery, nil
	default:
		return 0, InvalidKeyPurposeError(s)
	}
}

// ResultType is a closed sum of credential kinds. Template-based types
// assemble a credential from a fixed template table; stateful types carry
// user-supplied plaintext that the system encrypts at rest instead.
type ResultType uint32

const (
	ResultNone ResultType = 0x0

	ResultMaximum ResultType = 0x00010000
	ResultLong    ResultType = 0x00010001
	ResultMedium  ResultType = 0x00010002
	ResultShort   ResultType = 0x00010003
	ResultBasic   ResultType = 0x00010004
	ResultPIN     ResultType = 0x00010005
	ResultName    ResultType = 0x00010006
	ResultPhrase  ResultType = 0x00010007

	ResultPersonalPassword ResultType = 0x00020000
	ResultDeriveKey        ResultType = 0x00020001
)

// ResultDefault is the default result type when none is specified.
const ResultDefault = ResultLong

// IsStateful reports whether r's credential is user-supplied plaintext
// (encrypted at rest) rather than template-derived.
func (r ResultType) IsStateful() bool {
	return r == ResultPersonalPassword || r == ResultDeriveKey
}

var resultShortName = map[ResultType]string{
	ResultNone:             "none",
	ResultMaximum:          "maximum",
	ResultLong:             "long",
	ResultMedium:           "medium",
	ResultShort:            "short",
	ResultBasic:            "basic",
	ResultPIN:              "pin",
	ResultName:             "name",
	ResultPhrase:           "phrase",
	ResultPersonalPassword: "personal",
	ResultDeriveKey:        "key",
}

// String returns the short canonical name used in serialized profiles.
func (r ResultType) String() string {
	if name, ok := resultShortName[r]; ok {
		return name
	}
	return "unknown"
}

// ParseResultType accepts every short and long alias from spec.md §6.1.
func ParseResultType(s string) (ResultType, error) {
	switch s {
	case "x", "max", "maximum":
		return ResultMaximum, nil
	case "l", "long":
		return ResultLong, nil
	case "m", "medium":
		return ResultMedium, nil
	case "b", "basic":
		return ResultBasic, nil
	case "s", "short":
		return ResultShort, nil
	case "i", "pin":
		return ResultPIN, nil
	case "n", "name":
		return ResultName, nil
	case "p", "phrase":
		return ResultPhrase, nil
	case "K", "key":
		return ResultDeriveKey, nil
	case "P", "personal":
		return ResultPersonalPassword, nil
	case "", "none":
		return ResultNone, nil
	default:
		return 0, InvalidResultTypeError(s)
	}
}

// Format selects a persisted-profile serialization target.
type Format int

const (
	FormatNone Format = iota
	FormatFlat
	FormatJSON
)

// FormatDefault is used when the CLI and environment both leave the format
// unset.
const FormatDefault = FormatJSON

var formatName = map[Format]string{
	FormatNone: "none",
	FormatFlat: "flat",
	FormatJSON: "json",
}

var formatExtension = map[Format]string{
	FormatNone: "",
	FormatFlat: "mpsites",
	FormatJSON: "json",
}

// String returns the long-form format name.
func (f Format) String() string {
	if name, ok := formatName[f]; ok {
		return name
	}
	return "unknown"
}

// Extension returns the default file extension for f, or "" for FormatNone.
func (f Format) Extension() string { return formatExtension[f] }

// ParseFormat accepts the short and long forms from spec.md §6.1.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "n", "none":
		return FormatNone, true
	case "f", "flat":
		return FormatFlat, true
	case "j", "json":
		return FormatJSON, true
	default:
		return 0, false
	}
}

// ParseBool implements the CLI's loose boolean vocabulary for -R/--redacted
// (spec.md §6.1): "1", "true", "yes", "y", "on" are true; anything else is
// false.
func ParseBool(s string) bool {
	switch s {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
