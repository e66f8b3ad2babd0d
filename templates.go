package spectre

// Template tables and character classes below are bit-exact against the
// reference Spectre implementation (spec.md §4.2); the order within each
// table and each class is part of the on-the-wire compatibility surface
// and must never be reordered or reformatted.

var templatesByType = map[ResultType][]string{
	ResultMaximum: {
		"anoxxxxxxxxxxxxxxxxx",
		"axxxxxxxxxxxxxxxxxno",
	},
	ResultLong: {
		"CvcvnoCvcvCvcv",
		"CvcvCvcvnoCvcv",
		"CvcvCvcvCvcvno",
		"CvccnoCvcvCvcv",
		"CvccCvcvnoCvcv",
		"CvccCvcvCvcvno",
		"CvcvnoCvccCvcv",
		"CvcvCvccnoCvcv",
		"CvcvCvccCvcvno",
		"CvcvnoCvcvCvcc",
		"CvcvCvcvnoCvcc",
		"CvcvCvcvCvccno",
		"CvccnoCvccCvcv",
		"CvccCvccnoCvcv",
		"CvccCvccCvcvno",
		"CvcvnoCvccCvcc",
		"CvcvCvccnoCvcc",
		"CvcvCvccCvccno",
		"CvccnoCvcvCvcc",
		"CvccCvcvnoCvcc",
		"CvccCvcvCvccno",
	},
	ResultMedium: {
		"CvcnoCvc",
		"CvcCvcno",
	},
	ResultBasic: {
		"aaanaaan",
		"aannaaan",
		"aaannaaa",
	},
	ResultShort: {
		"Cvcn",
	},
	ResultPIN: {
		"nnnn",
	},
	ResultName: {
		"cvccvcvcv",
	},
	ResultPhrase: {
		"cvcc cvc cvccvcv cvc",
		"cvc cvccvcvcv cvcv",
		"cv cvccv cvc cvcvccv",
	},
}

// templatesFor returns the template table for a template-based result
// type. Stateful types and ResultNone have no templates.
func templatesFor(r ResultType) []string {
	return templatesByType[r]
}

// charClass maps a template token to its substitution alphabet. An empty
// class (the zero value, nil) means "emit the template character as-is".
func charClass(token rune) []byte {
	switch token {
	case 'V':
		return []byte("AEIOU")
	case 'C':
		return []byte("BCDFGHJKLMNPQRSTVWXYZ")
	case 'v':
		return []byte("aeiou")
	case 'c':
		return []byte("bcdfghjklmnpqrstvwxyz")
	case 'A':
		return []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	case 'a':
		return []byte("abcdefghijklmnopqrstuvwxyz")
	case 'n':
		return []byte("0123456789")
	case 'o':
		return []byte("@&%?,=[]_:-+*$#!'^~;()/.")
	case 'x':
		return []byte("abcdefghijklmnopqrstuvwxyz")
	case ' ':
		return []byte(" ")
	default:
		return nil
	}
}
