package schema

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/xeipuuv/gojsonschema"
)

// minPasswordUnits is the shortest signup password, measured in UTF-16
// code units so that clients counting string length agree with the server.
const minPasswordUnits = 6

// emailPattern accepts a bare dotted-atom address with a dotted domain and
// an alphabetic top-level label of at least two letters.
var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

// emailChecker replaces gojsonschema's "email" format, which accepts any
// RFC 5322 address including display names and dotless domains.
type emailChecker struct{}

func (emailChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		// Non-strings are left to the type keyword.
		return true
	}
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") || !emailPattern.MatchString(s) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

// passwordChecker backs the "password" format. JSON Schema minLength counts
// code points, so a password of astral characters would be measured short.
type passwordChecker struct{}

func (passwordChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	return len(utf16.Encode([]rune(s))) >= minPasswordUnits
}

func init() {
	gojsonschema.FormatCheckers.Add("email", emailChecker{})
	gojsonschema.FormatCheckers.Add("password", passwordChecker{})
}
