// Package linkcheck normalizes free-form user input into an absolute URL and
// decides whether that URL may be shortened.
package linkcheck

import (
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/sadopc/chop/internal/errkind"
)

// MaxLength is the longest normalized URL accepted, in characters.
const MaxLength = 2048

// Reason is the outcome of Check.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonEmpty
	ReasonTooLong
	ReasonMalformed
	ReasonScheme
	ReasonPrivateHost
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonEmpty:
		return "empty"
	case ReasonTooLong:
		return fmt.Sprintf("longer than %d characters", MaxLength)
	case ReasonMalformed:
		return "not a well-formed absolute URL"
	case ReasonScheme:
		return "scheme must be http or https"
	case ReasonPrivateHost:
		return "local and private network hosts are not allowed"
	default:
		return "unknown"
	}
}

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	hostRegex    = regexp.MustCompile(`^([a-zA-Z0-9_]([a-zA-Z0-9_\-]{0,61}[a-zA-Z0-9_])?\.)*[a-zA-Z0-9_]([a-zA-Z0-9_\-]{0,61}[a-zA-Z0-9_])?\.?$`)
	numericLabel = regexp.MustCompile(`^(0[xX][0-9a-fA-F]*|[0-9]+)$`)
	aliasRegex   = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

	// Lookup rules without STD3, so underscores survive as they do in
	// browsers.
	hostProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false), idna.BidiRule())

	privatePrefixes = []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.168.0.0/16"),
	}
)

// Normalize trims input and prefixes https:// unless it already starts with
// http:// or https:// in any letter case.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return s
	}
	if !schemePrefix.MatchString(s) {
		s = "https://" + s
	}
	return s
}

// IsValid reports whether a normalized URL may be shortened.
func IsValid(candidate string) bool {
	return Check(candidate) == ReasonOK
}

// Check returns the first rule candidate violates, or ReasonOK.
func Check(candidate string) Reason {
	if strings.TrimSpace(candidate) == "" {
		return ReasonEmpty
	}
	if !utf8.ValidString(candidate) {
		return ReasonMalformed
	}
	if utf8.RuneCountInString(candidate) > MaxLength {
		return ReasonTooLong
	}

	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() || u.Opaque != "" {
		return ReasonMalformed
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ReasonScheme
	}

	host := u.Hostname()
	if host == "" || strings.HasSuffix(u.Host, ":") {
		return ReasonMalformed
	}
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err != nil || n < 1 || n > 65535 {
			return ReasonMalformed
		}
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if isPrivateAddr(addr) {
			return ReasonPrivateHost
		}
		return ReasonOK
	}

	ascii, err := hostProfile.ToASCII(host)
	if err != nil || !hostRegex.MatchString(ascii) {
		return ReasonMalformed
	}

	// Shorthand IPv4 forms (127.1, 0x7f.1, 2130706433) are not dotted quads
	// but resolve to addresses anyway.
	labels := strings.Split(strings.TrimSuffix(ascii, "."), ".")
	if numericLabel.MatchString(labels[len(labels)-1]) {
		return ReasonMalformed
	}

	lower := strings.ToLower(strings.TrimSuffix(ascii, "."))
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return ReasonPrivateHost
	}
	return ReasonOK
}

func isPrivateAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsUnspecified() {
		return true
	}
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// CheckAlias validates an optional custom alias. Empty means no alias.
func CheckAlias(alias string) error {
	if alias == "" {
		return nil
	}
	if !aliasRegex.MatchString(alias) {
		return errkind.New(errkind.InvalidAlias, "check alias", fmt.Errorf("alias %q does not match %s", alias, aliasRegex))
	}
	return nil
}

// Prepare normalizes input and returns the canonical URL, or an error tagged
// errkind.EmptyInput or errkind.InvalidURL.
func Prepare(input string) (string, error) {
	normalized := Normalize(input)
	switch r := Check(normalized); r {
	case ReasonOK:
		return normalized, nil
	case ReasonEmpty:
		return "", errkind.New(errkind.EmptyInput, "check url", nil)
	default:
		return "", errkind.New(errkind.InvalidURL, "check url", fmt.Errorf("%s", r))
	}
}
