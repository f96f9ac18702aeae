package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	accountsPrefix  = "accounts/"
	locationsPrefix = "locations/"
)

// NormalizeAccountName turns "123", "accounts/123" or a nested
// "accounts/123/locations/9" into the canonical "accounts/123".
// It returns "" when no account id is present.
func NormalizeAccountName(raw string) string {
	s := trimResource(raw)
	if rest, ok := strings.CutPrefix(s, accountsPrefix); ok {
		id, _, _ := strings.Cut(rest, "/")
		return qualify(accountsPrefix, id)
	}
	return qualify(accountsPrefix, bareID(s))
}

// NormalizeLocationName turns "456", "locations/456" or
// "accounts/1/locations/456" into "locations/456".
func NormalizeLocationName(raw string) string {
	s := trimResource(raw)
	if rest, ok := strings.CutPrefix(s, locationsPrefix); ok {
		id, _, _ := strings.Cut(rest, "/")
		return qualify(locationsPrefix, id)
	}
	if i := strings.Index(s, "/"+locationsPrefix); i >= 0 && strings.HasPrefix(s, accountsPrefix) {
		id, _, _ := strings.Cut(s[i+1+len(locationsPrefix):], "/")
		return qualify(locationsPrefix, id)
	}
	return qualify(locationsPrefix, bareID(s))
}

// LocationResourceName builds the v4 name "accounts/{a}/locations/{l}".
// A location that is already fully qualified is returned unchanged.
func LocationResourceName(account, location string) string {
	loc := strings.TrimRight(trimResource(location), "/")
	if acc := NormalizeAccountName(loc); acc != "" && strings.HasPrefix(loc, accountsPrefix) {
		if l := NormalizeLocationName(loc); l != "" {
			return acc + "/" + l
		}
	}
	acc := NormalizeAccountName(account)
	l := NormalizeLocationName(loc)
	if acc == "" || l == "" {
		return ""
	}
	return acc + "/" + l
}

// ResourceID returns the last path segment of a resource name
func ResourceID(name string) string {
	s := strings.TrimRight(trimResource(name), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// trimResource drops surrounding whitespace and leading slashes. Trailing
// slashes stay so "accounts/" is not mistaken for a bare id.
func trimResource(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "/")
}

// bareID accepts a lone id, rejecting paths and the collection tokens
func bareID(s string) string {
	s = strings.TrimRight(s, "/")
	if strings.Contains(s, "/") || s == "accounts" || s == "locations" {
		return ""
	}
	return s
}

func qualify(prefix, id string) string {
	if id == "" || id == "accounts" || id == "locations" {
		return ""
	}
	return prefix + id
}

// Slugify folds s into lower-kebab-case ASCII-friendly form.
// "Café Déjà Vu!" becomes "cafe-deja-vu".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
