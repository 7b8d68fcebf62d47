package styles

import "strings"

// NoneStyle is the name the host UI uses for "no style selected".
const NoneStyle = "none"

// IsValidStyleName reports whether name can identify a style.
// Empty strings, "-" and "none" (any case, surrounding whitespace ignored)
// are the "off" values of the host UI and are not valid names.
// This is a pure function with no side effects.
func IsValidStyleName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "-", NoneStyle:
		return false
	}
	return true
}

// IsValidStyleValue is IsValidStyleName for loosely typed widget values.
// Any value that is not a string is invalid.
func IsValidStyleValue(v any) bool {
	name, ok := v.(string)
	return ok && IsValidStyleName(name)
}

// NormalizeStyleName returns the canonical form of a style name, or "" when
// the name is not valid.
//
// The canonical form has no surrounding whitespace and is not wrapped in a
// matching pair of single or double quotes. Stripping is recursive: quote
// pairs are removed and the remainder re-trimmed until none is left, so
// `"' Retro '"` and `''Retro''` both become "Retro". Mismatched quotes are
// kept:
//
//	NormalizeStyleName(" 'Retro' ")  // "Retro"
//	NormalizeStyleName(`"Retro"`)    // "Retro"
//	NormalizeStyleName(`'Retro"`)    // `'Retro"`
//	NormalizeStyleName("NONE")       // ""
//
// The result is always a fixed point: normalizing it again returns it unchanged.
func NormalizeStyleName(name string) string {
	for {
		if !IsValidStyleName(name) {
			return ""
		}
		name = strings.TrimSpace(name)

		inner, quoted := unquote(name)
		if !quoted {
			return name
		}
		name = inner
	}
}

// NormalizeStyleValue is NormalizeStyleName for loosely typed widget values.
// Values that are not strings normalize to "".
func NormalizeStyleValue(v any) string {
	name, ok := v.(string)
	if !ok {
		return ""
	}
	return NormalizeStyleName(name)
}

// unquote strips one matching pair of quotes from s.
// A lone quote character counts as a degenerate pair around nothing.
func unquote(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	q := s[0]
	if q != '\'' && q != '"' {
		return s, false
	}
	if len(s) == 1 {
		return "", true
	}
	if s[len(s)-1] != q {
		return s, false
	}
	return s[1 : len(s)-1], true
}

// nameKey is the case-insensitive key used to compare canonical names.
func nameKey(canonical string) string {
	return strings.ToLower(canonical)
}

// quoteName wraps a name in double quotes the way combo widgets list it.
func quoteName(name string) string {
	return `"` + name + `"`
}
