// Package imagesave writes generated images to the output directory with
// their prompt and workflow embedded as PNG text metadata.
package imagesave

import (
	"strconv"
	"strings"
	"time"
)

// SolveFilenameVariables expands %variables% in a filename prefix.
//
// Supported variables (names are case-insensitive):
//
//	%year% %month% %day% %hour% %minute% %second%
//	%date:FORMAT%   FORMAT tokens: yyyy yy MM dd hh mm ss
//	%%              a literal percent sign
//
// Tokens containing spaces are text, not variables. Unknown variables are
// kept verbatim, percent signs included, so later stages can expand them.
//
// Example:
//
//	SolveFilenameVariables("ZImage_%date:yyyy-MM-dd%", now) // "ZImage_2026-01-31"
func SolveFilenameVariables(filename string, now time.Time) string {
	var out strings.Builder
	nextIsVar := false

	for _, token := range strings.Split(filename, "%") {
		isVar := nextIsVar
		afterText := isVar
		if strings.Contains(token, " ") {
			isVar = false
		}

		if isVar {
			if value, ok := variableValue(token, now); ok {
				out.WriteString(value)
				nextIsVar = false
				continue
			}
		}

		if afterText {
			out.WriteByte('%')
		}
		out.WriteString(token)
		nextIsVar = true
	}
	return out.String()
}

func variableValue(name string, now time.Time) (string, bool) {
	switch strings.ToLower(name) {
	case "":
		return "%", true
	case "year":
		return strconv.Itoa(now.Year()), true
	case "month":
		return pad2(int(now.Month())), true
	case "day":
		return pad2(now.Day()), true
	case "hour":
		return pad2(now.Hour()), true
	case "minute":
		return pad2(now.Minute()), true
	case "second":
		return pad2(now.Second()), true
	}

	if len(name) >= 5 && strings.EqualFold(name[:5], "date:") {
		return formatDate(name[5:], now), true
	}
	return "", false
}

// formatDate expands the date tokens of a %date:FORMAT% variable.
// MM (month) and mm (minute) are case-sensitive; the others are not.
func formatDate(format string, now time.Time) string {
	year := strconv.Itoa(now.Year())
	v := IReplace(format, "yyyy", year, -1)
	v = IReplace(v, "yy", year[len(year)-2:], -1)
	v = strings.ReplaceAll(v, "MM", pad2(int(now.Month())))
	v = IReplace(v, "dd", pad2(now.Day()), -1)
	v = IReplace(v, "hh", pad2(now.Hour()), -1)
	v = strings.ReplaceAll(v, "mm", pad2(now.Minute()))
	v = IReplace(v, "ss", pad2(now.Second()), -1)
	return v
}

// IReplace replaces occurrences of old in text with new, ignoring case.
// A negative count replaces all occurrences. Text whose lowercase form has
// a different byte length is returned unchanged, as is an empty old.
// This is a pure function with no side effects.
func IReplace(text, old, new string, count int) string {
	if old == "" {
		return text
	}
	lowerText, lowerOld := strings.ToLower(text), strings.ToLower(old)
	if len(lowerText) != len(text) {
		return text
	}

	var out strings.Builder
	start := 0
	for count != 0 {
		i := strings.Index(lowerText[start:], lowerOld)
		if i < 0 {
			break
		}
		out.WriteString(text[start : start+i])
		out.WriteString(new)
		start += i + len(lowerOld)
		if count > 0 {
			count--
		}
	}
	out.WriteString(text[start:])
	return out.String()
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
