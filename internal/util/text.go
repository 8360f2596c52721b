package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces      = regexp.MustCompile(`\s+`)
	reHeaderSep   = regexp.MustCompile(`[\s\-/.]+`)
	rePlaceholder = regexp.MustCompile(`\{\{?\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}?\}`)
)

func NormalizeSpaces(input string) string {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// NormalizeHeader turns a sheet column title into a lookup key:
// "Event Name" -> "event_name".
func NormalizeHeader(input string) string {
	s := strings.ToLower(NormalizeSpaces(input))
	s = reHeaderSep.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Placeholders returns the distinct placeholder names of a template in order
// of first appearance. Both {name} and {{name}} are recognized.
func Placeholders(template string) []string {
	matches := rePlaceholder.FindAllStringSubmatch(template, -1)
	out := make([]string, 0, len(matches))
	seen := map[string]struct{}{}
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func UniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func ContainsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
