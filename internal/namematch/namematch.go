// Package namematch normalizes creature names and derives the ordered list of
// lookup candidates used by the image cache and the image map.
package namematch

import (
	"regexp"
	"strings"
)

var (
	strippedPattern   = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	dragonAges        = []string{"wyrmling", "young", "adult", "ancient"}
	dragonColors      = map[string]bool{
		"black": true, "blue": true, "green": true, "red": true, "white": true,
		"brass": true, "bronze": true, "copper": true, "gold": true, "silver": true,
		"shadow": true,
	}
)

// Normalize lower-cases name, strips everything outside [a-z0-9\s], collapses
// whitespace and trims. Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = strippedPattern.ReplaceAllString(n, "")
	n = whitespacePattern.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// Slug turns a name into the file-safe form used for blob paths.
func Slug(name string) string {
	return strings.ReplaceAll(Normalize(name), " ", "-")
}

// Transform derives lookup candidates from an already-normalized name.
type Transform struct {
	Name  string
	Apply func(normalized string) []string
}

// Transforms are applied in this order; earlier candidates win.
var Transforms = []Transform{
	{Name: "exact", Apply: func(n string) []string { return []string{n} }},
	{Name: "strip_the", Apply: func(n string) []string { return []string{stripThe(n)} }},
	{Name: "plural_flip", Apply: func(n string) []string { return []string{togglePlural(stripThe(n))} }},
	{Name: "last_word", Apply: func(n string) []string { return []string{lastWord(stripThe(n))} }},
	{Name: "dragon", Apply: func(n string) []string { return dragonVariants(stripThe(n)) }},
}

// Variations returns the de-duplicated candidates for name in priority order.
// A name that normalizes to "" has no candidates.
func Variations(name string) []string {
	n := Normalize(name)
	if n == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, t := range Transforms {
		for _, candidate := range t.Apply(n) {
			if candidate == "" || seen[candidate] {
				continue
			}
			seen[candidate] = true
			out = append(out, candidate)
		}
	}
	return out
}

func stripThe(n string) string {
	return strings.TrimPrefix(n, "the ")
}

func togglePlural(n string) string {
	if n == "" {
		return ""
	}
	if strings.HasSuffix(n, "s") {
		return strings.TrimSuffix(n, "s")
	}
	return n + "s"
}

func lastWord(n string) string {
	fields := strings.Fields(n)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

// dragonVariants maps the age/color naming of chromatic and metallic dragons
// onto their siblings: "ancient red dragon" -> "red dragon", "red dragon
// wyrmling" -> "red dragon", "young red" -> "young red dragon", and a bare
// "red dragon" tries each age.
func dragonVariants(n string) []string {
	fields := strings.Fields(n)
	color := ""
	for _, f := range fields {
		if dragonColors[f] {
			color = f
			break
		}
	}
	if color == "" {
		return nil
	}

	base := color + " dragon"
	hasDragon := strings.Contains(n, "dragon")
	age := ""
	for _, a := range dragonAges {
		for _, f := range fields {
			if f == a {
				age = a
			}
		}
	}

	var out []string
	switch {
	case hasDragon && age != "":
		out = append(out, base)
	case !hasDragon && age != "":
		if age == "wyrmling" {
			out = append(out, base+" wyrmling", base)
		} else {
			out = append(out, age+" "+base, base)
		}
	case hasDragon:
		for _, a := range dragonAges {
			if a == "wyrmling" {
				out = append(out, base+" wyrmling")
				continue
			}
			out = append(out, a+" "+base)
		}
	}
	return out
}
