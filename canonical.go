package uritemplate

import (
	"regexp"
	"strings"
	"unicode"
)

// legacyLengthBrace matches the "$5{" form of a length-prefixed legacy
// field.
var legacyLengthBrace = regexp.MustCompile(`\$([0-9]+)\{`)

// MakeCanonical rewrites the legacy notations of a template into the
// canonical "$(code;qualifiers)" form:
//
//	%{Y,m=02}*.dat  ->  $(Y;m=02)$x.dat
//	${Y}/${m}       ->  $(Y)/$(m)
//	$5{Y}           ->  $5(Y)
//	data_*.dat      ->  data_$x.dat
//
// "%" is only treated as the field marker when the template contains
// no "$". Commas that separate qualifiers inside parentheses are
// converted to semicolons when the template is compiled; here only
// the first field is fixed up.
func MakeCanonical(template string) string {
	wildcard := strings.Contains(template, "*")
	oldSpec := strings.Contains(template, "${")
	oldSpec2 := legacyLengthBrace.MatchString(template)
	if strings.HasPrefix(template, "$") && !wildcard && !oldSpec && !oldSpec2 {
		return template
	}

	if strings.Contains(template, "%") && !strings.Contains(template, "$") {
		template = strings.ReplaceAll(template, "%", "$")
	}

	oldSpec = strings.Contains(template, "${")
	oldSpec2 = legacyLengthBrace.MatchString(template)
	if oldSpec && !strings.Contains(template, "$(") {
		template = strings.ReplaceAll(template, "${", "$(")
		template = strings.ReplaceAll(template, "}", ")")
	}
	if oldSpec2 && !strings.Contains(template, "$(") {
		template = legacyLengthBrace.ReplaceAllString(template, "$$${1}(")
		template = strings.ReplaceAll(template, "}", ")")
	}
	if wildcard {
		template = strings.ReplaceAll(template, "*", "$x")
	}

	if !strings.HasPrefix(template, "$") {
		return template
	}
	i := 1
	if i < len(template) && template[i] == '(' {
		i++
	}
	for i < len(template) && unicode.IsLetter(rune(template[i])) {
		i++
	}
	if i < len(template) && template[i] == ',' {
		template = template[:i] + ";" + template[i+1:]
	}
	return template
}

// makeQualifiersCanonical converts the commas that separate
// qualifiers into semicolons, leaving the commas that are part of a
// qualifier value alone:
//
//	(subsec,places=4)               ->  (subsec;places=4)
//	(enum,values=01,02,03,id=foo)   ->  (enum;values=01,02,03;id=foo)
//	(hrinterval;names=01,02,03,04)  ->  unchanged
//
// The first delimiter after the field code decides: a semicolon means
// the qualifiers are already canonical. Otherwise, scanning backwards,
// a comma becomes a semicolon only when a "=" has been seen since the
// previous separator.
func makeQualifiersCanonical(qualifiers string) string {
	if !strings.ContainsAny(qualifiers, ",;") {
		return qualifiers
	}

	result := []byte(qualifiers)
	istart := 1
	for ; istart < len(result); istart++ {
		if result[istart] == ';' {
			return qualifiers
		}
		if result[istart] == ',' {
			result[istart] = ';'
			break
		}
	}

	expectSemi := false
	for i := len(result) - 1; i > istart; i-- {
		switch result[i] {
		case '=':
			expectSemi = true
		case ',':
			if expectSemi {
				result[i] = ';'
				expectSemi = false
			}
		case ';':
			expectSemi = false
		}
	}
	return string(result)
}
