package db

import (
	"strconv"
	"strings"
)

// MatchAll is the query that matches every document of an index.
const MatchAll = "*"

// Integer bounds are rendered with strconv, never %g: counters and unix
// microseconds exceed the precision of the exponent form.

// Eq matches numeric field == v.
func Eq(field string, v int64) string {
	n := strconv.FormatInt(v, 10)
	return "@" + field + ":[" + n + " " + n + "]"
}

// Lt matches numeric field < v.
func Lt(field string, v int64) string {
	return "@" + field + ":[-inf (" + strconv.FormatInt(v, 10) + "]"
}

// Lte matches numeric field <= v.
func Lte(field string, v int64) string {
	return "@" + field + ":[-inf " + strconv.FormatInt(v, 10) + "]"
}

// Gt matches numeric field > v.
func Gt(field string, v int64) string {
	return "@" + field + ":[(" + strconv.FormatInt(v, 10) + " +inf]"
}

// Gte matches numeric field >= v.
func Gte(field string, v int64) string {
	return "@" + field + ":[" + strconv.FormatInt(v, 10) + " +inf]"
}

// TagIn matches a TAG field equal to any of values.
func TagIn(field string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return "@" + field + ":{" + strings.Join(escaped, " | ") + "}"
}

// Text matches all terms of text in a TEXT field.
func Text(field, text string) string {
	return "@" + field + ":(" + queryEscaper.Replace(text) + ")"
}

// And intersects clauses. Empty clauses are skipped; no clauses yields MatchAll.
func And(clauses ...string) string {
	parts := nonEmpty(clauses)
	switch len(parts) {
	case 0:
		return MatchAll
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " ") + ")"
	}
}

// Or unions clauses. Empty clauses are skipped; no clauses yields "".
func Or(clauses ...string) string {
	parts := nonEmpty(clauses)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " | ") + ")"
	}
}

func nonEmpty(clauses []string) []string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" && c != MatchAll {
			parts = append(parts, c)
		}
	}
	return parts
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
