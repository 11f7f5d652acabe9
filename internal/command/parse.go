package command

import (
	"strings"
	"unicode"
)

// ParseArgs splits a command line into arguments. Double quotes group words
// into one argument, a backslash escapes the next character, and runs of
// whitespace separate arguments.
//
//	start "VCT PACIFIC" Gen.G PRX  ->  [start, VCT PACIFIC, Gen.G, PRX]
func ParseArgs(text string) []string {
	var args [][]rune
	inQuote := false
	escapeNext := false
	newArgNext := false

	appendToLast := func(c rune) {
		if len(args) == 0 {
			args = append(args, []rune{c})
			return
		}
		args[len(args)-1] = append(args[len(args)-1], c)
	}

	for _, c := range text {
		switch {
		case escapeNext:
			appendToLast(c)
			escapeNext = false
		case c == '"':
			inQuote = !inQuote
		case unicode.IsSpace(c):
			if inQuote {
				appendToLast(c)
			} else {
				newArgNext = true
			}
		case c == '\\':
			escapeNext = true
		default:
			if newArgNext {
				args = append(args, []rune{c})
				newArgNext = false
			} else {
				appendToLast(c)
			}
		}
	}

	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = string(arg)
	}
	return out
}

// QuoteArg wraps an argument in double quotes when it needs them to survive
// ParseArgs unchanged. Used when echoing outcome names back in usage examples.
func QuoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsFunc(arg, unicode.IsSpace) && !strings.ContainsAny(arg, `"\`) {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, c := range arg {
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	b.WriteByte('"')
	return b.String()
}
