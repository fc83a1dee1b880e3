// SPDX-License-Identifier: MPL-2.0

package argv

import (
	"strings"

	"nimbus-cli/pkg/command"
)

// Separator ends option parsing. Tokens after it are passed through untouched.
const Separator = "--"

// IsOption reports whether tok looks like an option rather than a value.
// A lone "-" and negative numbers are values.
func IsOption(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok == Separator {
		return false
	}
	return !isNegativeNumber(tok)
}

// StripOptions returns the non-option tokens that precede the separator, in
// order. They are the path candidates for namespace resolution. Tokens that
// Parse would consume as the value of one of options are skipped as well: the
// token after a string option and a "true"/"false" literal after a boolean
// one.
func StripOptions(args []string, options []command.Option) []string {
	index := indexOptions(options)
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == Separator {
			break
		}
		if !IsOption(tok) {
			out = append(out, tok)
			continue
		}
		name, _, hasValue := splitOption(tok)
		opt, negated := lookup(index, name)
		if opt == nil || negated || hasValue || i+1 >= len(args) {
			continue
		}
		next := args[i+1]
		switch {
		case opt.IsBoolean():
			if isBoolLiteral(next) {
				i++
			}
		case next != Separator:
			i++
		}
	}
	return out
}

// DropPath removes the consumed path tokens from args. Each path token removes
// the first matching token after the previous removal; tokens after the
// separator are never removed.
func DropPath(args, path []string) []string {
	out := make([]string, 0, len(args))
	j := 0
	for i, tok := range args {
		if tok == Separator {
			out = append(out, args[i:]...)
			break
		}
		if j < len(path) && tok == path[j] && !IsOption(tok) {
			j++
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isNegativeNumber(tok string) bool {
	rest := strings.TrimPrefix(tok, "-")
	if rest == "" {
		return false
	}
	dot := false
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
