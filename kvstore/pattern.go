/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvstore

import (
	"strings"

	"github.com/gobwas/glob"
)

// CompilePattern compiles a Redis KEYS pattern. `*` also matches ':' and braces
// are literal, as in Redis.
func CompilePattern(pattern string) (glob.Glob, error) {
	p := strings.NewReplacer("{", `\{`, "}", `\}`).Replace(pattern)
	return glob.Compile(p)
}

// LiteralPrefix returns the part of pattern before its first wildcard.
func LiteralPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
