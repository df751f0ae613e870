// Package language guesses the programming language of a code snippet by
// counting pattern matches per language.
package language

import (
	"regexp"
	"slices"
)

// Unknown is returned when no pattern matches.
const Unknown = "unknown"

type rule struct {
	name     string
	patterns []*regexp.Regexp
}

func compile(name string, patterns ...string) rule {
	r := rule{name: name, patterns: make([]*regexp.Regexp, len(patterns))}
	for i, p := range patterns {
		r.patterns[i] = regexp.MustCompile(`(?im)` + p)
	}
	return r
}

// rules is ordered; on equal scores the earlier language wins.
var rules = []rule{
	compile("python", `def\s+\w+\(`, `import\s+\w+`, `from\s+\w+\s+import`, `class\s+\w+:`, `if\s+__name__\s*==\s*['"]__main__['"]`),
	compile("javascript", `function\s+\w+\(`, `const\s+\w+\s*=`, `let\s+\w+\s*=`, `var\s+\w+\s*=`, `=>`, `console\.log`),
	compile("typescript", `interface\s+\w+`, `type\s+\w+\s*=`, `:\s*\w+\s*=`, `function\s+\w+\(.*\):\s*\w+`),
	compile("java", `public\s+class\s+\w+`, `public\s+static\s+void\s+main`, `import\s+java\.`, `@Override`),
	compile("cpp", `#include\s*<`, `int\s+main\s*\(`, `std::`, `cout\s*<<`, `cin\s*>>`),
	compile("c", `#include\s*<`, `int\s+main\s*\(`, `printf\s*\(`, `scanf\s*\(`),
	compile("csharp", `using\s+System`, `public\s+class\s+\w+`, `static\s+void\s+Main`, `Console\.WriteLine`),
	compile("go", `package\s+\w+`, `func\s+\w+\(`, `import\s*\(`, `fmt\.Print`),
	compile("rust", `fn\s+\w+\(`, `let\s+\w+\s*=`, `use\s+std::`, `println!`),
	compile("php", `<\?php`, `function\s+\w+\(`, `\$\w+\s*=`, `echo\s+`),
	compile("ruby", `def\s+\w+`, `class\s+\w+`, `require\s+`, `puts\s+`),
	compile("swift", `func\s+\w+\(`, `var\s+\w+\s*=`, `let\s+\w+\s*=`, `import\s+Foundation`),
	compile("kotlin", `fun\s+\w+\(`, `val\s+\w+\s*=`, `var\s+\w+\s*=`, `package\s+\w+`),
	compile("scala", `def\s+\w+\(`, `val\s+\w+\s*=`, `var\s+\w+\s*=`, `object\s+\w+`),
	compile("html", `<html`, `<head>`, `<body>`, `<div`, `<!DOCTYPE`),
	compile("css", `\w+\s*\{`, `:\s*\w+;`, `@media`, `#\w+\s*\{`),
	compile("sql", `SELECT\s+`, `FROM\s+\w+`, `WHERE\s+`, `INSERT\s+INTO`, `CREATE\s+TABLE`),
	compile("bash", `#!/bin/bash`, `echo\s+`, `if\s*\[`, `for\s+\w+\s+in`),
	compile("json", `^\s*\{`, `^\s*\[`, `"\w+"\s*:`, `:\s*"`),
	compile("xml", `<\?xml`, `<\w+.*>`, `</\w+>`),
	compile("yaml", `^\w+:`, `^\s*-\s+\w+`, `---`),
}

// Detect returns the language with the most pattern matches in code, or
// Unknown when nothing matches.
func Detect(code string) string {
	best, bestScore := Unknown, 0
	for _, r := range rules {
		if s := score(r, code); s > bestScore {
			best, bestScore = r.name, s
		}
	}
	return best
}

// Scores returns the match count for every supported language.
func Scores(code string) map[string]int {
	out := make(map[string]int, len(rules))
	for _, r := range rules {
		out[r.name] = score(r, code)
	}
	return out
}

func score(r rule, code string) int {
	n := 0
	for _, p := range r.patterns {
		n += len(p.FindAllStringIndex(code, -1))
	}
	return n
}

// Supported returns the supported language names in alphabetical order.
func Supported() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	slices.Sort(names)
	return names
}

// Confidence is "high" for a detected language and "low" for Unknown.
func Confidence(lang string) string {
	if lang == Unknown {
		return "low"
	}
	return "high"
}
