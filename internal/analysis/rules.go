// Package analysis is the demo vulnerability engine behind the analysis
// service: pattern detection, canned explanations, fixes, kill-chain
// simulation and compliance scoring.
package analysis

import (
	"regexp"
	"strings"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// Vulnerability types
const (
	TypeSQLInjection            = "SQL_INJECTION"
	TypeXSS                     = "XSS"
	TypeHardcodedSecret         = "HARDCODED_SECRET"
	TypeInsecureDeserialization = "INSECURE_DESERIALIZATION"
	TypeWeakCrypto              = "WEAK_CRYPTO"
	TypePathTraversal           = "PATH_TRAVERSAL"
	TypeCommandInjection        = "COMMAND_INJECTION"
	TypeMissingAuth             = "MISSING_AUTH"
)

// Rule is a detection rule. Patterns are matched line by line, case
// insensitively.
type Rule struct {
	Type     string
	Severity models.Severity
	OWASP    string
	Title    string
	Patterns []*regexp.Regexp
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// DefaultRules are evaluated in order; findings keep rule, pattern and line order
var DefaultRules = []Rule{
	{
		Type:     TypeSQLInjection,
		Severity: models.SeverityCritical,
		OWASP:    "A03:2021 - Injection",
		Title:    "SQL Injection vulnerability detected",
		Patterns: patterns(`execute\(.*\+`, `SELECT.*\+.*FROM`, `SELECT.*"\s*\+`, `WHERE.*\+`, `cursor\.execute\(.*%`),
	},
	{
		Type:     TypeXSS,
		Severity: models.SeverityHigh,
		OWASP:    "A03:2021 - Injection",
		Title:    "Cross-Site Scripting (XSS) vulnerability detected",
		Patterns: patterns(`innerHTML\s*=`, `document\.write\(`, `eval\(`, `dangerouslySetInnerHTML`),
	},
	{
		Type:     TypeHardcodedSecret,
		Severity: models.SeverityCritical,
		OWASP:    "A07:2021 - Identification and Authentication Failures",
		Title:    "Hardcoded credentials detected",
		Patterns: patterns(`password\s*=\s*["'][^"']`, `api[_-]?key\s*=\s*["'][^"']`, `secret\s*=\s*["'][^"']`, `token\s*=\s*["'][^"']`),
	},
	{
		Type:     TypeInsecureDeserialization,
		Severity: models.SeverityCritical,
		OWASP:    "A08:2021 - Software and Data Integrity Failures",
		Title:    "Insecure deserialization detected",
		Patterns: patterns(`pickle\.loads`, `yaml\.load\(`, `eval\(`, `exec\(`),
	},
	{
		Type:     TypeWeakCrypto,
		Severity: models.SeverityMedium,
		OWASP:    "A02:2021 - Cryptographic Failures",
		Title:    "Weak cryptographic algorithm detected",
		Patterns: patterns(`MD5`, `SHA1`, `DES`, `random\.random\(`),
	},
	{
		Type:     TypePathTraversal,
		Severity: models.SeverityHigh,
		OWASP:    "A01:2021 - Broken Access Control",
		Title:    "Path traversal vulnerability detected",
		Patterns: patterns(`open\(.*\+`, `os\.path\.join\(.*request`, `readFile\(.*\+`),
	},
	{
		Type:     TypeCommandInjection,
		Severity: models.SeverityCritical,
		OWASP:    "A03:2021 - Injection",
		Title:    "Command injection vulnerability detected",
		Patterns: patterns(`os\.system\(.*\+`, `subprocess\.call\(.*\+`, `exec\(.*shell`),
	},
	{
		Type:     TypeMissingAuth,
		Severity: models.SeverityHigh,
		OWASP:    "A01:2021 - Broken Access Control",
		Title:    "Missing authentication check detected",
		// a route handler with no decorator or middleware marker after it
		Patterns: patterns(`app\.get\([^@]*\)[^@]*$`),
	},
}

// Finding is a raw pattern match before explanation
type Finding struct {
	Type        string
	Severity    models.Severity
	Title       string
	OWASP       string
	LineNumber  int
	CodeSnippet string
	Pattern     string
}

// Detect runs rules over code. Every matching (rule, pattern, line) triple
// yields a finding, so one line can be reported more than once.
func Detect(code string, rules []Rule) []Finding {
	lines := strings.Split(code, "\n")
	var findings []Finding
	for _, rule := range rules {
		for _, re := range rule.Patterns {
			for i, line := range lines {
				if !re.MatchString(line) {
					continue
				}
				findings = append(findings, Finding{
					Type:        rule.Type,
					Severity:    rule.Severity,
					Title:       rule.Title,
					OWASP:       rule.OWASP,
					LineNumber:  i + 1,
					CodeSnippet: strings.TrimSpace(line),
					Pattern:     re.String(),
				})
			}
		}
	}
	return findings
}
