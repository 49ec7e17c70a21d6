// Package classifier guesses the source language of a code snippet from
// substring signatures. The guess is best-effort and never overrides a
// language the user picked explicitly.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// MinClassifyLength is the length a text must exceed before any rule is applied
const MinClassifyLength = 50

// Rule maps a set of substring signatures to a language. A rule matches when
// any one of its signatures occurs in the text.
type Rule struct {
	Language   models.Language
	Signatures []string
}

// Match reports whether text contains one of the rule's signatures
func (r Rule) Match(text string) bool {
	for _, sig := range r.Signatures {
		if strings.Contains(text, sig) {
			return true
		}
	}
	return false
}

// DefaultRules is the ordered rule list used by Classify. More specific
// signatures come first: the python rule matches any "import " line, so the
// go and java rules must be checked before it.
var DefaultRules = []Rule{
	{Language: models.LanguageGo, Signatures: []string{"package main", "func main(", ":= "}},
	{Language: models.LanguagePHP, Signatures: []string{"<?php", "$_GET[", "$_POST["}},
	{Language: models.LanguageJava, Signatures: []string{"public class", "import java"}},
	{Language: models.LanguagePython, Signatures: []string{"import flask", "def ", "import "}},
	{Language: models.LanguageJavaScript, Signatures: []string{"const ", "function", "require("}},
}

// Classifier applies an ordered rule list
type Classifier struct {
	rules []Rule
}

// New creates a classifier over rules, or DefaultRules when none are given
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the language of the first matching rule. It returns
// fallback when the text is too short to judge or nothing matches.
func (c *Classifier) Classify(text string, fallback models.Language) models.Language {
	if utf8.RuneCountInString(text) <= MinClassifyLength {
		return fallback
	}
	for _, rule := range c.rules {
		if rule.Match(text) {
			return rule.Language
		}
	}
	return fallback
}

var defaultClassifier = New()

// Classify runs the default rule list
func Classify(text string, fallback models.Language) models.Language {
	return defaultClassifier.Classify(text, fallback)
}
