// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher checks a string value against a condition.
type Matcher interface {
	Match(value string) error
	Description() string
}

// Contains matches values containing the substring.
func Contains(substring string) Matcher {
	return containsMatcher{substring}
}

// HasPrefix matches values starting with the prefix.
func HasPrefix(prefix string) Matcher {
	return prefixMatcher{prefix}
}

// Equals matches values exactly.
func Equals(expected string) Matcher {
	return equalsMatcher{expected}
}

// MatchesPattern matches values against a regular expression.
func MatchesPattern(pattern string) Matcher {
	return patternMatcher{regexp.MustCompile(pattern)}
}

type containsMatcher struct {
	substring string
}

func (m containsMatcher) Match(value string) error {
	if !strings.Contains(value, m.substring) {
		return fmt.Errorf("%q does not contain %q", value, m.substring)
	}
	return nil
}

func (m containsMatcher) Description() string {
	return fmt.Sprintf("contains %q", m.substring)
}

type prefixMatcher struct {
	prefix string
}

func (m prefixMatcher) Match(value string) error {
	if !strings.HasPrefix(value, m.prefix) {
		return fmt.Errorf("%q does not start with %q", value, m.prefix)
	}
	return nil
}

func (m prefixMatcher) Description() string {
	return fmt.Sprintf("starts with %q", m.prefix)
}

type equalsMatcher struct {
	expected string
}

func (m equalsMatcher) Match(value string) error {
	if value != m.expected {
		return fmt.Errorf("%q != %q", value, m.expected)
	}
	return nil
}

func (m equalsMatcher) Description() string {
	return fmt.Sprintf("equals %q", m.expected)
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(value string) error {
	if !m.re.MatchString(value) {
		return fmt.Errorf("%q does not match %s", value, m.re)
	}
	return nil
}

func (m patternMatcher) Description() string {
	return fmt.Sprintf("matches %s", m.re)
}
