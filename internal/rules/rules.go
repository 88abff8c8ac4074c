// Package rules holds the ordered spam heuristics. The list is data: callers
// can enumerate it and Evaluate reports which rule fired first.
package rules

import (
	"regexp"

	"spamcheck/internal/domain"
)

const (
	RuleDirectory        = "directory"
	RuleCentralOffice555 = "pattern-555"
	RuleRepeatedDigits   = "pattern-repeated-digits"
	RuleTollFree800      = "pattern-800"
	RulePremium900       = "pattern-900"
	RuleLongForm         = "pattern-long-form"
	RuleReputationPrefix = "reputation-prefix"
	RuleTooShort         = "too-short"
	RuleCommunityReports = "community-reports"
)

// DefaultSpamReportThreshold is the community count that must be exceeded.
const DefaultSpamReportThreshold = 2

// minSubscriberDigits is the shortest plausible subscriber number.
const minSubscriberDigits = 7

var (
	centralOffice555Re = regexp.MustCompile(`^[2-9]\d{2}555\d{4}$`)
	tollFree800Re      = regexp.MustCompile(`^1?800\d{7}$`)
	premium900Re       = regexp.MustCompile(`^1?900\d{7}$`)
	// Matches most 10-digit NANP numbers. Kept broad on purpose.
	longFormRe = regexp.MustCompile(`^1?[2-9]\d{2}\d{7}$`)
)

var reputationPrefixes = map[string]bool{
	"800": true,
	"888": true,
	"877": true,
	"866": true,
	"855": true,
	"844": true,
	"900": true,
	"976": true,
}

type DirectoryLookup interface {
	Lookup(canonical string) (domain.DirectoryEntry, bool)
}

type ReportLookup interface {
	Get(canonical string) (domain.ReportRecord, bool)
}

// Env is what the rules may consult besides the number itself. Nil lookups
// never match.
type Env struct {
	Directory           DirectoryLookup
	Reports             ReportLookup
	SpamReportThreshold int
}

type Rule struct {
	Name  string
	Match func(env Env, canonical string) bool
}

// Default returns the rules in evaluation order.
func Default() []Rule {
	return []Rule{
		{Name: RuleDirectory, Match: inDirectory},
		{Name: RuleCentralOffice555, Match: matchRe(centralOffice555Re)},
		{Name: RuleRepeatedDigits, Match: func(_ Env, n string) bool { return repeatedDigits(n) }},
		{Name: RuleTollFree800, Match: matchRe(tollFree800Re)},
		{Name: RulePremium900, Match: matchRe(premium900Re)},
		{Name: RuleLongForm, Match: matchRe(longFormRe)},
		{Name: RuleReputationPrefix, Match: func(_ Env, n string) bool { return len(n) >= 3 && reputationPrefixes[n[:3]] }},
		{Name: RuleTooShort, Match: func(_ Env, n string) bool { return len(n) < minSubscriberDigits }},
		{Name: RuleCommunityReports, Match: communityReports},
	}
}

// Evaluate runs rules in order and stops at the first match.
func Evaluate(rules []Rule, env Env, canonical string) (string, bool) {
	for _, r := range rules {
		if r.Match(env, canonical) {
			return r.Name, true
		}
	}
	return "", false
}

// Matching lists every rule that matches, in order. Used for diagnostics.
func Matching(rules []Rule, env Env, canonical string) []string {
	var names []string
	for _, r := range rules {
		if r.Match(env, canonical) {
			names = append(names, r.Name)
		}
	}
	return names
}

func inDirectory(env Env, n string) bool {
	if env.Directory == nil {
		return false
	}
	_, ok := env.Directory.Lookup(n)
	return ok
}

func communityReports(env Env, n string) bool {
	if env.Reports == nil {
		return false
	}
	rec, ok := env.Reports.Get(n)
	return ok && rec.SpamReports > env.SpamReportThreshold
}

func matchRe(re *regexp.Regexp) func(Env, string) bool {
	return func(_ Env, n string) bool { return re.MatchString(n) }
}

// repeatedDigits reports whether the number opens with one digit repeated at
// least seven times. Trailing digits are allowed.
func repeatedDigits(n string) bool {
	if len(n) < 7 {
		return false
	}
	for i := 0; i < 7; i++ {
		if n[i] < '0' || n[i] > '9' || n[i] != n[0] {
			return false
		}
	}
	for i := 7; i < len(n); i++ {
		if n[i] < '0' || n[i] > '9' {
			return false
		}
	}
	return true
}
