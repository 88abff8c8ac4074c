// Package classify combines the directory, the heuristic rules and the
// report ledger into a single spam verdict.
package classify

import (
	"spamcheck/internal/directory"
	"spamcheck/internal/phone"
	"spamcheck/internal/rules"
)

type Result struct {
	Verdict   bool
	Canonical string
	Location  string
	// Rule names the first rule that fired; empty when Verdict is false.
	Rule string
}

type Classifier struct {
	dir   *directory.Directory
	rules []rules.Rule
	env   rules.Env
}

// New builds a classifier over the default rule list. reports may be nil.
func New(dir *directory.Directory, reports rules.ReportLookup, spamReportThreshold int) *Classifier {
	return NewWithRules(dir, reports, spamReportThreshold, rules.Default())
}

// NewWithRules is New with an explicit rule list. A threshold <= 0 uses
// rules.DefaultSpamReportThreshold.
func NewWithRules(dir *directory.Directory, reports rules.ReportLookup, spamReportThreshold int, rs []rules.Rule) *Classifier {
	if spamReportThreshold <= 0 {
		spamReportThreshold = rules.DefaultSpamReportThreshold
	}
	env := rules.Env{SpamReportThreshold: spamReportThreshold}
	if dir != nil {
		env.Directory = dir
	}
	if reports != nil {
		env.Reports = reports
	}
	return &Classifier{dir: dir, rules: rs, env: env}
}

// Classify is total: any input, including empty, yields a result.
func (c *Classifier) Classify(raw string) Result {
	n := phone.Normalize(raw)
	rule, spam := rules.Evaluate(c.rules, c.env, n)
	return Result{
		Verdict:   spam,
		Canonical: n,
		Location:  c.dir.LocationFor(n),
		Rule:      rule,
	}
}

// Explain lists every rule that matches n, not only the first.
func (c *Classifier) Explain(canonical string) []string {
	return rules.Matching(c.rules, c.env, canonical)
}
