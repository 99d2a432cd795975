package classify

import (
	"strconv"
	"strings"

	"github.com/dop251/goja/parser"
)

// Severity ranks a finding. Blocking findings stop execution; advisory
// findings are surfaced but never block.
type Severity int

const (
	Blocking Severity = iota
	Advisory
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case Blocking:
		return "blocking"
	case Advisory:
		return "advisory"
	default:
		return "unknown"
	}
}

// Finding is one classifier observation about a script.
type Finding struct {
	Severity Severity
	Message  string
	// Line is the 1-based source line of the match, or 0 when the finding
	// applies to the script as a whole.
	Line int
}

// Verdict is the classifier's result. Acceptable is true exactly when no
// finding is Blocking.
type Verdict struct {
	Acceptable bool
	Findings   []Finding
}

// BlockingMessages returns the messages of every Blocking finding, in order.
func (v Verdict) BlockingMessages() []string {
	var msgs []string
	for _, f := range v.Findings {
		if f.Severity == Blocking {
			msgs = append(msgs, f.Message)
		}
	}
	return msgs
}

// Classifier scans raw script text against a fixed rule set. It is a
// heuristic gate, not a proof of safety: unrecognized dangerous constructs
// pass and legitimate code can trip a pattern. Both are accepted trade-offs;
// the hard wall-clock cutoff in the execution core backs this gate up.
type Classifier struct {
	maxGain float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMaxGain overrides the gain-assignment threshold (default 10).
func WithMaxGain(limit float64) Option {
	return func(c *Classifier) {
		if limit > 0 {
			c.maxGain = limit
		}
	}
}

// New creates a Classifier with the fixed rule tables and the given options.
func New(opts ...Option) *Classifier {
	c := &Classifier{maxGain: defaultMaxGain}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scans the source and returns a verdict. It never fails: every
// problem it can see becomes a finding.
func (c *Classifier) Classify(source string) Verdict {
	if strings.TrimSpace(source) == "" {
		return verdictOf([]Finding{{
			Severity: Blocking,
			Message:  "empty source: nothing to execute",
		}})
	}

	var findings []Finding

	for _, rule := range denyRules {
		findings = append(findings, rule.apply(source)...)
	}
	findings = append(findings, c.applyGainRule(source)...)

	if !anyAllowMatch(source) {
		findings = append(findings, Finding{
			Severity: Advisory,
			Message:  "no domain-specific constructs found",
		})
	}

	if _, err := parser.ParseFile(nil, "script.js", source, 0); err != nil {
		findings = append(findings, Finding{
			Severity: Blocking,
			Message:  "syntax error: " + err.Error(),
		})
	}

	return verdictOf(findings)
}

// applyGainRule flags any gain-like assignment at or above the threshold.
// The pattern is numeric, so each match needs its value parsed rather than a
// plain presence check.
func (c *Classifier) applyGainRule(source string) []Finding {
	var findings []Finding
	for _, m := range gainAssignRe.FindAllStringSubmatchIndex(source, -1) {
		property := source[m[2]:m[3]]
		raw := source[m[4]:m[5]]
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < c.maxGain {
			continue
		}
		findings = append(findings, Finding{
			Severity: Blocking,
			Message:  "excessive " + property + " assignment: " + raw + " exceeds the safe limit",
			Line:     lineOf(source, m[0]),
		})
	}
	return findings
}

func verdictOf(findings []Finding) Verdict {
	acceptable := true
	for _, f := range findings {
		if f.Severity == Blocking {
			acceptable = false
			break
		}
	}
	return Verdict{Acceptable: acceptable, Findings: findings}
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(source string, offset int) int {
	return 1 + strings.Count(source[:offset], "\n")
}
