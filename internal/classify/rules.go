package classify

import "regexp"

// defaultMaxGain mirrors config.DefaultMaxGain; the app wires the manifest
// value through WithMaxGain so the two cannot drift in a running instance.
const defaultMaxGain = 10

// denyRule is one entry of the ordered denylist: a pattern for a
// known-dangerous construct and the message reported when it matches.
type denyRule struct {
	re      *regexp.Regexp
	message string
}

// apply returns one Blocking finding per match of the rule.
func (r denyRule) apply(source string) []Finding {
	var findings []Finding
	for _, m := range r.re.FindAllStringIndex(source, -1) {
		findings = append(findings, Finding{
			Severity: Blocking,
			Message:  r.message,
			Line:     lineOf(source, m[0]),
		})
	}
	return findings
}

// denyRules is evaluated in order, every rule independently. The list is a
// fixed data table: adding a rule must never require new control flow.
var denyRules = []denyRule{
	{regexp.MustCompile(`while\s*\(\s*(?:true|1)\s*\)`), "unbounded loop: while(true)"},
	{regexp.MustCompile(`for\s*\(\s*;\s*;\s*\)`), "unbounded loop: for(;;)"},
	{regexp.MustCompile(`\beval\s*\(`), "dynamic code evaluation: eval()"},
	{regexp.MustCompile(`\bnew\s+Function\s*\(`), "dynamic code evaluation: new Function()"},
	{regexp.MustCompile(`\bFunction\s*\(\s*["'\x60]`), "dynamic code evaluation: Function constructor"},
	{regexp.MustCompile(`\bimport\s*\(`), "dynamic module loading: import()"},
	{regexp.MustCompile(`\brequire\s*\(`), "dynamic module loading: require()"},
	{regexp.MustCompile(`\bprocess\s*\.`), "host process access"},
	{regexp.MustCompile(`\bchild_process\b`), "host process access: child_process"},
	{regexp.MustCompile(`\bfs\s*\.\s*\w`), "filesystem access"},
	{regexp.MustCompile(`\bfetch\s*\(`), "network access: fetch()"},
	{regexp.MustCompile(`\bXMLHttpRequest\b`), "network access: XMLHttpRequest"},
	{regexp.MustCompile(`\bWebSocket\s*\(`), "network access: WebSocket"},
	{regexp.MustCompile(`\blocalStorage\b`), "browser storage access: localStorage"},
	{regexp.MustCompile(`\bsessionStorage\b`), "browser storage access: sessionStorage"},
	{regexp.MustCompile(`\bindexedDB\b`), "browser storage access: indexedDB"},
	{regexp.MustCompile(`\bdocument\s*\.`), "document access"},
	{regexp.MustCompile(`\.\s*cookie\b`), "cookie access"},
	{regexp.MustCompile(`\bglobalThis\b`), "global object access"},
}

// gainAssignRe feeds the numeric gain rule in classify.go: group 1 is the
// property name, group 2 the assigned value.
var gainAssignRe = regexp.MustCompile(`\.\s*(gain|amp|volume|loudness)\s*=\s*(\d+(?:\.\d+)?)`)

// allowRules name the domain vocabulary. Matching any of them marks the
// script as plausibly on-topic; matching none yields a single Advisory
// finding, never a block.
var allowRules = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:Synth|FM|Mono|Pluck|Sampler)\s*\(`),
	regexp.MustCompile(`\b(?:Freeverb|Delay|Distortion)\s*\(`),
	regexp.MustCompile(`\.\s*seq\s*\(`),
	regexp.MustCompile(`\.\s*(?:note|chord|freq)\b`),
	regexp.MustCompile(`\bLoom\s*\.`),
	regexp.MustCompile(`\btempo\b`),
}

func anyAllowMatch(source string) bool {
	for _, re := range allowRules {
		if re.MatchString(source) {
			return true
		}
	}
	return false
}
