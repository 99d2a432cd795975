package sandbox

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/soundloom/soundloom/internal/ctxlog"
)

// The tracking scans re-read the original source text instead of
// introspecting the VM, so only literal `name = Ctor(...)` declarations and
// literal `name.target.seq([...],[...])` calls are recognized. A script that
// builds an instrument through a helper is simply not tracked. That is the
// documented contract: tracking is best-effort metadata, never a correctness
// requirement of the script itself.

// seqCallRe finds `name.target.seq(` invocations; argument extraction follows
// from the opening parenthesis.
var seqCallRe = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\.\s*([A-Za-z_$][\w$]*)\s*\.\s*seq\s*\(`)

// track registers the instruments and sequences a successful script declared.
// Every extraction failure is skipped silently.
func (c *Core) track(ctx context.Context, source string) {
	logger := ctxlog.FromContext(ctx)

	declRe := declarationPattern(c.registry.VoiceTypes())
	instruments := make(map[string]string) // binding name -> instrument id

	if declRe != nil {
		for _, m := range declRe.FindAllStringSubmatch(source, -1) {
			name, kind := m[1], m[2]
			// Rebinding the same name: the later declaration wins for
			// sequence attribution, the earlier instrument entry stays.
			inst := c.store.RegisterInstrument(name, kind, nil)
			instruments[name] = inst.ID
			logger.Debug("Tracked instrument declaration.", "name", name, "kind", kind)
		}
	}

	for _, m := range seqCallRe.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		target := source[m[4]:m[5]]
		instrumentID, ok := instruments[name]
		if !ok {
			continue
		}
		values, timings, ok := parseSeqArguments(source[m[1]:])
		if !ok {
			continue
		}
		c.store.RegisterSequence(instrumentID, target, values, timings)
		logger.Debug("Tracked sequence call.", "instrument", name, "target", target)
	}
}

// declarationPattern builds the `name = Ctor(...)` matcher for the registered
// voice constructors. Nil when no voices are registered.
func declarationPattern(voiceTypes []string) *regexp.Regexp {
	if len(voiceTypes) == 0 {
		return nil
	}
	escaped := make([]string, len(voiceTypes))
	for i, t := range voiceTypes {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(
		`(?m)(?:^|[;{]\s*)\s*(?:const\s+|let\s+|var\s+)?([A-Za-z_$][\w$]*)\s*=\s*(` +
			strings.Join(escaped, "|") + `)\s*\(`)
}

// parseSeqArguments extracts the first two bracketed arrays after a seq call:
// the value list and the timing list. Timings must parse as numbers (plain or
// a/b fractions); values are kept opaque, parsed as numbers or quoted strings
// where possible and as raw text otherwise.
func parseSeqArguments(rest string) (values []any, timings []float64, ok bool) {
	first, rest, ok := nextArray(rest)
	if !ok {
		return nil, nil, false
	}
	second, _, ok := nextArray(rest)
	if !ok {
		return nil, nil, false
	}

	for _, raw := range splitElements(first) {
		values = append(values, parseValue(raw))
	}
	for _, raw := range splitElements(second) {
		f, ok := parseNumber(raw)
		if !ok {
			return nil, nil, false
		}
		timings = append(timings, f)
	}
	if len(values) == 0 || len(timings) == 0 {
		return nil, nil, false
	}
	return values, timings, true
}

// nextArray returns the contents of the next top-level [...] literal and the
// tail following it. Scanning stops at a statement end before any bracket.
func nextArray(s string) (inner, rest string, ok bool) {
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			start = i
		case ';', '\n', ')':
			if start < 0 {
				return "", "", false
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start+1 : i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// splitElements splits array contents on top-level commas.
func splitElements(s string) []string {
	var elems []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				elems = append(elems, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	tail := strings.TrimSpace(s[last:])
	if tail != "" {
		elems = append(elems, tail)
	}
	return elems
}

// parseValue keeps sequence values opaque: numbers where they parse, quoted
// strings unquoted, anything else as raw text.
func parseValue(raw string) any {
	if f, ok := parseNumber(raw); ok {
		return f
	}
	if len(raw) >= 2 {
		if q := raw[0]; (q == '\'' || q == '"' || q == '`') && raw[len(raw)-1] == q {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// parseNumber accepts plain literals and a/b beat fractions.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	num, den, found := strings.Cut(raw, "/")
	if !found {
		return 0, false
	}
	n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
	d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
