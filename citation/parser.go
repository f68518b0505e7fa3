// Package citation turns free-text statutory and regulatory citation strings
// into canonical reference URLs against the federal document link service.
package citation

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	linkService = "https://api.fdsys.gov/link"

	// U.S. Code title the source rows cite before reclassification.
	statutoryTitle = "2"

	// CFR title covering the regulations this pipeline handles.
	regulatoryTitle = "11"
)

var (
	// A section within a title: digits, optional lowercase letter, optional
	// literal -1 suffix (e.g. 441a-1).
	statuteRegex = regexp.MustCompile(`\d+([a-z](-1)?)?`)

	// A part optionally followed by dot-separated subsections. The repeated
	// group captures the last subsection, which is the one the link service
	// wants (a multi-level citation collapses to its trailing section).
	regulationRegex = regexp.MustCompile(`(\d+)(?:\.(\d+))*`)

	parenSpanRegex = regexp.MustCompile(`\([^)]*\)`)
)

// Ref tags diagnostics with the case and entity a citation string came from.
// It never influences parsing.
type Ref struct {
	CaseID   int64
	EntityID int64
}

// Reclassifier maps a pre-renumbering statutory citation onto its current
// title and section. Must be pure.
type Reclassifier func(title, section string) (string, string)

// Parser parses citation strings into reference URLs. The zero reclassifier
// passes citations through unchanged.
type Parser struct {
	reclassify Reclassifier
	log        *zap.Logger
}

// NewParser creates a citation parser.
func NewParser(reclassify Reclassifier, log *zap.Logger) *Parser {
	if reclassify == nil {
		reclassify = func(title, section string) (string, string) { return title, section }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{reclassify: reclassify, log: log}
}

// Statutory parses a statutory citation string into one URL per section
// match. Sections opening inside a parenthetical are cross-references, not
// independent citations, and are skipped. Non-empty input that yields no
// matches is reported; empty input is not.
func (p *Parser) Statutory(text string, ref Ref) []string {
	if text == "" {
		return nil
	}
	var urls []string
	for _, m := range matchesOutsideParens(statuteRegex, text) {
		title, section := p.reclassify(statutoryTitle, text[m[0]:m[1]])
		urls = append(urls, linkService+"?"+encodeOrdered(
			param{"collection", "uscode"},
			param{"year", "mostrecent"},
			param{"link-type", "html"},
			param{"title", title},
			param{"section", section},
		))
	}
	if len(urls) == 0 {
		p.log.Warn("cannot parse statutory citation",
			zap.String("citation", text),
			zap.Int64("entity_id", ref.EntityID),
			zap.Int64("case_id", ref.CaseID))
	}
	return urls
}

// Regulatory parses a regulatory citation string into one URL per part
// match, with the same parenthetical exclusion and diagnostic policy as
// Statutory. The sectionnum parameter appears only when the citation carried
// at least one subsection.
func (p *Parser) Regulatory(text string, ref Ref) []string {
	if text == "" {
		return nil
	}
	spans := parenSpanRegex.FindAllStringIndex(text, -1)
	var urls []string
	for _, m := range regulationRegex.FindAllStringSubmatchIndex(text, -1) {
		if excluded(spans, text, m[0]) {
			continue
		}
		params := []param{
			{"collection", "cfr"},
			{"year", "mostrecent"},
			{"titlenum", regulatoryTitle},
			{"partnum", text[m[2]:m[3]]},
		}
		if m[4] >= 0 {
			params = append(params, param{"sectionnum", text[m[4]:m[5]]})
		}
		urls = append(urls, linkService+"?"+encodeOrdered(params...))
	}
	if len(urls) == 0 {
		p.log.Warn("cannot parse regulatory citation",
			zap.String("citation", text),
			zap.Int64("entity_id", ref.EntityID),
			zap.Int64("case_id", ref.CaseID))
	}
	return urls
}

// matchesOutsideParens returns the spans of re's matches whose start is not
// parenthesized. RE2 has no look-behind, so the parenthetical exclusion is a
// post-filter over the raw matches.
func matchesOutsideParens(re *regexp.Regexp, text string) [][]int {
	spans := parenSpanRegex.FindAllStringIndex(text, -1)
	var out [][]int
	for _, m := range re.FindAllStringIndex(text, -1) {
		if excluded(spans, text, m[0]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// excluded reports whether a match starting at start falls inside a closed
// parenthesized span, or directly follows an unclosed open parenthesis.
func excluded(spans [][]int, text string, start int) bool {
	for _, s := range spans {
		if start > s[0] && start < s[1] {
			return true
		}
	}
	return start > 0 && text[start-1] == '('
}

type param struct{ key, value string }

// encodeOrdered encodes query parameters preserving insertion order;
// url.Values sorts keys, which would reshuffle the canonical link layout.
func encodeOrdered(params ...param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
