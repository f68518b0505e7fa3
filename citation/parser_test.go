package citation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestParser(reclassify Reclassifier) (*Parser, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewParser(reclassify, zap.New(core)), logs
}

func TestStatutorySingleSection(t *testing.T) {
	p, logs := newTestParser(nil)

	urls := p.Statutory("441a", Ref{CaseID: 1, EntityID: 2})
	require.Len(t, urls, 1)
	assert.Equal(t,
		"https://api.fdsys.gov/link?collection=uscode&year=mostrecent&link-type=html&title=2&section=441a",
		urls[0])
	assert.Zero(t, logs.Len())
}

func TestStatutoryReclassified(t *testing.T) {
	p, _ := newTestParser(func(title, section string) (string, string) {
		return "52", "30116"
	})

	urls := p.Statutory("441a", Ref{})
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "title=52")
	assert.Contains(t, urls[0], "section=30116")
}

func TestStatutoryMultipleSections(t *testing.T) {
	p, logs := newTestParser(nil)

	urls := p.Statutory("441a, 441b and 437g", Ref{})
	require.Len(t, urls, 3)
	assert.Contains(t, urls[0], "section=441a")
	assert.Contains(t, urls[1], "section=441b")
	assert.Contains(t, urls[2], "section=437g")
	assert.Zero(t, logs.Len())
}

func TestStatutoryDashSuffix(t *testing.T) {
	p, _ := newTestParser(nil)

	urls := p.Statutory("441a-1", Ref{})
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "section=441a-1")
}

// For strings with no parenthesized digit groups, the URL count must equal
// the raw match count of the section pattern.
func TestStatutoryMatchCountParity(t *testing.T) {
	p, _ := newTestParser(nil)

	for _, text := range []string{
		"441a",
		"441a, 441b",
		"2 U.S.C. 437g and 438",
		"sections 434, 441a-1, 441b of the Act",
	} {
		t.Run(text, func(t *testing.T) {
			want := len(statuteRegex.FindAllString(text, -1))
			assert.Len(t, p.Statutory(text, Ref{}), want)
		})
	}
}

func TestStatutoryParentheticalOnly(t *testing.T) {
	p, logs := newTestParser(nil)

	urls := p.Statutory("(12)(34a)", Ref{CaseID: 7, EntityID: 9})
	assert.Empty(t, urls)
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "cannot parse statutory citation", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "(12)(34a)", fields["citation"])
	assert.Equal(t, int64(7), fields["case_id"])
	assert.Equal(t, int64(9), fields["entity_id"])
}

func TestStatutoryCrossReferenceExcluded(t *testing.T) {
	p, _ := newTestParser(nil)

	// The subsection in parentheses is a cross-reference, not a citation.
	urls := p.Statutory("441a(2)", Ref{})
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "section=441a")
}

func TestStatutoryEmptyInput(t *testing.T) {
	p, logs := newTestParser(nil)

	assert.Empty(t, p.Statutory("", Ref{}))
	assert.Zero(t, logs.Len(), "empty input is not a diagnostic")
}

func TestRegulatoryPartAndSection(t *testing.T) {
	p, logs := newTestParser(nil)

	urls := p.Regulatory("110.1", Ref{})
	require.Len(t, urls, 1)
	assert.Equal(t,
		"https://api.fdsys.gov/link?collection=cfr&year=mostrecent&titlenum=11&partnum=110&sectionnum=1",
		urls[0])
	assert.Zero(t, logs.Len())
}

func TestRegulatoryPartOnly(t *testing.T) {
	p, _ := newTestParser(nil)

	urls := p.Regulatory("110", Ref{})
	require.Len(t, urls, 1)
	assert.Equal(t,
		"https://api.fdsys.gov/link?collection=cfr&year=mostrecent&titlenum=11&partnum=110",
		urls[0])
}

func TestRegulatoryLastSubsectionWins(t *testing.T) {
	p, _ := newTestParser(nil)

	urls := p.Regulatory("110.1.2", Ref{})
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "partnum=110")
	assert.Contains(t, urls[0], "sectionnum=2")
	assert.NotContains(t, urls[0], "sectionnum=1")
}

func TestRegulatoryTrailingDotTolerated(t *testing.T) {
	p, logs := newTestParser(nil)

	urls := p.Regulatory("110.", Ref{})
	require.Len(t, urls, 1)
	assert.NotContains(t, urls[0], "sectionnum")
	assert.Zero(t, logs.Len())
}

func TestRegulatoryUnparseable(t *testing.T) {
	p, logs := newTestParser(nil)

	assert.Empty(t, p.Regulatory("see above", Ref{CaseID: 3, EntityID: 4}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cannot parse regulatory citation", logs.All()[0].Message)
}

func TestRegulatoryEmptyInput(t *testing.T) {
	p, logs := newTestParser(nil)

	assert.Empty(t, p.Regulatory("", Ref{}))
	assert.Zero(t, logs.Len())
}

func TestRegulatoryParentheticalExcluded(t *testing.T) {
	p, _ := newTestParser(nil)

	urls := p.Regulatory("110.1(a)(2) and 114.5", Ref{})
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "partnum=110")
	assert.Contains(t, urls[1], "partnum=114")
}

func TestSourceOrderPreserved(t *testing.T) {
	p, _ := newTestParser(nil)

	urls := p.Regulatory("114.5, 110.1", Ref{})
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "partnum=114")
	assert.Contains(t, urls[1], "partnum=110")
}

func ExampleParser_Statutory() {
	p := NewParser(nil, zap.NewNop())
	for _, u := range p.Statutory("437g", Ref{}) {
		fmt.Println(u)
	}
	// Output:
	// https://api.fdsys.gov/link?collection=uscode&year=mostrecent&link-type=html&title=2&section=437g
}
