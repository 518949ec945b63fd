package matching

import (
	"testing"

	"RegistryLinker/internal/domain"
)

func rec(side domain.Side, index int, name, identifier string) domain.Record {
	return domain.Record{
		Index:         index,
		RawName:       name,
		CanonicalName: name,
		Identifier:    identifier,
		Side:          side,
	}
}

func TestIdentifierPhaseMatchesUniqueIDs(t *testing.T) {
	t.Parallel()

	left := []domain.Record{
		rec(domain.SideLeft, 0, "foo", "RX12345"),
		rec(domain.SideLeft, 1, "other", ""),
	}
	right := []domain.Record{
		rec(domain.SideRight, 0, "bar123", "RX12345"),
		rec(domain.SideRight, 1, "something", ""),
	}

	matches, restLeft, restRight, ambiguous := identifierPhase(left, right)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Origin != domain.OriginIdentifier {
		t.Fatalf("unexpected origin: %s", m.Origin)
	}
	if m.Left.CanonicalName != "foo" || m.Right.CanonicalName != "bar123" {
		t.Fatalf("unexpected pair: %q/%q", m.Left.CanonicalName, m.Right.CanonicalName)
	}
	if m.Scores != domain.PerfectScore() {
		t.Fatalf("identifier match must carry sentinel perfect score, got %+v", m.Scores)
	}
	if ambiguous != 0 {
		t.Fatalf("expected no ambiguous identifiers, got %d", ambiguous)
	}

	if len(restLeft) != 1 || restLeft[0].CanonicalName != "other" {
		t.Fatalf("left pool not reduced: %+v", restLeft)
	}
	if len(restRight) != 1 || restRight[0].CanonicalName != "something" {
		t.Fatalf("right pool not reduced: %+v", restRight)
	}
}

func TestIdentifierPhaseDefersAmbiguousIDs(t *testing.T) {
	t.Parallel()

	left := []domain.Record{
		rec(domain.SideLeft, 0, "drug a", "RX1"),
		rec(domain.SideLeft, 1, "drug a variant", "RX1"),
	}
	right := []domain.Record{
		rec(domain.SideRight, 0, "drug a", "RX1"),
	}

	matches, restLeft, restRight, ambiguous := identifierPhase(left, right)

	if len(matches) != 0 {
		t.Fatalf("ambiguous identifier must not match, got %d matches", len(matches))
	}
	if ambiguous != 1 {
		t.Fatalf("expected 1 ambiguous identifier, got %d", ambiguous)
	}
	if len(restLeft) != 2 || len(restRight) != 1 {
		t.Fatalf("deferred records must stay in the pools: %d/%d", len(restLeft), len(restRight))
	}
}

func TestIdentifierPhaseIgnoresOneSidedIDs(t *testing.T) {
	t.Parallel()

	left := []domain.Record{rec(domain.SideLeft, 0, "foo", "RX9")}
	right := []domain.Record{rec(domain.SideRight, 0, "foo", "")}

	matches, restLeft, restRight, ambiguous := identifierPhase(left, right)

	if len(matches) != 0 || ambiguous != 0 {
		t.Fatalf("one-sided identifier must not match: %d matches, %d ambiguous", len(matches), ambiguous)
	}
	if len(restLeft) != 1 || len(restRight) != 1 {
		t.Fatalf("pools must be untouched")
	}
}
