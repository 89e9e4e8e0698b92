package consensus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustPanel(t *testing.T, sources ...string) Panel {
	t.Helper()
	p, err := NewPanel(sources)
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	return p
}

func phaseTwoVotes() SourceLabels {
	return SourceLabels{
		"claude":   {"age >= 18": "demographics", "pregnant": "reproductive", "renal function": "organ function"},
		"gpt5":     {"age >= 18": "demographics", "pregnant": "reproductive", "renal function": "lab values"},
		"gemini":   {"age >= 18": "demographics", "pregnant": "demographics", "renal function": "lab values"},
		"deepseek": {"age >= 18": "demographics", "renal function": "organ function"},
		"grok":     {"age >= 18": "eligibility", "pregnant": "reproductive"},
	}
}

func TestAggregateRowsAndSnapshot(t *testing.T) {
	agg, err := NewAggregator(mustPanel(t, DefaultSources...))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	verdicts, err := agg.Aggregate(context.Background(), PhaseUmbrella, phaseTwoVotes())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	type row struct {
		Item, Label, Ratio string
		Tier               Tier
	}
	var got []row
	for _, v := range verdicts {
		got = append(got, row{v.Item, v.Label, v.Ratio(), v.Tier})
	}
	want := []row{
		{"age >= 18", "demographics", "4/5", TierHigh},
		{"pregnant", "reproductive", "3/4", TierMedium},
		// organ function and lab values tie 2-2; claude voted first
		{"renal function", "organ function", "2/4", TierLow},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("verdict mismatch (-want +got):\n%s", diff)
	}

	pregnant := verdicts[1]
	if len(pregnant.Votes) != 5 {
		t.Fatalf("expected a vote slot per panel source, got %d", len(pregnant.Votes))
	}
	if label, ok := pregnant.Vote("deepseek"); ok || label != "" {
		t.Fatalf("deepseek should be absent, got %q present=%v", label, ok)
	}
	if label, ok := pregnant.Vote("gemini"); !ok || label != "demographics" {
		t.Fatalf("gemini vote = %q present=%v", label, ok)
	}
	for i, source := range DefaultSources {
		if pregnant.Votes[i].Source != source {
			t.Fatalf("snapshot order mismatch at %d: %q", i, pregnant.Votes[i].Source)
		}
	}
}

func TestAggregateCategoryPhaseUsesSameAlgorithm(t *testing.T) {
	agg, err := NewAggregator(mustPanel(t, "a", "b", "c"))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	labels := SourceLabels{
		"a": {"demographics": "inclusion", "lab values": "exclusion"},
		"b": {"demographics": "inclusion", "lab values": "inclusion"},
		"c": {"demographics": "inclusion"},
	}
	verdicts, err := agg.Aggregate(context.Background(), PhaseCategory, labels)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].Item != "demographics" || verdicts[0].Ratio() != "3/3" || verdicts[0].Tier != TierMedium {
		t.Fatalf("unexpected first verdict: %+v", verdicts[0])
	}
	if verdicts[1].Label != "exclusion" || verdicts[1].Ratio() != "1/2" {
		t.Fatalf("tie should favor panel source a: %+v", verdicts[1])
	}
}

func TestAggregateOmitsItemsWithoutPanelVotes(t *testing.T) {
	agg, err := NewAggregator(mustPanel(t, "claude", "gpt5"))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	labels := SourceLabels{
		"claude":   {"kept": "x", "blank": "  "},
		"gpt5":     {"kept": "x"},
		"outsider": {"orphan": "y", "kept": "z"},
	}
	verdicts, err := agg.Aggregate(context.Background(), PhaseUmbrella, labels)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(verdicts) != 1 {
		t.Fatalf("expected only the item with panel votes, got %+v", verdicts)
	}
	if verdicts[0].Item != "kept" || verdicts[0].Ratio() != "2/2" {
		t.Fatalf("outsider votes must not count: %+v", verdicts[0])
	}
}

func TestAggregateRowCountMatchesUnion(t *testing.T) {
	panel := mustPanel(t, DefaultSources...)
	labels := SourceLabels{}
	for i, source := range DefaultSources {
		labels[source] = map[string]string{}
		for j := 0; j <= i*3; j++ {
			labels[source][fmt.Sprintf("item-%02d", j)] = fmt.Sprintf("label-%d", j%3)
		}
	}
	agg, err := NewAggregator(panel, WithWorkers(8))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	verdicts, err := agg.Aggregate(context.Background(), PhaseUmbrella, labels)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(verdicts) != 13 {
		t.Fatalf("expected 13 verdicts (union of item keys), got %d", len(verdicts))
	}
	for i := 1; i < len(verdicts); i++ {
		if verdicts[i-1].Item >= verdicts[i].Item {
			t.Fatalf("verdicts not sorted at %d: %q >= %q", i, verdicts[i-1].Item, verdicts[i].Item)
		}
	}
}

func TestAggregateIdempotentAcrossWorkerCounts(t *testing.T) {
	panel := mustPanel(t, DefaultSources...)
	sequential, err := NewAggregator(panel)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	parallel, err := NewAggregator(panel, WithWorkers(4))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	first, err := sequential.Aggregate(context.Background(), PhaseUmbrella, phaseTwoVotes())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := parallel.Aggregate(context.Background(), PhaseUmbrella, phaseTwoVotes())
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestAggregateCanceledContext(t *testing.T) {
	agg, err := NewAggregator(mustPanel(t, DefaultSources...))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := agg.Aggregate(ctx, PhaseUmbrella, phaseTwoVotes()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg, err := NewAggregator(mustPanel(t, "a"))
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	verdicts, err := agg.Aggregate(context.Background(), PhaseUmbrella, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(verdicts) != 0 {
		t.Fatalf("expected no verdicts, got %d", len(verdicts))
	}
}

func TestNewAggregatorRequiresPanel(t *testing.T) {
	if _, err := NewAggregator(Panel{}); !errors.Is(err, ErrInvalidPanel) {
		t.Fatalf("expected ErrInvalidPanel, got %v", err)
	}
}
