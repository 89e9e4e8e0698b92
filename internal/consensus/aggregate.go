package consensus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"traitvote/internal/logging"
)

// SourceLabels maps source -> item -> label.
type SourceLabels map[string]map[string]string

// SourceVote is one panel source's vote on an item. Present is false when the
// source abstained.
type SourceVote struct {
	Source  string
	Label   string
	Present bool
}

// Verdict is the immutable outcome for one item in one phase.
type Verdict struct {
	Item string
	Resolution
	Votes []SourceVote
}

// Vote returns the vote cast by source, if any.
func (v Verdict) Vote(source string) (string, bool) {
	for _, vote := range v.Votes {
		if vote.Source == source {
			return vote.Label, vote.Present
		}
	}
	return "", false
}

// Aggregator drives consensus resolution across every item of a phase.
type Aggregator struct {
	panel   Panel
	workers int
	logger  *slog.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithWorkers resolves items concurrently on up to n goroutines. Output order
// is unaffected.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger attaches a logger for per-run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator binds an aggregator to a panel.
func NewAggregator(panel Panel, opts ...Option) (*Aggregator, error) {
	if panel.Size() == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrInvalidPanel)
	}
	a := &Aggregator{panel: panel, workers: 1, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Panel returns the panel the aggregator votes with.
func (a *Aggregator) Panel() Panel {
	return a.panel
}

// Aggregate resolves every item named by any source, in lexicographic item
// order. Only panel members vote; a blank label counts as an abstention.
// Items without a single present vote are omitted.
func (a *Aggregator) Aggregate(ctx context.Context, phase Phase, labels SourceLabels) ([]Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, a.logger).With(logging.String(logging.FieldPhase, string(phase)))

	items := unionItems(labels)
	for source := range labels {
		if !a.panel.Contains(source) {
			logger.Warn("ignoring votes from source outside the panel",
				logging.String(logging.FieldSource, source),
				logging.Int("items", len(labels[source])),
			)
		}
	}

	slots := make([]*Verdict, len(items))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers)
	for i, item := range items {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdict, ok, err := a.resolveItem(item, labels)
			if err != nil {
				return fmt.Errorf("resolve %s %q: %w", phase.ItemColumn(), item, err)
			}
			if ok {
				slots[i] = &verdict
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	verdicts := make([]Verdict, 0, len(items))
	for i, slot := range slots {
		if slot == nil {
			logger.Debug("item has no panel votes; omitted", logging.String(logging.FieldItem, items[i]))
			continue
		}
		verdicts = append(verdicts, *slot)
	}
	logger.Info("phase aggregated",
		logging.Int("items", len(items)),
		logging.Int("verdicts", len(verdicts)),
		logging.Int("panel_size", a.panel.Size()),
	)
	return verdicts, nil
}

func (a *Aggregator) resolveItem(item string, labels SourceLabels) (Verdict, bool, error) {
	snapshot := make([]SourceVote, 0, a.panel.Size())
	present := make([]string, 0, a.panel.Size())
	for _, source := range a.panel.sources {
		label, ok := labels[source][item]
		if ok && strings.TrimSpace(label) == "" {
			ok = false
		}
		if !ok {
			snapshot = append(snapshot, SourceVote{Source: source})
			continue
		}
		snapshot = append(snapshot, SourceVote{Source: source, Label: label, Present: true})
		present = append(present, label)
	}
	if len(present) == 0 {
		return Verdict{}, false, nil
	}
	resolution, err := Resolve(present)
	if err != nil {
		return Verdict{}, false, err
	}
	return Verdict{Item: item, Resolution: resolution, Votes: snapshot}, true, nil
}

func unionItems(labels SourceLabels) []string {
	seen := make(map[string]struct{})
	for _, byItem := range labels {
		for item := range byItem {
			seen[item] = struct{}{}
		}
	}
	items := make([]string, 0, len(seen))
	for item := range seen {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
