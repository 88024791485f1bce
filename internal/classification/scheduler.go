package classification

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
)

// PassStatus is the final state of a classification pass.
type PassStatus int

const (
	// PassCommitted means the pass was still current and its results were published.
	PassCommitted PassStatus = iota
	// PassDiscarded means a newer version superseded the pass or it was cancelled.
	PassDiscarded
)

func (s PassStatus) String() string {
	if s == PassCommitted {
		return "committed"
	}
	return "discarded"
}

// Outcome is what a finished pass resolved to. Types is nil for a
// discarded pass.
type Outcome struct {
	Version uint64
	Status  PassStatus
	Types   map[int]models.RowDiffType
}

// Results is the last committed classification.
type Results struct {
	Version  uint64
	TargetID int
	Types    map[int]models.RowDiffType
}

// Scheduler runs bulk classification passes under a shared, monotonically
// increasing version. Starting a pass makes every older pass stale; a pass
// commits only if its version is still current, so an older pass never
// overwrites the results of a newer one.
type Scheduler struct {
	classifier ExchangeClassifier
	logger     zerolog.Logger

	version atomic.Uint64

	mu        sync.RWMutex
	committed Results
	onCommit  func(Results)
}

// NewScheduler creates a scheduler using classifier for every exchange
func NewScheduler(classifier ExchangeClassifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		classifier: classifier,
		logger:     logger.With().Str("component", "ClassificationScheduler").Logger(),
	}
}

// OnCommit registers fn to receive every committed result set. fn runs on
// the pass goroutine.
func (s *Scheduler) OnCommit(fn func(Results)) {
	s.mu.Lock()
	s.onCommit = fn
	s.mu.Unlock()
}

// Current returns the latest version handed out
func (s *Scheduler) Current() uint64 {
	return s.version.Load()
}

// IsCurrent reports whether v is still the latest version
func (s *Scheduler) IsCurrent(v uint64) bool {
	return s.version.Load() == v
}

// Invalidate makes every running pass stale without starting a new one
func (s *Scheduler) Invalidate() uint64 {
	return s.version.Add(1)
}

// Reset invalidates running passes and forgets the committed results
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version.Add(1)
	s.committed = Results{}
}

// Committed returns a copy of the last committed results
func (s *Scheduler) Committed() Results {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.committed
	res.Types = maps.Clone(s.committed.Types)
	return res
}

// RowDiffType returns the committed classification of an exchange, or
// RowDiffNone if it has none.
func (s *Scheduler) RowDiffType(id int) models.RowDiffType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.Types[id]
}

// StartPass classifies docs against target on a background goroutine. The
// caller must hand over a snapshot of docs and rules; neither is read
// again after the pass finishes.
func (s *Scheduler) StartPass(ctx context.Context, target models.Exchange, rules Rules, docs []models.Exchange) *Pass {
	p := &Pass{
		version: s.version.Add(1),
		done:    make(chan struct{}),
	}
	s.logger.Debug().Uint64("version", p.version).Int("target", target.ID).Int("documents", len(docs)).Msg("Classification pass started")

	go s.run(ctx, p, target, rules, docs)
	return p
}

func (s *Scheduler) run(ctx context.Context, p *Pass, target models.Exchange, rules Rules, docs []models.Exchange) {
	defer close(p.done)
	started := time.Now()

	types := make(map[int]models.RowDiffType, len(docs))
	for _, doc := range docs {
		if !s.IsCurrent(p.version) || ctx.Err() != nil {
			p.discard()
			s.logger.Debug().Uint64("version", p.version).Int("classified", len(types)).Msg("Classification pass superseded")
			return
		}
		types[doc.ID] = s.classifier.Classify(target, doc, rules)
	}

	if ctx.Err() != nil || !s.commit(p.version, target.ID, types) {
		p.discard()
		s.logger.Debug().Uint64("version", p.version).Msg("Classification pass discarded at commit")
		return
	}

	p.outcome = Outcome{Version: p.version, Status: PassCommitted, Types: types}
	s.logger.Debug().Uint64("version", p.version).Int("documents", len(types)).Dur("took", time.Since(started)).Msg("Classification pass committed")
}

// commit publishes types if version is still current.
func (s *Scheduler) commit(version uint64, targetID int, types map[int]models.RowDiffType) bool {
	s.mu.Lock()
	if !s.IsCurrent(version) {
		s.mu.Unlock()
		return false
	}
	s.committed = Results{Version: version, TargetID: targetID, Types: types}
	notify := s.onCommit
	s.mu.Unlock()

	if notify != nil {
		notify(Results{Version: version, TargetID: targetID, Types: maps.Clone(types)})
	}
	return true
}

// Pass is the handle of one classification pass.
type Pass struct {
	version uint64
	done    chan struct{}
	outcome Outcome
}

// Version returns the version the pass runs under
func (p *Pass) Version() uint64 {
	return p.version
}

// Done is closed when the pass has committed or been discarded
func (p *Pass) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pass finishes or ctx is done
func (p *Pass) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, nil
	case <-ctx.Done():
		return Outcome{Version: p.version, Status: PassDiscarded}, ctx.Err()
	}
}

func (p *Pass) discard() {
	p.outcome = Outcome{Version: p.version, Status: PassDiscarded}
}
