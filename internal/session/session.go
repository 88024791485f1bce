package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aleister1102/diffhunter/internal/capture"
	"github.com/aleister1102/diffhunter/internal/classification"
	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/aleister1102/diffhunter/internal/differ"
	"github.com/aleister1102/diffhunter/internal/exclusion"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
)

// ErrNoTarget is returned by operations that need a selected target.
var ErrNoTarget = errors.New("no target selected")

const noTarget = 0

// Session ties the captured exchanges, the per-target exclusion rules and
// the classification scheduler together. Every change that can alter a
// classification starts a new pass; older passes are superseded.
type Session struct {
	captures   *capture.Store
	exclusions *exclusion.Store
	engine     *differ.Engine
	classifier *classification.Classifier
	scheduler  *classification.Scheduler
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	targetID atomic.Int64

	mu             sync.Mutex
	characterLevel bool
	hexMode        bool
	hooked         map[*exclusion.TargetExclusions]struct{}
}

// New builds a session and all of its components from cfg. Passes run
// under ctx until Close is called.
func New(ctx context.Context, cfg *config.GlobalConfig, logger zerolog.Logger) (*Session, error) {
	engine, err := differ.NewEngineBuilder().WithGlobalConfig(cfg.DiffConfig).Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to build diff engine")
	}

	classifier := classification.NewClassifier(engine, logger)
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		captures:       capture.NewStore(cfg.CaptureConfig, logger),
		exclusions:     exclusion.NewStore(cfg.ExclusionConfig, logger),
		engine:         engine,
		classifier:     classifier,
		scheduler:      classification.NewScheduler(classifier, logger),
		logger:         logger.With().Str("component", "Session").Logger(),
		ctx:            ctx,
		cancel:         cancel,
		characterLevel: cfg.DiffConfig.CharacterLevel,
		hexMode:        cfg.DiffConfig.HexMode,
		hooked:         make(map[*exclusion.TargetExclusions]struct{}),
	}
	s.captures.SetProtected(func(id int) bool {
		return int64(id) == s.targetID.Load()
	})
	return s, nil
}

// Close supersedes every running pass and stops new ones from doing work
func (s *Session) Close() {
	s.scheduler.Invalidate()
	s.cancel()
}

// Captures exposes the capture store
func (s *Session) Captures() *capture.Store {
	return s.captures
}

// Engine exposes the diff engine
func (s *Session) Engine() *differ.Engine {
	return s.engine
}

// OnResults registers fn to receive every committed classification
func (s *Session) OnResults(fn func(classification.Results)) {
	s.scheduler.OnCommit(fn)
}

// Results returns the last committed classification
func (s *Session) Results() classification.Results {
	return s.scheduler.Committed()
}

// RowDiffType returns the committed classification of one exchange
func (s *Session) RowDiffType(id int) models.RowDiffType {
	return s.scheduler.RowDiffType(id)
}

// AddExchanges stores new exchanges and, if a target is selected,
// reclassifies everything.
func (s *Session) AddExchanges(exchanges ...models.Exchange) ([]models.Exchange, *classification.Pass) {
	added := s.captures.Add(exchanges...)
	s.logger.Debug().Int("added", len(added)).Int("total", s.captures.Len()).Msg("Exchanges captured")
	return added, s.startPass()
}

// SelectTarget makes the exchange with id the comparison target and starts
// a classification pass.
func (s *Session) SelectTarget(id int) (*classification.Pass, error) {
	target, ok := s.captures.Get(id)
	if !ok {
		return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("exchange %d", id))
	}

	s.targetID.Store(int64(id))
	s.hook(s.exclusions.Get(target.TargetKey()))
	s.logger.Info().Int("target", id).Str("target_key", target.TargetKey()).Msg("Target selected")
	return s.startPass(), nil
}

// ClearTarget deselects the target, drops the committed classification and
// discards the exclusion rules of the deselected target.
func (s *Session) ClearTarget() {
	id := int(s.targetID.Swap(noTarget))
	s.scheduler.Reset()
	if id == noTarget {
		return
	}
	if target, ok := s.captures.Get(id); ok {
		if te, ok := s.exclusions.Lookup(target.TargetKey()); ok {
			s.mu.Lock()
			delete(s.hooked, te)
			s.mu.Unlock()
		}
		s.exclusions.Discard(target.TargetKey())
	}
	s.logger.Info().Int("target", id).Msg("Target cleared")
}

// Clear drops every captured exchange, the target and all exclusion rules
func (s *Session) Clear() {
	s.targetID.Store(noTarget)
	s.scheduler.Reset()
	s.captures.Clear()
	s.exclusions.Clear()

	s.mu.Lock()
	clear(s.hooked)
	s.mu.Unlock()
	s.logger.Info().Msg("Session cleared")
}

// Target returns the selected target exchange
func (s *Session) Target() (models.Exchange, bool) {
	id := int(s.targetID.Load())
	if id == noTarget {
		return models.Exchange{}, false
	}
	return s.captures.Get(id)
}

// Exclusions returns the exclusion rules of the selected target. Edits to
// them start a new classification pass.
func (s *Session) Exclusions() (*exclusion.TargetExclusions, error) {
	target, ok := s.Target()
	if !ok {
		return nil, ErrNoTarget
	}
	te := s.exclusions.Get(target.TargetKey())
	s.hook(te)
	return te, nil
}

// SetCharacterLevel switches between line-level and character-level diffs
func (s *Session) SetCharacterLevel(enabled bool) *classification.Pass {
	s.mu.Lock()
	changed := s.characterLevel != enabled
	s.characterLevel = enabled
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.startPass()
}

// SetHexMode switches between diffing raw text and hex dumps
func (s *Session) SetHexMode(enabled bool) *classification.Pass {
	s.mu.Lock()
	changed := s.hexMode != enabled
	s.hexMode = enabled
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.startPass()
}

// CharacterLevel reports whether character-level diffs are enabled
func (s *Session) CharacterLevel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.characterLevel
}

// HexMode reports whether hex mode is enabled
func (s *Session) HexMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hexMode
}

// Reclassify supersedes any running pass with a fresh one. It returns nil
// when no target is selected.
func (s *Session) Reclassify() *classification.Pass {
	return s.startPass()
}

// hook subscribes to rule changes of te once. Changes only trigger a pass
// while te belongs to the selected target.
func (s *Session) hook(te *exclusion.TargetExclusions) {
	s.mu.Lock()
	if _, ok := s.hooked[te]; ok {
		s.mu.Unlock()
		return
	}
	s.hooked[te] = struct{}{}
	s.mu.Unlock()

	te.OnChange(func() {
		target, ok := s.Target()
		if !ok {
			return
		}
		if current, ok := s.exclusions.Lookup(target.TargetKey()); !ok || current != te {
			return
		}
		s.logger.Debug().Int("target", target.ID).Msg("Exclusion rules changed")
		s.startPass()
	})
}

// startPass classifies a snapshot of all captured exchanges against the
// target. It returns nil when no target is selected.
func (s *Session) startPass() *classification.Pass {
	target, ok := s.Target()
	if !ok {
		return nil
	}

	rules := s.exclusions.Get(target.TargetKey()).Snapshot()
	docs := s.captures.Snapshot()
	if s.HexMode() {
		target = hexView(target)
		for i := range docs {
			docs[i] = hexView(docs[i])
		}
	}
	return s.scheduler.StartPass(s.ctx, target, rules, docs)
}

func hexView(ex models.Exchange) models.Exchange {
	ex.Request = differ.HexDump(ex.Request)
	ex.Response = differ.HexDump(ex.Response)
	return ex
}
