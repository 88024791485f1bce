package classification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedClassifier blocks passes whose target ID has a gate until it is released.
type gatedClassifier struct {
	mu    sync.Mutex
	gates map[int]chan struct{}
}

func newGatedClassifier(targetIDs ...int) *gatedClassifier {
	g := &gatedClassifier{gates: make(map[int]chan struct{})}
	for _, id := range targetIDs {
		g.gates[id] = make(chan struct{})
	}
	return g
}

func (g *gatedClassifier) release(targetID int) {
	close(g.gates[targetID])
}

func (g *gatedClassifier) Classify(target, entry models.Exchange, _ Rules) models.RowDiffType {
	g.mu.Lock()
	gate := g.gates[target.ID]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if target.Request == entry.Request {
		return models.RowDiffNone
	}
	return models.RowDiffRequestOnly
}

func docs(requests ...string) []models.Exchange {
	out := make([]models.Exchange, len(requests))
	for i, r := range requests {
		out[i] = models.Exchange{ID: 100 + i, Request: r}
	}
	return out
}

func waitOutcome(t *testing.T, p *Pass) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := p.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestScheduler_SinglePassCommits(t *testing.T) {
	s := NewScheduler(newGatedClassifier(), zerolog.Nop())
	target := models.Exchange{ID: 1, Request: "a"}

	p := s.StartPass(context.Background(), target, nil, docs("a", "b"))
	outcome := waitOutcome(t, p)

	assert.Equal(t, PassCommitted, outcome.Status)
	assert.Equal(t, uint64(1), outcome.Version)
	assert.Equal(t, map[int]models.RowDiffType{100: models.RowDiffNone, 101: models.RowDiffRequestOnly}, outcome.Types)

	committed := s.Committed()
	assert.Equal(t, uint64(1), committed.Version)
	assert.Equal(t, 1, committed.TargetID)
	assert.Equal(t, models.RowDiffRequestOnly, s.RowDiffType(101))
	assert.Equal(t, models.RowDiffNone, s.RowDiffType(999))
}

func TestScheduler_NewerPassWinsWhenOlderFinishesLast(t *testing.T) {
	gc := newGatedClassifier(1)
	s := NewScheduler(gc, zerolog.Nop())

	older := s.StartPass(context.Background(), models.Exchange{ID: 1, Request: "a"}, nil, docs("a", "b"))
	newer := s.StartPass(context.Background(), models.Exchange{ID: 2, Request: "b"}, nil, docs("a", "b"))

	newerOutcome := waitOutcome(t, newer)
	assert.Equal(t, PassCommitted, newerOutcome.Status)

	gc.release(1)
	olderOutcome := waitOutcome(t, older)
	assert.Equal(t, PassDiscarded, olderOutcome.Status)
	assert.Nil(t, olderOutcome.Types)

	committed := s.Committed()
	assert.Equal(t, newer.Version(), committed.Version)
	assert.Equal(t, 2, committed.TargetID)
	assert.Equal(t, models.RowDiffRequestOnly, s.RowDiffType(100))
}

func TestScheduler_NewerPassWinsWhenOlderFinishesFirst(t *testing.T) {
	gc := newGatedClassifier(1, 2)
	s := NewScheduler(gc, zerolog.Nop())

	older := s.StartPass(context.Background(), models.Exchange{ID: 1, Request: "a"}, nil, docs("a"))
	newer := s.StartPass(context.Background(), models.Exchange{ID: 2, Request: "b"}, nil, docs("a"))

	gc.release(1)
	assert.Equal(t, PassDiscarded, waitOutcome(t, older).Status)
	assert.Equal(t, uint64(0), s.Committed().Version)

	gc.release(2)
	assert.Equal(t, PassCommitted, waitOutcome(t, newer).Status)
	assert.Equal(t, newer.Version(), s.Committed().Version)
}

func TestScheduler_InvalidateDiscardsRunningPass(t *testing.T) {
	gc := newGatedClassifier(1)
	s := NewScheduler(gc, zerolog.Nop())

	p := s.StartPass(context.Background(), models.Exchange{ID: 1}, nil, docs("a"))
	v := s.Invalidate()
	assert.Greater(t, v, p.Version())
	assert.False(t, s.IsCurrent(p.Version()))

	gc.release(1)
	assert.Equal(t, PassDiscarded, waitOutcome(t, p).Status)
}

func TestScheduler_ResetClearsCommitted(t *testing.T) {
	s := NewScheduler(newGatedClassifier(), zerolog.Nop())
	waitOutcome(t, s.StartPass(context.Background(), models.Exchange{ID: 1, Request: "a"}, nil, docs("b")))
	require.Equal(t, models.RowDiffRequestOnly, s.RowDiffType(100))

	before := s.Current()
	s.Reset()

	assert.Greater(t, s.Current(), before)
	assert.Equal(t, models.RowDiffNone, s.RowDiffType(100))
	assert.Empty(t, s.Committed().Types)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	gc := newGatedClassifier(1)
	s := NewScheduler(gc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	p := s.StartPass(ctx, models.Exchange{ID: 1}, nil, docs("a", "b"))
	cancel()
	gc.release(1)

	assert.Equal(t, PassDiscarded, waitOutcome(t, p).Status)
	assert.Equal(t, uint64(0), s.Committed().Version)
}

func TestPass_WaitHonoursContext(t *testing.T) {
	gc := newGatedClassifier(1)
	s := NewScheduler(gc, zerolog.Nop())
	p := s.StartPass(context.Background(), models.Exchange{ID: 1}, nil, docs("a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	gc.release(1)
	<-p.Done()
}

func TestScheduler_OnCommit(t *testing.T) {
	s := NewScheduler(newGatedClassifier(), zerolog.Nop())
	received := make(chan Results, 1)
	s.OnCommit(func(r Results) { received <- r })

	p := s.StartPass(context.Background(), models.Exchange{ID: 7, Request: "a"}, nil, docs("a"))
	waitOutcome(t, p)

	select {
	case r := <-received:
		assert.Equal(t, p.Version(), r.Version)
		assert.Equal(t, 7, r.TargetID)
		assert.Equal(t, models.RowDiffNone, r.Types[100])
	case <-time.After(5 * time.Second):
		t.Fatal("commit callback not invoked")
	}
}

func TestScheduler_ManyConcurrentPasses(t *testing.T) {
	s := NewScheduler(newGatedClassifier(), zerolog.Nop())
	passes := make([]*Pass, 20)
	for i := range passes {
		passes[i] = s.StartPass(context.Background(), models.Exchange{ID: i, Request: "a"}, nil, docs("a", "b", "c"))
	}

	committed := 0
	for _, p := range passes {
		if waitOutcome(t, p).Status == PassCommitted {
			committed++
		}
	}

	last := passes[len(passes)-1]
	assert.Equal(t, PassCommitted, waitOutcome(t, last).Status)
	assert.GreaterOrEqual(t, committed, 1)
	assert.Equal(t, last.Version(), s.Committed().Version)
}
