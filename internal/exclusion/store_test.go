package exclusion

import (
	"testing"

	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LazyCreation(t *testing.T) {
	store := NewStore(config.NewDefaultExclusionConfig(), zerolog.Nop())

	_, ok := store.Lookup("example.com/a")
	assert.False(t, ok)

	te := store.Get("example.com/a")
	require.NotNil(t, te)
	assert.Same(t, te, store.Get("example.com/a"))

	got, ok := store.Lookup("example.com/a")
	assert.True(t, ok)
	assert.Same(t, te, got)
	assert.Equal(t, []string{"example.com/a"}, store.Keys())
}

func TestStore_Discard(t *testing.T) {
	store := NewStore(config.NewDefaultExclusionConfig(), zerolog.Nop())
	first := store.Get("b/")
	first.AddRequestRule("x")
	store.Get("a/")

	assert.Equal(t, []string{"a/", "b/"}, store.Keys())
	assert.True(t, store.Discard("b/"))
	assert.False(t, store.Discard("b/"))

	second := store.Get("b/")
	assert.NotSame(t, first, second)
	assert.Empty(t, second.RequestRules())

	store.Clear()
	assert.Empty(t, store.Keys())
}

func TestStore_SeedsConfiguredRules(t *testing.T) {
	cfg := config.ExclusionConfig{
		MatchTimeoutMs: 50,
		Targets: []config.TargetRulesConfig{{
			Target:        "example.com/api?id=1",
			RequestRules:  []config.RuleConfig{{Pattern: "Cookie: .*"}},
			ResponseRules: []config.RuleConfig{{Pattern: `timestamp=\d+`}, {Pattern: "Date: ", Disabled: true}, {Pattern: "("}},
		}},
	}
	store := NewStore(cfg, zerolog.Nop())

	te := store.Get("example.com/api?id=1")
	require.Len(t, te.RequestRules(), 1)
	require.Len(t, te.ResponseRules(), 3)

	assert.True(t, te.MatchesRequest("Cookie: s=1"))
	assert.True(t, te.MatchesResponse("timestamp=99"))
	assert.False(t, te.MatchesResponse("Date: today"))
	assert.False(t, te.ResponseRules()[2].Valid())

	assert.Empty(t, store.Get("example.com/other").ResponseRules())
}
