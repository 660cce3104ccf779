package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// buildStoryStore creates a small graph: hero -> city, hero -> rival
func buildStoryStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()

	_, err := s.CreateNode("hero", "Character", map[string]any{"name": "Mira"})
	require.NoError(t, err)
	_, err = s.CreateNode("city", "Place", map[string]any{"name": "Veldt"})
	require.NoError(t, err)
	_, err = s.CreateNode("rival", "Character", map[string]any{"name": "Osk"})
	require.NoError(t, err)
	_, err = s.CreateEdge("", "LIVES_IN", "hero", "city", nil)
	require.NoError(t, err)
	_, err = s.CreateEdge("", "RIVAL_OF", "hero", "rival", nil)
	require.NoError(t, err)
	return s
}

// stubSearcher returns canned hits and records the call it saw
type stubSearcher struct {
	hits   []VectorHit
	err    error
	delay  time.Duration
	text   string
	filter map[string]string
	k      int
	calls  int
}

func (f *stubSearcher) Search(ctx context.Context, text string, filter map[string]string, k int) ([]VectorHit, error) {
	f.calls++
	f.text = text
	f.filter = filter
	f.k = k
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.hits, f.err
}

func TestBuildContext_HappyPath(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{hits: []VectorHit{
		{ID: "p1", Text: "passage one", Score: 0.9},
		{ID: "p2", Text: "passage two", Score: 0.7},
	}}
	o := NewOrchestrator(store, searcher)

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "who lives in veldt", Seeds: []string{"hero"}},
		DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Len(t, bundle.KGSlice.Nodes, 3, "one hop from hero reaches city and rival")
	assert.Equal(t, []string{"p1", "p2"}, hitIDs(bundle.Passages))
	assert.Empty(t, bundle.Notes)
	assert.Equal(t, "who lives in veldt", searcher.text)
	assert.Equal(t, DefaultVectorK, searcher.k)
}

// TestBuildContext_DegradesOnSearchFailure tests graceful degradation: the
// KG slice survives, passages are empty, and the note explains why
func TestBuildContext_DegradesOnSearchFailure(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{err: errors.New("backend exploded")}
	o := NewOrchestrator(store, searcher)

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "q", Seeds: []string{"hero"}},
		DefaultConfig(), nil)
	require.NoError(t, err, "search failure must not fail the build")

	assert.NotEmpty(t, bundle.KGSlice.Nodes)
	assert.Empty(t, bundle.Passages)
	assert.Equal(t, []string{NoteVectorUnavailable}, bundle.Notes)
}

func TestBuildContext_DegradesOnNilSearcher(t *testing.T) {
	store := buildStoryStore(t)
	o := NewOrchestrator(store, nil)

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "q", Seeds: []string{"hero"}}, DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{NoteVectorUnavailable}, bundle.Notes)
}

// TestBuildContext_DegradesOnTimeout tests that a slow searcher hits the
// configured deadline and degrades like an outright failure
func TestBuildContext_DegradesOnTimeout(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{
		hits:  []VectorHit{{ID: "late", Text: "too late", Score: 1}},
		delay: 200 * time.Millisecond,
	}
	o := NewOrchestrator(store, searcher)

	cfg := DefaultConfig()
	cfg.VectorTimeout = 10 * time.Millisecond

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "q", Seeds: []string{"hero"}}, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, bundle.Passages)
	assert.Equal(t, []string{NoteVectorUnavailable}, bundle.Notes)
}

func TestBuildContext_ExpandSeedsHook(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{}
	o := NewOrchestrator(store, searcher)

	capability := &Capability{
		ExpandSeeds: func(s *graph.Store, seeds []string, cfg Config) ([]string, error) {
			// The wrapper redirects expansion to the rival
			return []string{"rival"}, nil
		},
	}

	cfg := DefaultConfig()
	cfg.ExpandHops = -1 // seeds only
	bundle, err := o.BuildContext(context.Background(),
		Query{Seeds: []string{"hero"}}, cfg, capability)
	require.NoError(t, err)

	require.Len(t, bundle.KGSlice.Nodes, 1)
	assert.Equal(t, "rival", bundle.KGSlice.Nodes[0].ID)
}

func TestBuildContext_ExpandSeedsHookError(t *testing.T) {
	store := buildStoryStore(t)
	o := NewOrchestrator(store, &stubSearcher{})

	capability := &Capability{
		ExpandSeeds: func(s *graph.Store, seeds []string, cfg Config) ([]string, error) {
			return nil, errors.New("wrapper bug")
		},
	}
	_, err := o.BuildContext(context.Background(), Query{}, DefaultConfig(), capability)
	assert.Error(t, err, "capability errors are programmer-visible, not degraded")
}

func TestBuildContext_MetadataRouting(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{}
	o := NewOrchestrator(store, searcher)

	capability := &Capability{
		BuildMetadataFilter: func(slice *graph.Snapshot) map[string]string {
			return map[string]string{"place": "Veldt"}
		},
	}

	cfg := DefaultConfig()
	cfg.RouteByMetadata = true
	_, err := o.BuildContext(context.Background(),
		Query{Seeds: []string{"hero"}}, cfg, capability)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"place": "Veldt"}, searcher.filter)

	// Routing disabled: the filter stays empty even with the hook present
	cfg.RouteByMetadata = false
	_, err = o.BuildContext(context.Background(),
		Query{Seeds: []string{"hero"}}, cfg, capability)
	require.NoError(t, err)
	assert.Empty(t, searcher.filter)
}

// TestBuildContext_TokenBudget tests stable score-descending truncation
func TestBuildContext_TokenBudget(t *testing.T) {
	store := buildStoryStore(t)
	searcher := &stubSearcher{hits: []VectorHit{
		{ID: "low", Text: "aaaa bbbb cccc dddd", Score: 0.2},  // ~5 tokens
		{ID: "high", Text: "eeee ffff gggg hhhh", Score: 0.9}, // ~5 tokens
		{ID: "mid", Text: "iiii jjjj kkkk llll", Score: 0.5},  // ~5 tokens
	}}
	o := NewOrchestrator(store, searcher)

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "q", Seeds: []string{"hero"}, MaxPromptTokens: 11},
		DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "mid"}, hitIDs(bundle.Passages),
		"highest scores first until the budget runs out")
}

func TestBuildContext_NoBudgetKeepsAll(t *testing.T) {
	store := buildStoryStore(t)
	hits := make([]VectorHit, 0, 12)
	for i := 0; i < 12; i++ {
		hits = append(hits, VectorHit{ID: fmt.Sprintf("h%d", i), Text: "text", Score: float64(i)})
	}
	searcher := &stubSearcher{hits: hits}
	o := NewOrchestrator(store, searcher)

	bundle, err := o.BuildContext(context.Background(),
		Query{Text: "q", Seeds: []string{"hero"}}, DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Len(t, bundle.Passages, 12, "no budget returns every hit the searcher produced")
	assert.Equal(t, "h11", bundle.Passages[0].ID, "ranked by descending score")
}

func TestCheckConsistency_DefaultPasses(t *testing.T) {
	o := NewOrchestrator(graph.NewStore(), nil)

	result := o.CheckConsistency("any draft", nil)
	assert.True(t, result.OK)
	assert.Empty(t, result.Issues)

	result = o.CheckConsistency("any draft", &Capability{})
	assert.True(t, result.OK)
}

func TestCheckConsistency_DelegatesUnmodified(t *testing.T) {
	store := buildStoryStore(t)
	o := NewOrchestrator(store, nil)

	capability := &Capability{
		CheckConsistency: func(draft string, s *graph.Store) ConsistencyResult {
			return ConsistencyResult{OK: false, Issues: []string{"Osk is dead in chapter 3"}}
		},
	}
	result := o.CheckConsistency("Osk smiled.", capability)
	assert.False(t, result.OK)
	assert.Equal(t, []string{"Osk is dead in chapter 3"}, result.Issues)
}

func hitIDs(hits []VectorHit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}
