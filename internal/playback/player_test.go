package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T) *Player {
	t.Helper()
	p := NewPlayer()
	p.Load(exampleTemplate())
	require.NotNil(t, p.State())
	return p
}

func TestPlayer_ExampleScenario(t *testing.T) {
	p := loaded(t)

	st := p.State()
	assert.Equal(t, 4, st.Total())
	assert.Equal(t, 0, st.Cursor)
	assert.Empty(t, st.Statuses)
	assert.NotEmpty(t, st.SessionID)

	p.JumpToSection(1)
	assert.Equal(t, 3, p.State().Cursor)

	p.ToggleByID("a3")
	sums := SectionSummaries(p.State())
	require.Len(t, sums, 2)
	assert.Equal(t, SectionSummary{Title: "A", Done: 1, Total: 3}, sums[0])
	assert.Equal(t, SectionSummary{Title: "B", Done: 0, Total: 1}, sums[1])
}

func TestPlayer_NothingLoaded(t *testing.T) {
	p := NewPlayer()
	calls := 0
	cancel := p.Subscribe(func(*State) { calls++ })
	defer cancel()

	p.Next()
	p.Prev()
	p.JumpTo(2)
	p.JumpToSection(0)
	p.ToggleCurrentDone()
	p.ToggleByID("a1")
	p.SetStatus("a1", StatusDone)
	p.CheckAndAdvance()
	p.TogglePause()
	p.Reset()

	assert.Nil(t, p.State())
	assert.Equal(t, 1, calls, "only the initial replay should be delivered")
}

func TestPlayer_NavigationSaturates(t *testing.T) {
	p := loaded(t)

	p.Prev()
	assert.Equal(t, 0, p.State().Cursor)

	for i := 0; i < 10; i++ {
		p.Next()
	}
	assert.Equal(t, 3, p.State().Cursor)
	assert.True(t, p.State().IsLast())
	assert.Equal(t, 1.0, p.State().Progress())

	p.Prev()
	assert.Equal(t, 2, p.State().Cursor)
}

func TestPlayer_JumpToClamps(t *testing.T) {
	tests := []struct {
		target, want int
	}{
		{-5, 0},
		{0, 0},
		{2, 2},
		{3, 3},
		{99, 3},
	}
	for _, tt := range tests {
		p := loaded(t)
		p.JumpTo(tt.target)
		if got := p.State().Cursor; got != tt.want {
			t.Errorf("JumpTo(%d) cursor = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestPlayer_JumpToSection(t *testing.T) {
	p := NewPlayer()
	p.Load(tpl(
		section("a", "A", item("1")),
		section("b", "B"),
		section("c", "C", item("2"), item("3")),
		section("d", "D"),
	))

	p.JumpToSection(2)
	assert.Equal(t, 1, p.State().Cursor)

	p.JumpToSection(0)
	assert.Equal(t, 0, p.State().Cursor)

	p.JumpToSection(1)
	assert.Equal(t, 1, p.State().Cursor, "empty section resolves to the next non-empty one")

	p.JumpTo(2)
	p.JumpToSection(3)
	assert.Equal(t, 2, p.State().Cursor, "trailing empty section is a no-op")

	p.JumpToSection(4)
	p.JumpToSection(-1)
	assert.Equal(t, 2, p.State().Cursor, "out of range is a no-op")
}

func TestPlayer_ToggleDoubleRestores(t *testing.T) {
	p := loaded(t)

	p.ToggleCurrentDone()
	assert.Equal(t, StatusDone, p.State().StatusOf("a1"))
	p.ToggleCurrentDone()
	assert.Equal(t, StatusPending, p.State().StatusOf("a1"))

	p.SetStatus("a2", StatusSkipped)
	p.ToggleByID("a2")
	assert.Equal(t, StatusDone, p.State().StatusOf("a2"))
	p.ToggleByID("a2")
	assert.Equal(t, StatusPending, p.State().StatusOf("a2"))
	assert.Equal(t, 0, p.State().Cursor, "ToggleByID must not move the cursor")
}

func TestPlayer_CheckAndSkipAdvance(t *testing.T) {
	p := loaded(t)

	p.CheckAndAdvance()
	p.SkipAndAdvance()
	st := p.State()
	assert.Equal(t, 2, st.Cursor)
	assert.Equal(t, StatusDone, st.StatusOf("a1"))
	assert.Equal(t, StatusSkipped, st.StatusOf("a2"))

	p.JumpTo(3)
	p.CheckAndAdvance()
	assert.Equal(t, 3, p.State().Cursor)
	assert.Equal(t, StatusDone, p.State().StatusOf("b1"))

	o := Overall(p.State())
	assert.Equal(t, OverallSummary{Done: 2, Skipped: 1, Pending: 1, Total: 4}, o)
	assert.Equal(t, 0.5, p.State().Completion())
}

func TestPlayer_NoOpsDoNotPublish(t *testing.T) {
	p := loaded(t)
	var got []*State
	cancel := p.Subscribe(func(s *State) { got = append(got, s) })
	defer cancel()

	p.Prev()
	p.JumpTo(0)
	p.Resume()
	p.SetStatus("a1", StatusDone)
	p.SetStatus("a1", StatusDone)

	assert.Len(t, got, 2, "replay plus one real change")
}

func TestPlayer_SnapshotsAreImmutable(t *testing.T) {
	p := loaded(t)
	before := p.State()

	p.Next()
	p.ToggleByID("a1")
	p.Pause()

	assert.Equal(t, 0, before.Cursor)
	assert.Equal(t, StatusPending, before.StatusOf("a1"))
	assert.False(t, before.Paused)

	after := p.State()
	assert.Equal(t, 1, after.Cursor)
	assert.True(t, after.Paused)
	assert.Same(t, before.Flat, after.Flat)
}

func TestPlayer_PauseDoesNotBlockNavigation(t *testing.T) {
	p := loaded(t)
	p.Pause()
	p.Next()
	assert.True(t, p.State().Paused)
	assert.Equal(t, 1, p.State().Cursor)

	p.TogglePause()
	assert.False(t, p.State().Paused)
}

func TestPlayer_LoadAlwaysReloads(t *testing.T) {
	p := loaded(t)
	first := p.State().SessionID
	p.Next()
	p.ToggleByID("a1")

	p.Load(exampleTemplate())
	st := p.State()
	assert.Equal(t, 0, st.Cursor)
	assert.Empty(t, st.Statuses)
	assert.NotEqual(t, first, st.SessionID)
}

func TestPlayer_Restore(t *testing.T) {
	p := NewPlayer()
	p.Restore(exampleTemplate(), Checkpoint{
		Cursor: 9,
		Statuses: Statuses{
			"a1":   StatusDone,
			"b1":   StatusSkipped,
			"gone": StatusDone,
		},
		Paused: true,
	})

	st := p.State()
	assert.Equal(t, 3, st.Cursor)
	assert.True(t, st.Paused)
	assert.Equal(t, StatusDone, st.StatusOf("a1"))
	assert.Equal(t, StatusSkipped, st.StatusOf("b1"))
	_, ok := st.Statuses["gone"]
	assert.False(t, ok, "statuses for unknown ids are dropped")
}

func TestPlayer_EmptyTemplate(t *testing.T) {
	p := NewPlayer()
	p.Load(tpl(section("a", "A")))

	st := p.State()
	require.NotNil(t, st)
	assert.Equal(t, 0, st.Total())
	assert.Equal(t, 0.0, st.Progress())
	_, ok := st.Current()
	assert.False(t, ok)

	p.Next()
	p.ToggleCurrentDone()
	p.JumpTo(1)
	assert.Same(t, st, p.State())
}

func TestPlayer_Reset(t *testing.T) {
	p := loaded(t)
	var last *State
	seen := 0
	cancel := p.Subscribe(func(s *State) { last = s; seen++ })
	defer cancel()

	p.Reset()
	assert.Nil(t, p.State())
	assert.Nil(t, last)
	assert.Equal(t, 2, seen)
}

func TestPlayer_ProgressBounds(t *testing.T) {
	p := loaded(t)
	for i := 0; i < 6; i++ {
		pr := p.State().Progress()
		assert.True(t, pr > 0 && pr <= 1, "progress %v out of range", pr)
		for _, s := range SectionSummaries(p.State()) {
			assert.LessOrEqual(t, s.Done, s.Total)
		}
		p.CheckAndAdvance()
	}
}

func TestPlayer_ConcurrentMutations(t *testing.T) {
	p := loaded(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.Next()
				p.ToggleCurrentDone()
				p.Prev()
			}
		}()
	}
	wg.Wait()

	st := p.State()
	assert.GreaterOrEqual(t, st.Cursor, 0)
	assert.Less(t, st.Cursor, st.Total())
}

func TestPlayer_InterleavedPublishKeepsLatest(t *testing.T) {
	p := loaded(t)
	var last *State
	cancel := p.Subscribe(func(s *State) { last = s })
	defer cancel()

	// A writer that committed but has not delivered yet is overtaken by a
	// second, complete mutation.
	p.mu.Lock()
	stale := p.state.moveTo(1)
	p.commit(stale)
	p.mu.Unlock()

	p.Next()
	p.hub.flush()

	require.NotSame(t, stale, p.State())
	assert.Same(t, p.State(), p.hub.Value())
	assert.Same(t, p.State(), last)
	assert.Equal(t, 2, last.Cursor)
}

func TestPlayer_ConcurrentMutationsPublishFinalState(t *testing.T) {
	p := loaded(t)
	var (
		mu   sync.Mutex
		last *State
	)
	cancel := p.Subscribe(func(s *State) {
		mu.Lock()
		last = s
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Next()
				p.Prev()
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Same(t, p.State(), p.hub.Value())
	assert.Same(t, p.State(), last)
}

func TestPlayer_Watch(t *testing.T) {
	p := loaded(t)
	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Watch(ctx)

	first := <-ch
	assert.Equal(t, 0, first.Cursor)

	p.Next()
	p.Next()
	select {
	case st := <-ch:
		assert.Equal(t, 2, st.Cursor, "slow reader sees only the latest snapshot")
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	for range ch {
	}
}
