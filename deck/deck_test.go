package deck

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibin_discovery/models"
)

func cards(ids ...string) []models.Candidate {
	out := make([]models.Candidate, len(ids))
	for i, id := range ids {
		out[i] = models.Candidate{ID: id, Name: "name-" + id}
	}
	return out
}

func TestMergeAppendsOnlyUnseen(t *testing.T) {
	d := New(0)

	assert.True(t, d.Merge(cards("A", "B")))
	assert.True(t, d.Merge(cards("B", "C")))
	assert.Equal(t, []string{"A", "B", "C"}, d.IDs())
}

func TestMergeNoOps(t *testing.T) {
	d := New(10)
	require.True(t, d.Merge(cards("A", "B")))

	assert.False(t, d.Merge(nil), "empty batch")
	assert.False(t, d.Merge(cards("B", "A")), "all known")
	assert.Equal(t, []string{"A", "B"}, d.IDs(), "order is never changed")
}

func TestMergeDeduplicatesWithinBatch(t *testing.T) {
	d := New(10)
	d.Merge(cards("A", "A", "B", "", "B"))
	assert.Equal(t, []string{"A", "B"}, d.IDs())
}

func TestMergeTrimsSwipedEntriesKeepingUndoTarget(t *testing.T) {
	d := New(4)
	d.Merge(cards("A", "B", "C", "D"))
	d.Advance()
	d.Advance()
	d.Advance() // cursor on D, C is the undo target

	require.True(t, d.Merge(cards("E", "F")))
	assert.Equal(t, []string{"C", "D", "E", "F"}, d.IDs())
	assert.Equal(t, 1, d.Index())
	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "D", cur.ID)

	d.Retreat()
	cur, _ = d.Current()
	assert.Equal(t, "C", cur.ID)
}

func TestMergeLeavesOutNewestWhenNothingCanBeTrimmed(t *testing.T) {
	d := New(3)
	d.Merge(cards("A", "B"))

	assert.True(t, d.Merge(cards("C", "D", "E")))
	assert.Equal(t, []string{"A", "B", "C"}, d.IDs())

	assert.False(t, d.Merge(cards("D")), "full deck with nothing swiped")
}

func TestAdvanceAndRetreatStayInBounds(t *testing.T) {
	d := New(10)
	assert.Equal(t, 0, d.Retreat())
	assert.Equal(t, 0, d.Advance(), "empty deck")

	d.Merge(cards("A"))
	assert.Equal(t, 1, d.Advance())
	assert.Equal(t, 1, d.Advance())
	_, ok := d.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, d.Remaining())

	assert.Equal(t, 0, d.Retreat())
	assert.Equal(t, 0, d.Retreat())
}

func TestUpcomingAndReset(t *testing.T) {
	d := New(10)
	d.Merge(cards("A", "B", "C"))
	d.Advance()

	assert.Equal(t, cards("B", "C"), d.Upcoming(5))
	assert.Equal(t, cards("B"), d.Upcoming(1))
	assert.Equal(t, 2, d.Remaining())

	d.Reset()
	assert.Zero(t, d.Len())
	assert.Zero(t, d.Index())
	assert.True(t, d.Merge(cards("A")), "ids are forgotten on reset")
}

func TestDeckNeverHoldsDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := New(25)

	for round := 0; round < 500; round++ {
		batch := make([]models.Candidate, rng.Intn(8))
		for i := range batch {
			batch[i] = models.Candidate{ID: fmt.Sprintf("c%d", rng.Intn(60))}
		}
		d.Merge(batch)
		if rng.Intn(3) == 0 {
			d.Advance()
		}

		ids := d.IDs()
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			require.False(t, seen[id], "duplicate %s in round %d", id, round)
			seen[id] = true
		}
		require.LessOrEqual(t, len(ids), 25)
		require.GreaterOrEqual(t, d.Index(), 0)
		require.LessOrEqual(t, d.Index(), len(ids))
	}
}

func TestExclusion(t *testing.T) {
	e := NewExclusion()
	assert.True(t, e.Add("A"))
	assert.False(t, e.Add("A"))
	assert.False(t, e.Add(""))
	assert.True(t, e.Add("B"))

	assert.True(t, e.Has("A"))
	assert.Equal(t, []string{"A", "B"}, e.IDs())
	assert.Equal(t, 2, e.Len())

	e.Clear()
	assert.False(t, e.Has("A"))
	assert.Zero(t, e.Len())
}

func TestPending(t *testing.T) {
	var p Pending
	_, ok := p.Get()
	assert.False(t, ok)

	p.Set(PendingSwipe{Candidate: models.Candidate{ID: "A"}, Direction: models.DirectionRight, SuperLike: true})
	got, ok := p.Get()
	require.True(t, ok)
	assert.Equal(t, "A", got.Candidate.ID)
	assert.True(t, got.SuperLike)

	p.Clear()
	_, ok = p.Get()
	assert.False(t, ok)
}

func TestAdvancePastIgnoresStaleEpoch(t *testing.T) {
	d := New(0)
	d.Merge(cards("A", "B", "C"))
	top, epoch, ok := d.Top()
	require.True(t, ok)
	assert.Equal(t, "A", top.ID)

	d.Reset()
	d.Merge(cards("X", "Y", "Z"))
	index, moved := d.AdvancePast(epoch, top.ID)
	assert.False(t, moved)
	assert.Zero(t, index)
	cur, _ := d.Current()
	assert.Equal(t, "X", cur.ID)

	_, epoch, _ = d.Top()
	_, moved = d.AdvancePast(epoch, "Y")
	assert.False(t, moved, "only the current card can be advanced past")
	index, moved = d.AdvancePast(epoch, "X")
	assert.True(t, moved)
	assert.Equal(t, 1, index)
}

func TestMergeAtDropsBatchFromBeforeReset(t *testing.T) {
	d := New(0)
	epoch := d.Epoch()
	d.Reset()
	assert.False(t, d.MergeAt(epoch, cards("A")))
	assert.Zero(t, d.Len())
	assert.True(t, d.MergeAt(d.Epoch(), cards("B")))
	assert.Equal(t, []string{"B"}, d.IDs())
}

func TestExclusionAddAtIgnoresClearedEpoch(t *testing.T) {
	e := NewExclusion()
	epoch := e.Epoch()
	assert.True(t, e.AddAt(epoch, "A"))
	assert.False(t, e.AddAt(epoch, "A"))

	e.Clear()
	assert.False(t, e.AddAt(epoch, "B"))
	assert.Zero(t, e.Len())
	assert.True(t, e.AddAt(e.Epoch(), "C"))
	assert.Equal(t, []string{"C"}, e.IDs())
}

func TestPendingClearIf(t *testing.T) {
	var p Pending
	p.Set(PendingSwipe{Candidate: models.Candidate{ID: "A"}})
	p.ClearIf("B")
	_, ok := p.Get()
	assert.True(t, ok)
	p.ClearIf("A")
	_, ok = p.Get()
	assert.False(t, ok)
}
