package service

import (
	"context"
	"testing"

	"github.com/mintygd/demonlist/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardSingleCompletion(t *testing.T) {
	users := newFakeUserRepo()
	alice := users.add("alice")
	users.add("bob") // no records, must not appear

	repo := &fakeLeaderboardRepo{
		completions: []repository.UserPointTotal{
			{UserID: alice.ID, Points: 300, Completions: 1},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Completions)
	assert.Equal(t, 300, entries[0].CompletionPoints)
	assert.Equal(t, 0, entries[0].VerifierPoints)
	assert.Equal(t, 300, entries[0].TotalPoints)
}

func TestLeaderboardCombinesCompletionAndVerifierPoints(t *testing.T) {
	users := newFakeUserRepo()
	alice := users.add("alice")
	bob := users.add("bob")

	repo := &fakeLeaderboardRepo{
		completions: []repository.UserPointTotal{
			{UserID: alice.ID, Points: 297, Completions: 1},
			{UserID: bob.ID, Points: 300, Completions: 1},
		},
		verifications: []repository.UserPointTotal{
			{UserID: alice.ID, Points: 295},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 297, entries[0].CompletionPoints)
	assert.Equal(t, 295, entries[0].VerifierPoints)
	assert.Equal(t, 592, entries[0].TotalPoints)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, 300, entries[1].TotalPoints)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardVerifierOnlyUserRanked(t *testing.T) {
	users := newFakeUserRepo()
	alice := users.add("alice")

	repo := &fakeLeaderboardRepo{
		verifications: []repository.UserPointTotal{
			{UserID: alice.ID, Points: 300},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Completions)
	assert.Equal(t, 300, entries[0].VerifierPoints)
	assert.Equal(t, 300, entries[0].TotalPoints)
}

func TestLeaderboardExcludesZeroTotals(t *testing.T) {
	users := newFakeUserRepo()
	alice := users.add("alice")

	// A completion on an unranked demon is worth zero points.
	repo := &fakeLeaderboardRepo{
		completions: []repository.UserPointTotal{
			{UserID: alice.ID, Points: 0, Completions: 1},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardTiesBrokenByUsername(t *testing.T) {
	users := newFakeUserRepo()
	zed := users.add("zed")
	amy := users.add("amy")

	repo := &fakeLeaderboardRepo{
		completions: []repository.UserPointTotal{
			{UserID: zed.ID, Points: 300, Completions: 1},
			{UserID: amy.ID, Points: 300, Completions: 1},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "zed", entries[1].Username)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardRanksAreDense(t *testing.T) {
	users := newFakeUserRepo()
	a := users.add("a")
	b := users.add("b")
	c := users.add("c")

	repo := &fakeLeaderboardRepo{
		completions: []repository.UserPointTotal{
			{UserID: a.ID, Points: 600, Completions: 2},
			{UserID: b.ID, Points: 300, Completions: 1},
			{UserID: c.ID, Points: 150, Completions: 1},
		},
	}
	svc := NewLeaderboardService(repo, users, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, 600, entries[0].TotalPoints)
	assert.Equal(t, 300, entries[1].TotalPoints)
	assert.Equal(t, 150, entries[2].TotalPoints)
}
