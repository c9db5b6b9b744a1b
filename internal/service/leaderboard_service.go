package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardCacheKey = "leaderboard:v1"
	leaderboardCacheTTL = 30 * time.Second
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo        repository.LeaderboardRepository
	users       repository.UserRepository
	redisClient *redis.Client
}

func NewLeaderboardService(repo repository.LeaderboardRepository, users repository.UserRepository, redisClient *redis.Client) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		users:       users,
		redisClient: redisClient,
	}
}

// GetLeaderboard ranks every user with a non-zero total. A user's total is
// the points of all demons they hold an approved record on, plus the points
// of all demons they verified. Ranks are dense, ties broken by username so
// the ordering is stable between requests.
func (s *leaderboardService) GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	completions, err := s.repo.CompletionTotals(ctx)
	if err != nil {
		return nil, err
	}
	verifications, err := s.repo.VerifierTotals(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]*dto.LeaderboardEntry)
	for _, t := range completions {
		totals[t.UserID] = &dto.LeaderboardEntry{
			UserID:           t.UserID,
			Completions:      t.Completions,
			CompletionPoints: t.Points,
		}
	}
	for _, t := range verifications {
		entry, ok := totals[t.UserID]
		if !ok {
			entry = &dto.LeaderboardEntry{UserID: t.UserID}
			totals[t.UserID] = entry
		}
		entry.VerifierPoints += t.Points
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for id, entry := range totals {
		entry.TotalPoints = entry.CompletionPoints + entry.VerifierPoints
		if entry.TotalPoints > 0 {
			ids = append(ids, id)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i := range users {
		entry, ok := totals[users[i].ID]
		if !ok {
			continue
		}
		entry.Username = users[i].Username
		entry.AvatarURL = users[i].AvatarURL
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.writeCache(ctx, entries)
	return entries, nil
}

func (s *leaderboardService) readCache(ctx context.Context) []dto.LeaderboardEntry {
	if s.redisClient == nil {
		return nil
	}
	payload, err := s.redisClient.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var entries []dto.LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil
	}
	return entries
}

func (s *leaderboardService) writeCache(ctx context.Context, entries []dto.LeaderboardEntry) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
		log.Printf("failed to cache leaderboard: %v", err)
	}
}
