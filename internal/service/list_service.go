package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/pkg/apperror"
	"gorm.io/gorm"
)

type ListService interface {
	GetDemons(ctx context.Context, filter dto.DemonFilter) ([]dto.DemonResponse, error)
	GetDemon(ctx context.Context, id uuid.UUID) (*dto.DemonResponse, error)
	CreateDemon(ctx context.Context, req dto.CreateDemonRequest) (*dto.DemonResponse, error)
	UpdateDemon(ctx context.Context, id uuid.UUID, req dto.UpdateDemonRequest) (*dto.DemonResponse, error)
	Reorder(ctx context.Context, req dto.ReorderRequest) error
	DeleteDemon(ctx context.Context, id uuid.UUID) error
}

// listLocks serializes mutating list operations per list type. Two concurrent
// reorders on one list would otherwise interleave their quarantine writes.
type listLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *listLocks) forList(listType string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[listType]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[listType] = lock
	}
	return lock
}

type listService struct {
	demons    repository.DemonRepository
	search    SearchService
	maxRanked map[string]int
	locks     listLocks
}

func NewListService(demons repository.DemonRepository, search SearchService, maxRanked map[string]int) ListService {
	return &listService{
		demons:    demons,
		search:    search,
		maxRanked: maxRanked,
	}
}

func (s *listService) maxRankedFor(listType string) int {
	if m, ok := s.maxRanked[listType]; ok {
		return m
	}
	return 200
}

func (s *listService) GetDemons(ctx context.Context, filter dto.DemonFilter) ([]dto.DemonResponse, error) {
	var (
		demons []model.Demon
		err    error
	)
	if filter.ListType != "" {
		demons, err = s.demons.FindByListType(ctx, filter.ListType)
	} else {
		demons, err = s.demons.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DemonResponse, 0, len(demons))
	for i := range demons {
		responses = append(responses, toDemonResponse(&demons[i]))
	}

	return responses, nil
}

func (s *listService) GetDemon(ctx context.Context, id uuid.UUID) (*dto.DemonResponse, error) {
	demon, err := s.demons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	resp := toDemonResponse(demon)
	return &resp, nil
}

// CreateDemon inserts a demon at the requested position. Every demon at or
// after that position moves down one slot and gets its points recomputed.
func (s *listService) CreateDemon(ctx context.Context, req dto.CreateDemonRequest) (*dto.DemonResponse, error) {
	lock := s.locks.forList(req.ListType)
	lock.Lock()
	defer lock.Unlock()

	m := s.maxRankedFor(req.ListType)
	demon := &model.Demon{
		Name:       req.Name,
		Creator:    req.Creator,
		Verifier:   req.Verifier,
		VerifierID: req.VerifierID,
		Difficulty: req.Difficulty,
		ListType:   req.ListType,
		VideoURL:   req.VideoURL,
	}

	err := s.demons.Transact(ctx, func(tx repository.DemonRepository) error {
		existing, err := tx.FindByListType(ctx, req.ListType)
		if err != nil {
			return err
		}

		n := len(existing)
		if req.Position > n+1 {
			return apperror.New(0, fmt.Sprintf("position must be between 1 and %d", n+1), apperror.ErrInvalidPosition)
		}

		// Shift the tail highest-position first so the unique
		// (list_type, position) index never sees a duplicate.
		for i := n - 1; i >= 0; i-- {
			if existing[i].Position < req.Position {
				break
			}
			newPos := existing[i].Position + 1
			if err := tx.SetPlacement(ctx, existing[i].ID, newPos, PointsForPosition(newPos, m)); err != nil {
				return err
			}
		}

		demon.Position = req.Position
		demon.Points = PointsForPosition(req.Position, m)
		return tx.Create(ctx, demon)
	})
	if err != nil {
		return nil, err
	}

	s.indexDemon(demon)

	resp := toDemonResponse(demon)
	return &resp, nil
}

// UpdateDemon edits descriptive fields in place. A position change is a rank
// move and goes through the same two-phase machinery as a bulk reorder.
func (s *listService) UpdateDemon(ctx context.Context, id uuid.UUID, req dto.UpdateDemonRequest) (*dto.DemonResponse, error) {
	demon, err := s.demons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Hold the list lock for the whole update so a concurrent insert or
	// reorder cannot invalidate the move computed below. The list type never
	// changes, so the lock picked here stays the right one.
	lock := s.locks.forList(demon.ListType)
	lock.Lock()
	defer lock.Unlock()

	// The move runs first: an invalid position must leave the demon entirely
	// unchanged, descriptive fields included.
	if req.Position != nil && *req.Position != demon.Position {
		if err := s.moveDemon(ctx, demon, *req.Position); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Creator != nil {
		fields["creator"] = *req.Creator
	}
	if req.Verifier != nil {
		fields["verifier"] = *req.Verifier
	}
	if req.VerifierID != nil {
		fields["verifier_id"] = *req.VerifierID
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.VideoURL != nil {
		fields["video_url"] = *req.VideoURL
	}

	if len(fields) > 0 {
		if err := s.demons.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.demons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.indexDemon(updated)

	resp := toDemonResponse(updated)
	return &resp, nil
}

// moveDemon re-ranks the demon's list with the demon pulled out of its old
// slot and dropped into the new one, then reorders whatever actually moved.
// The resulting list is dense 1..N, which also compacts any gap a previous
// delete left behind. The caller must hold the list lock.
func (s *listService) moveDemon(ctx context.Context, demon *model.Demon, newPos int) error {
	existing, err := s.demons.FindByListType(ctx, demon.ListType)
	if err != nil {
		return err
	}

	if newPos < 1 || newPos > len(existing) {
		return apperror.New(0, fmt.Sprintf("position must be between 1 and %d", len(existing)), apperror.ErrInvalidPosition)
	}

	ordered := make([]model.Demon, 0, len(existing))
	for _, d := range existing {
		if d.ID != demon.ID {
			ordered = append(ordered, d)
		}
	}
	ordered = append(ordered[:newPos-1], append([]model.Demon{*demon}, ordered[newPos-1:]...)...)

	assignments := make([]dto.ReorderAssignment, 0, len(ordered))
	for i, d := range ordered {
		if d.Position != i+1 {
			assignments = append(assignments, dto.ReorderAssignment{DemonID: d.ID, Position: i + 1})
		}
	}
	if len(assignments) == 0 {
		return nil
	}

	return s.reorderLocked(ctx, dto.ReorderRequest{ListType: demon.ListType, Assignments: assignments})
}

// Reorder applies a batch of (demon, position) assignments in two phases
// inside one transaction. Phase one parks every named demon on a distinct
// negative position so no write can collide with a live position; phase two
// writes the final positions with freshly computed points.
func (s *listService) Reorder(ctx context.Context, req dto.ReorderRequest) error {
	lock := s.locks.forList(req.ListType)
	lock.Lock()
	defer lock.Unlock()

	return s.reorderLocked(ctx, req)
}

// reorderLocked is the body of Reorder; the caller must hold the list lock.
func (s *listService) reorderLocked(ctx context.Context, req dto.ReorderRequest) error {
	m := s.maxRankedFor(req.ListType)

	err := s.demons.Transact(ctx, func(tx repository.DemonRepository) error {
		existing, err := tx.FindByListType(ctx, req.ListType)
		if err != nil {
			return err
		}

		if err := validateReorder(existing, req.Assignments); err != nil {
			return err
		}

		// Quarantine: distinct negatives, disjoint from every valid position.
		for i, a := range req.Assignments {
			if err := tx.SetPosition(ctx, a.DemonID, -(i + 1)); err != nil {
				return err
			}
		}

		// Commit: final position plus the points the curve dictates for it.
		for _, a := range req.Assignments {
			if err := tx.SetPlacement(ctx, a.DemonID, a.Position, PointsForPosition(a.Position, m)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Positions changed; refresh the search index outside the transaction.
	for _, a := range req.Assignments {
		d, err := s.demons.FindByID(ctx, a.DemonID)
		if err == nil {
			s.indexDemon(d)
		}
	}

	return nil
}

// validateReorder rejects an assignment batch before anything is written.
// Unknown demons, duplicate demons, and duplicate target positions are
// errors, as is any batch whose application would leave two demons sharing a
// position. When the list is currently dense the result must stay dense.
func validateReorder(existing []model.Demon, assignments []dto.ReorderAssignment) error {
	currentPos := make(map[uuid.UUID]int, len(existing))
	for _, d := range existing {
		currentPos[d.ID] = d.Position
	}

	targets := make(map[uuid.UUID]int, len(assignments))
	usedTargets := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		if _, ok := currentPos[a.DemonID]; !ok {
			return apperror.New(0, fmt.Sprintf("demon %s is not on this list", a.DemonID), apperror.ErrNotFound)
		}
		if _, dup := targets[a.DemonID]; dup {
			return apperror.New(0, fmt.Sprintf("demon %s assigned twice", a.DemonID), apperror.ErrInvalidPosition)
		}
		if usedTargets[a.Position] {
			return apperror.New(0, fmt.Sprintf("position %d assigned twice", a.Position), apperror.ErrInvalidPosition)
		}
		targets[a.DemonID] = a.Position
		usedTargets[a.Position] = true
	}

	final := make(map[int]bool, len(existing))
	for _, d := range existing {
		pos := d.Position
		if t, ok := targets[d.ID]; ok {
			pos = t
		}
		if final[pos] {
			return apperror.New(0, fmt.Sprintf("position %d would be held twice", pos), apperror.ErrInvalidPosition)
		}
		final[pos] = true
	}

	if isDense(existing) {
		for i := 1; i <= len(existing); i++ {
			if !final[i] {
				return apperror.New(0, fmt.Sprintf("positions must stay dense, %d would be left empty", i), apperror.ErrInvalidPosition)
			}
		}
	}

	return nil
}

func isDense(demons []model.Demon) bool {
	held := make(map[int]bool, len(demons))
	for _, d := range demons {
		held[d.Position] = true
	}
	for i := 1; i <= len(demons); i++ {
		if !held[i] {
			return false
		}
	}
	return true
}

// DeleteDemon removes the demon; its records go with it through the foreign
// key cascade. Remaining positions keep their values; compaction is an
// explicit follow-up reorder.
func (s *listService) DeleteDemon(ctx context.Context, id uuid.UUID) error {
	demon, err := s.demons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	lock := s.locks.forList(demon.ListType)
	lock.Lock()
	defer lock.Unlock()

	if err := s.demons.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteDemon(id.String()); err != nil {
			log.Printf("failed to remove demon %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *listService) indexDemon(demon *model.Demon) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexDemon(demon); err != nil {
		log.Printf("failed to index demon %s: %v", demon.ID, err)
	}
}

func toDemonResponse(d *model.Demon) dto.DemonResponse {
	return dto.DemonResponse{
		ID:              d.ID,
		Name:            d.Name,
		Creator:         d.Creator,
		Verifier:        d.Verifier,
		VerifierID:      d.VerifierID,
		Difficulty:      d.Difficulty,
		ListType:        d.ListType,
		Position:        d.Position,
		Points:          d.Points,
		VideoURL:        d.VideoURL,
		CompletionCount: d.CompletionCount,
		CreatedAt:       d.CreatedAt,
	}
}
