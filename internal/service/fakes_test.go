package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/pkg/apperror"
	"gorm.io/gorm"
)

// fakeDemonRepo is an in-memory DemonRepository. Like the real store it
// rejects any write that would give two demons in one list the same
// position, so tests catch shift orderings that would trip the unique index.
type fakeDemonRepo struct {
	demons map[uuid.UUID]*model.Demon
}

func newFakeDemonRepo() *fakeDemonRepo {
	return &fakeDemonRepo{demons: make(map[uuid.UUID]*model.Demon)}
}

func (f *fakeDemonRepo) checkUnique(id uuid.UUID, listType string, position int) error {
	for _, d := range f.demons {
		if d.ID != id && d.ListType == listType && d.Position == position {
			return fmt.Errorf("duplicate position %d in list %s", position, listType)
		}
	}
	return nil
}

func (f *fakeDemonRepo) Create(ctx context.Context, demon *model.Demon) error {
	if demon.ID == uuid.Nil {
		demon.ID = uuid.New()
	}
	if err := f.checkUnique(demon.ID, demon.ListType, demon.Position); err != nil {
		return err
	}
	copied := *demon
	f.demons[demon.ID] = &copied
	return nil
}

func (f *fakeDemonRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Demon, error) {
	demon, ok := f.demons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *demon
	return &copied, nil
}

func (f *fakeDemonRepo) FindAll(ctx context.Context) ([]model.Demon, error) {
	var demons []model.Demon
	for _, d := range f.demons {
		demons = append(demons, *d)
	}
	sort.Slice(demons, func(i, j int) bool {
		if demons[i].ListType != demons[j].ListType {
			return demons[i].ListType < demons[j].ListType
		}
		return demons[i].Position < demons[j].Position
	})
	return demons, nil
}

func (f *fakeDemonRepo) FindByListType(ctx context.Context, listType string) ([]model.Demon, error) {
	var demons []model.Demon
	for _, d := range f.demons {
		if d.ListType == listType {
			demons = append(demons, *d)
		}
	}
	sort.Slice(demons, func(i, j int) bool {
		return demons[i].Position < demons[j].Position
	})
	return demons, nil
}

func (f *fakeDemonRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	demon, ok := f.demons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			demon.Name = value.(string)
		case "creator":
			demon.Creator = value.(string)
		case "verifier":
			v := value.(string)
			demon.Verifier = &v
		case "verifier_id":
			v := value.(uuid.UUID)
			demon.VerifierID = &v
		case "difficulty":
			demon.Difficulty = value.(string)
		case "video_url":
			v := value.(string)
			demon.VideoURL = &v
		}
	}
	return nil
}

func (f *fakeDemonRepo) SetPosition(ctx context.Context, id uuid.UUID, position int) error {
	demon, ok := f.demons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if err := f.checkUnique(id, demon.ListType, position); err != nil {
		return err
	}
	demon.Position = position
	return nil
}

func (f *fakeDemonRepo) SetPlacement(ctx context.Context, id uuid.UUID, position, points int) error {
	demon, ok := f.demons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if err := f.checkUnique(id, demon.ListType, position); err != nil {
		return err
	}
	demon.Position = position
	demon.Points = points
	return nil
}

func (f *fakeDemonRepo) IncrementCompletionCount(ctx context.Context, id uuid.UUID, delta int) error {
	demon, ok := f.demons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	demon.CompletionCount += delta
	return nil
}

func (f *fakeDemonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.demons, id)
	return nil
}

func (f *fakeDemonRepo) Transact(ctx context.Context, fn func(repo repository.DemonRepository) error) error {
	return fn(f)
}

type fakeRecordRepo struct {
	records map[uuid.UUID]*model.Record
	demons  *fakeDemonRepo
}

func newFakeRecordRepo(demons *fakeDemonRepo) *fakeRecordRepo {
	return &fakeRecordRepo{
		records: make(map[uuid.UUID]*model.Record),
		demons:  demons,
	}
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *model.Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.SubmittedAt = time.Now()
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

func (f *fakeRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRecordRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Record, error) {
	var records []model.Record
	for _, r := range f.records {
		if r.UserID == userID {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SubmittedAt.After(records[j].SubmittedAt)
	})
	return records, nil
}

func (f *fakeRecordRepo) FindAllWithRelations(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	for _, r := range f.records {
		copied := *r
		if demon, ok := f.demons.demons[r.DemonID]; ok {
			copied.Demon = *demon
		}
		records = append(records, copied)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SubmittedAt.After(records[j].SubmittedAt)
	})
	return records, nil
}

func (f *fakeRecordRepo) Review(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, reviewedAt time.Time) error {
	record, ok := f.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if record.Status != model.RecordStatusPending {
		return apperror.ErrAlreadyReviewed
	}
	record.Status = status
	record.ReviewedAt = &reviewedAt
	record.ReviewedBy = &reviewerID
	if status == model.RecordStatusApproved {
		return f.demons.IncrementCompletionCount(ctx, record.DemonID, 1)
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) add(username string) *model.User {
	user := &model.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := f.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	var users []model.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, roleID uint) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RoleID = &roleID
	return nil
}

type fakeLeaderboardRepo struct {
	completions   []repository.UserPointTotal
	verifications []repository.UserPointTotal
}

func (f *fakeLeaderboardRepo) CompletionTotals(ctx context.Context) ([]repository.UserPointTotal, error) {
	return f.completions, nil
}

func (f *fakeLeaderboardRepo) VerifierTotals(ctx context.Context) ([]repository.UserPointTotal, error) {
	return f.verifications, nil
}
