package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordService(demons *fakeDemonRepo) (RecordService, *fakeRecordRepo) {
	records := newFakeRecordRepo(demons)
	return NewRecordService(records, demons, nil, time.Minute), records
}

func TestSubmitRecordCreatesPending(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, _ := newTestRecordService(demons)

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RecordStatusPending, resp.Status)
	assert.Equal(t, userID, resp.UserID)
	assert.Nil(t, resp.ReviewedAt)
	assert.Nil(t, resp.ReviewedBy)
}

func TestSubmitRecordUnknownDemon(t *testing.T) {
	demons := newFakeDemonRepo()
	svc, _ := newTestRecordService(demons)

	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitRecordRequest{
		DemonID:  uuid.New(),
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApproveRecordIncrementsCompletionCount(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, records := newTestRecordService(demons)

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	reviewerID := uuid.New()
	require.NoError(t, svc.Approve(context.Background(), reviewerID, resp.ID))

	record, err := records.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecordStatusApproved, record.Status)
	require.NotNil(t, record.ReviewedBy)
	assert.Equal(t, reviewerID, *record.ReviewedBy)
	assert.NotNil(t, record.ReviewedAt)

	demon, err := demons.FindByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, demon.CompletionCount)
}

func TestApproveRecordTwiceRejected(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, _ := newTestRecordService(demons)

	resp, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), uuid.New(), resp.ID))
	err = svc.Approve(context.Background(), uuid.New(), resp.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReviewed)

	// The count was only credited once.
	demon, err := demons.FindByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, demon.CompletionCount)
}

func TestRejectRecordLeavesCompletionCount(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, records := newTestRecordService(demons)

	resp, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), uuid.New(), resp.ID))

	record, err := records.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RecordStatusRejected, record.Status)

	demon, err := demons.FindByID(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, demon.CompletionCount)
}

func TestApproveAfterRejectRejected(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, _ := newTestRecordService(demons)

	resp, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), uuid.New(), resp.ID))
	err = svc.Approve(context.Background(), uuid.New(), resp.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReviewed)
}

func TestResubmitAfterReview(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, _ := newTestRecordService(demons)

	userID := uuid.New()
	first, err := svc.Submit(context.Background(), userID, dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Reject(context.Background(), uuid.New(), first.ID))

	// The review clears the submit cooldown, so a fresh attempt goes through.
	second, err := svc.Submit(context.Background(), userID, dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=def",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.RecordStatusPending, second.Status)
}

func TestReviewUnknownRecord(t *testing.T) {
	demons := newFakeDemonRepo()
	svc, _ := newTestRecordService(demons)

	err := svc.Approve(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetByUserReturnsOwnRecordsOnly(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 2)
	svc, _ := newTestRecordService(demons)

	alice := uuid.New()
	bob := uuid.New()
	for _, demon := range seeded {
		_, err := svc.Submit(context.Background(), alice, dto.SubmitRecordRequest{
			DemonID:  demon.ID,
			VideoURL: "https://youtube.com/watch?v=abc",
		})
		require.NoError(t, err)
	}
	_, err := svc.Submit(context.Background(), bob, dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=def",
	})
	require.NoError(t, err)

	mine, err := svc.GetByUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, alice, r.UserID)
	}
}

func TestGetReviewQueueIncludesDemonDetails(t *testing.T) {
	demons := newFakeDemonRepo()
	seeded := seedList(t, demons, model.ListTypeDemonlist, 1)
	svc, _ := newTestRecordService(demons)

	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitRecordRequest{
		DemonID:  seeded[0].ID,
		VideoURL: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	queue, err := svc.GetReviewQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, seeded[0].Name, queue[0].Demon.Name)
	assert.Equal(t, seeded[0].Points, queue[0].Demon.Points)
}
