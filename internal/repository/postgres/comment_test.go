package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

func submitterComment() *domain.Comment {
	return &domain.Comment{
		ID:         "com-002",
		ReviewID:   "rev-001",
		AuthorID:   "user-001",
		AuthorRole: domain.AuthorRoleSubmitter,
		Content:    "Added it, thanks!",
		CreatedAt:  baseTime.Add(2 * time.Minute),
	}
}

func TestCommentRepository_Append(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)
	c := submitterComment()

	mock.ExpectExec("INSERT INTO review_comments").
		WithArgs(c.ID, c.ReviewID, c.AuthorID, "submitter", c.Content, c.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Append(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Append_MissingReview(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)

	c := submitterComment()

	mock.ExpectExec("INSERT INTO review_comments").
		WithArgs(c.ID, c.ReviewID, c.AuthorID, "submitter", c.Content, c.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	err := repo.Append(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Append_OtherError(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)

	c := submitterComment()

	mock.ExpectExec("INSERT INTO review_comments").
		WithArgs(c.ID, c.ReviewID, c.AuthorID, "submitter", c.Content, c.CreatedAt).
		WillReturnError(errors.New("connection refused"))

	err := repo.Append(context.Background(), c)
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByReview_Ordered(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)
	first := moderatorComment()
	second := submitterComment()

	mock.ExpectQuery("FROM review_comments WHERE review_id = \\$1 ORDER BY created_at ASC, id ASC").
		WithArgs("rev-001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "review_id", "author_id", "author_role", "content", "created_at"}).
			AddRow(first.ID, first.ReviewID, first.AuthorID, "moderator", first.Content, first.CreatedAt).
			AddRow(second.ID, second.ReviewID, second.AuthorID, "submitter", second.Content, second.CreatedAt))

	comments, err := repo.ListByReview(context.Background(), "rev-001")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, *first, comments[0])
	assert.Equal(t, *second, comments[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByReview_Empty(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)

	mock.ExpectQuery("FROM review_comments").
		WithArgs("rev-009").
		WillReturnRows(pgxmock.NewRows([]string{"id", "review_id", "author_id", "author_role", "content", "created_at"}))

	comments, err := repo.ListByReview(context.Background(), "rev-009")
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestCommentRepository_DeleteAllForReview(t *testing.T) {
	mock := setupMock(t)
	repo := NewCommentRepository(mock)

	mock.ExpectExec("DELETE FROM review_comments WHERE review_id = \\$1").
		WithArgs("rev-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, repo.DeleteAllForReview(context.Background(), "rev-001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a review takes its thread with it; a thread read afterwards is empty.
func TestCascadeDelete_ThreadGoneAfterReviewDelete(t *testing.T) {
	mock := setupMock(t)
	reviews := NewReviewRepository(mock)
	comments := NewCommentRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE id = \\$1").
		WithArgs("rev-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery("FROM review_comments").
		WithArgs("rev-001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "review_id", "author_id", "author_role", "content", "created_at"}))

	require.NoError(t, reviews.Delete(context.Background(), "rev-001"))
	thread, err := comments.ListByReview(context.Background(), "rev-001")
	require.NoError(t, err)
	assert.Empty(t, thread)
	assert.NoError(t, mock.ExpectationsWereMet())
}
