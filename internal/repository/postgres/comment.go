package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/database"
	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertCommentSQL = `
	INSERT INTO review_comments (id, review_id, author_id, author_role, content, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

func insertComment(ctx context.Context, db execer, c *domain.Comment) error {
	_, err := db.Exec(ctx, insertCommentSQL,
		c.ID, c.ReviewID, c.AuthorID, string(c.AuthorRole), c.Content, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("review", c.ReviewID)
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Append inserts a comment. A missing review surfaces as NotFound through
// the foreign key.
func (r *CommentRepository) Append(ctx context.Context, c *domain.Comment) (err error) {
	ctx, end := database.TraceQuery(ctx, "comments.append", insertCommentSQL)
	defer func() { end(err) }()

	return insertComment(ctx, r.db, c)
}

// ListByReview returns the thread in (created_at, id) order.
func (r *CommentRepository) ListByReview(ctx context.Context, reviewID string) (_ []domain.Comment, err error) {
	query := `
		SELECT id, review_id, author_id, author_role, content, created_at
		FROM review_comments
		WHERE review_id = $1
		ORDER BY created_at ASC, id ASC`

	ctx, end := database.TraceQuery(ctx, "comments.list", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Comment, error) {
		var (
			c    domain.Comment
			role string
		)
		err := row.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &role, &c.Content, &c.CreatedAt)
		c.AuthorRole = domain.AuthorRole(role)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan comment rows: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// DeleteAllForReview removes every comment of reviewID. Review deletion does
// not call it: the ON DELETE CASCADE foreign key drops the thread in the same
// statement. It is kept for the CommentRepository contract and for manual
// thread cleanup.
func (r *CommentRepository) DeleteAllForReview(ctx context.Context, reviewID string) (err error) {
	query := `DELETE FROM review_comments WHERE review_id = $1`

	ctx, end := database.TraceQuery(ctx, "comments.delete_all", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, reviewID); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}
