package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/database"
	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/repository"
)

// reviewColumns is shared by every query that returns a review. Optional text
// columns are NULL when unset and read back as empty strings.
const reviewColumns = `
		r.id, r.author_id, r.rating, r.text,
		COALESCE(r.project_name, ''), COALESCE(r.company, ''),
		COALESCE(r.position, ''), COALESCE(r.work_done, ''), COALESCE(r.avatar, ''),
		r.status, COALESCE(r.denial_reason, ''), r.featured,
		(SELECT count(*) FROM review_comments c WHERE c.review_id = r.id) AS comment_count,
		r.created_at, r.updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row pgx.Row, extra ...any) (*domain.Review, error) {
	var (
		r      domain.Review
		status string
	)
	dest := append([]any{
		&r.ID, &r.AuthorID, &r.Rating, &r.Text,
		&r.ProjectName, &r.Company, &r.Position, &r.WorkDone, &r.Avatar,
		&status, &r.DenialReason, &r.Featured, &r.CommentCount,
		&r.CreatedAt, &r.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.Status = domain.Status(status)
	return &r, nil
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (err error) {
	query := `
		INSERT INTO reviews (
			id, author_id, rating, text, project_name, company, position,
			work_done, avatar, status, denial_reason, featured, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, ''), $10, NULLIF($11, ''), $12, $13, $14
		)`

	ctx, end := database.TraceQuery(ctx, "reviews.create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		rv.ID, rv.AuthorID, rv.Rating, rv.Text,
		rv.ProjectName, rv.Company, rv.Position, rv.WorkDone, rv.Avatar,
		string(rv.Status), rv.DenialReason, rv.Featured,
		rv.CreatedAt, rv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by id.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (rv *domain.Review, err error) {
	query := `SELECT ` + reviewColumns + `
		FROM reviews r
		WHERE r.id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.get", query)
	defer func() { end(err) }()

	rv, err = scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

// List returns the moderation queue ordered by created_at DESC, id DESC.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) (_ []domain.Review, _ int, err error) {
	args := []any{}
	where := ""
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = "WHERE r.status = $1"
	}

	limit, offset := limitOffset(filter.Page, filter.PerPage)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s,
		count(*) OVER() AS total_count
		FROM reviews r
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d`, reviewColumns, where, len(args)-1, len(args))

	ctx, end := database.TraceQuery(ctx, "reviews.list", query)
	defer func() { end(err) }()

	return r.queryPage(ctx, query, args...)
}

// ListByAuthor returns the reviews submitted by authorID.
func (r *ReviewRepository) ListByAuthor(ctx context.Context, authorID string, page, perPage int) (_ []domain.Review, _ int, err error) {
	limit, offset := limitOffset(page, perPage)
	query := `SELECT ` + reviewColumns + `,
		count(*) OVER() AS total_count
		FROM reviews r
		WHERE r.author_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "reviews.list_by_author", query)
	defer func() { end(err) }()

	return r.queryPage(ctx, query, authorID, limit, offset)
}

func (r *ReviewRepository) queryPage(ctx context.Context, query string, args ...any) ([]domain.Review, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	total := 0
	for rows.Next() {
		rv, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, total, nil
}

// UpdateModeration writes the non-nil fields of upd plus updated_at. No
// other column is reachable from here.
func (r *ReviewRepository) UpdateModeration(ctx context.Context, id string, upd repository.ModerationUpdate) (rv *domain.Review, err error) {
	sets := []string{"updated_at = $2"}
	args := []any{id, upd.UpdatedAt}

	if upd.Status != nil {
		args = append(args, string(*upd.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.DenialReason != nil {
		args = append(args, *upd.DenialReason)
		sets = append(sets, fmt.Sprintf("denial_reason = NULLIF($%d, '')", len(args)))
	}
	if upd.Featured != nil {
		args = append(args, *upd.Featured)
		sets = append(sets, fmt.Sprintf("featured = $%d", len(args)))
	}

	query := `
		UPDATE reviews r
		SET ` + strings.Join(sets, ", ") + `
		WHERE r.id = $1
		RETURNING ` + reviewColumns

	ctx, end := database.TraceQuery(ctx, "reviews.update_moderation", query)
	defer func() { end(err) }()

	rv, err = scanReview(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("update review moderation: %w", err)
	}
	return rv, nil
}

// RequestChanges locks the review, writes status and appends the moderator's
// comment inside one transaction.
func (r *ReviewRepository) RequestChanges(ctx context.Context, id string, status domain.Status, updatedAt time.Time, comment *domain.Comment) (rv *domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, "reviews.request_changes", "BEGIN; SELECT ... FOR UPDATE; UPDATE reviews; INSERT INTO review_comments; COMMIT")
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM reviews WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("lock review: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE reviews SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update review status: %w", err)
	}

	if err = insertComment(ctx, tx, comment); err != nil {
		return nil, err
	}

	rv, err = scanReview(tx.QueryRow(ctx, `SELECT `+reviewColumns+`
		FROM reviews r
		WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return rv, nil
}

// Delete removes a review. review_comments rows go with it through
// ON DELETE CASCADE, in the same statement.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.delete", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}
