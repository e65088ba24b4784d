package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateForeignKeyViolation = "23503"
	defaultPerPage              = 20
)

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation
}

func limitOffset(page, perPage int) (int, int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}
	return perPage, offset
}
