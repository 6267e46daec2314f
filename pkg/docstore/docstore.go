// Package docstore provides typed access to the shared records container:
// a single PostgreSQL table holding heterogeneous record kinds discriminated
// by a type column. Each domain opens its own typed view over the container
// with a projection, a record type tag, and a scan function; every query the
// view issues is automatically scoped to its record type.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/promptdeck/promptdeck/pkg/query"
	"github.com/promptdeck/promptdeck/pkg/repository"
)

// Schema and Table name the shared records container.
const (
	Schema = "public"
	Table  = "records"
)

// Field pairs a container column with its value for write operations.
type Field struct {
	Column string
	Value  any
}

// Fields is an ordered set of column/value pairs for insert and upsert.
type Fields []Field

// Container is a typed view over the shared records container, scoped to a
// single record type.
type Container[T any] struct {
	db         *sql.DB
	projection *query.ProjectionMap
	recordType string
	scan       repository.ScanFunc[T]
	logger     *slog.Logger
}

// NewContainer creates a typed container view. The projection must include a
// "Type" field mapping for record-type scoping.
func NewContainer[T any](
	db *sql.DB,
	projection *query.ProjectionMap,
	recordType string,
	scan repository.ScanFunc[T],
	logger *slog.Logger,
) *Container[T] {
	return &Container[T]{
		db:         db,
		projection: projection,
		recordType: recordType,
		scan:       scan,
		logger:     logger.With("container", recordType),
	}
}

// RecordType returns the discriminator tag this view is scoped to.
func (c *Container[T]) RecordType() string {
	return c.recordType
}

// Builder returns a query builder pre-scoped to this view's record type.
func (c *Container[T]) Builder(defaultSort ...query.SortField) *query.Builder {
	return query.
		NewBuilder(c.projection, defaultSort...).
		WhereEquals("Type", &c.recordType)
}

// Query executes the builder's SELECT and returns all matching records.
// Returns an empty slice, not an error, when nothing matches.
func (c *Container[T]) Query(ctx context.Context, qb *query.Builder) ([]T, error) {
	q, args := qb.Build()
	return repository.QueryMany(ctx, c.db, q, args, c.scan)
}

// QueryPage executes the builder's paginated SELECT.
func (c *Container[T]) QueryPage(ctx context.Context, qb *query.Builder, page, pageSize int) ([]T, error) {
	q, args := qb.BuildPage(page, pageSize)
	return repository.QueryMany(ctx, c.db, q, args, c.scan)
}

// Count executes the builder's COUNT query.
func (c *Container[T]) Count(ctx context.Context, qb *query.Builder) (int, error) {
	q, args := qb.BuildCount()
	var total int
	if err := c.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

// QueryOne executes the builder limited to a single record.
// Returns sql.ErrNoRows when nothing matches.
func (c *Container[T]) QueryOne(ctx context.Context, qb *query.Builder) (T, error) {
	q, args := qb.BuildSingleOrNull()
	return repository.QueryOne(ctx, c.db, q, args, c.scan)
}

// Insert creates a record from the given fields and returns the stored row.
func (c *Container[T]) Insert(ctx context.Context, fields Fields) (T, error) {
	cols, placeholders, args := fields.clauses()

	q := fmt.Sprintf(
		"INSERT INTO %s.%s(%s) VALUES (%s) RETURNING %s",
		Schema, Table, cols, placeholders, c.projection.BareColumns(),
	)

	rec, err := repository.WithTx(ctx, c.db, func(tx *sql.Tx) (T, error) {
		return repository.QueryOne(ctx, tx, q, args, c.scan)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	c.logger.Debug("record created")
	return rec, nil
}

// Upsert creates the record or replaces an existing one with the same id,
// and returns the stored row.
func (c *Container[T]) Upsert(ctx context.Context, fields Fields) (T, error) {
	cols, placeholders, args := fields.clauses()

	q := fmt.Sprintf(
		"INSERT INTO %s.%s(%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s RETURNING %s",
		Schema, Table, cols, placeholders, fields.assignments(), c.projection.BareColumns(),
	)

	rec, err := repository.WithTx(ctx, c.db, func(tx *sql.Tx) (T, error) {
		return repository.QueryOne(ctx, tx, q, args, c.scan)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	c.logger.Debug("record upserted")
	return rec, nil
}

// Delete removes the record keyed by id and partition key (owner), scoped to
// this view's record type, and returns the deleted row.
// Returns sql.ErrNoRows when no such record exists.
func (c *Container[T]) Delete(ctx context.Context, id, partitionKey string) (T, error) {
	q := fmt.Sprintf(
		"DELETE FROM %s.%s WHERE type = $1 AND id = $2 AND user_id = $3 RETURNING %s",
		Schema, Table, c.projection.BareColumns(),
	)
	args := []any{c.recordType, id, partitionKey}

	rec, err := repository.WithTx(ctx, c.db, func(tx *sql.Tx) (T, error) {
		return repository.QueryOne(ctx, tx, q, args, c.scan)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	c.logger.Debug("record deleted", "id", id)
	return rec, nil
}

func (f Fields) clauses() (columns, placeholders string, args []any) {
	cols := make([]string, len(f))
	marks := make([]string, len(f))
	args = make([]any, len(f))

	for i, field := range f {
		cols[i] = field.Column
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = field.Value
	}

	return strings.Join(cols, ", "), strings.Join(marks, ", "), args
}

// assignments builds the DO UPDATE SET clause, excluding the id key.
func (f Fields) assignments() string {
	parts := make([]string, 0, len(f))
	for _, field := range f {
		if field.Column == "id" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", field.Column, field.Column))
	}
	return strings.Join(parts, ", ")
}
