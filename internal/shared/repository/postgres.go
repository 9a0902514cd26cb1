package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"bookstore-api/pkg/database"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Mutation is one pending change. When Returning is set the statement is
// expected to produce a row that is scanned into it.
type Mutation struct {
	SQL       string
	Args      []any
	Returning []any
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres implements Repository[T] on top of pgx.
type Postgres[T any, PT RecordPtr[T]] struct {
	db    DB
	table string
	cols  []string
}

func NewPostgres[T any, PT RecordPtr[T]](db DB) *Postgres[T, PT] {
	var zero T
	rec := PT(&zero)
	return &Postgres[T, PT]{
		db:    db,
		table: rec.Table(),
		cols:  rec.Columns(),
	}
}

func (r *Postgres[T, PT]) allColumns() []string {
	return append([]string{"id"}, r.cols...)
}

func (r *Postgres[T, PT]) selectAll() sq.SelectBuilder {
	return qb.Select(r.allColumns()...).From(r.table).OrderBy("id")
}

func (r *Postgres[T, PT]) selectByID(id int64) sq.SelectBuilder {
	return qb.Select(r.allColumns()...).From(r.table).Where(sq.Eq{"id": id})
}

func (r *Postgres[T, PT]) exists(id int64) sq.SelectBuilder {
	return qb.Select("1").From(r.table).Where(sq.Eq{"id": id}).
		Prefix("SELECT EXISTS (").Suffix(")")
}

func (r *Postgres[T, PT]) insert(e PT) sq.InsertBuilder {
	return qb.Insert(r.table).Columns(r.cols...).Values(e.Values()...).Suffix("RETURNING id")
}

func (r *Postgres[T, PT]) update(e PT) sq.UpdateBuilder {
	values := e.Values()
	b := qb.Update(r.table)
	for i, col := range r.cols {
		b = b.Set(col, values[i])
	}
	return b.Where(sq.Eq{"id": e.Identifier()})
}

func (r *Postgres[T, PT]) delete(id int64) sq.DeleteBuilder {
	return qb.Delete(r.table).Where(sq.Eq{"id": id})
}

func (r *Postgres[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	query, args, err := r.selectAll().ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var item T
		if err := rows.Scan(PT(&item).Fields()...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}

	return items, nil
}

func (r *Postgres[T, PT]) FindByID(ctx context.Context, id int64) (*T, error) {
	query, args, err := r.selectByID(id).ToSql()
	if err != nil {
		return nil, err
	}

	var item T
	err = r.db.QueryRow(ctx, query, args...).Scan(PT(&item).Fields()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", r.table, id, err)
	}

	return &item, nil
}

func (r *Postgres[T, PT]) IsExists(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.exists(id).ToSql()
	if err != nil {
		return false, err
	}

	var ok bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s %d: %w", r.table, id, err)
	}
	return ok, nil
}

// Create inserts the entity and assigns the generated id to it.
func (r *Postgres[T, PT]) Create(ctx context.Context, entity *T) (bool, error) {
	e := PT(entity)
	query, args, err := r.insert(e).ToSql()
	if err != nil {
		return false, err
	}

	// Fields()[0] is the id.
	return r.Save(ctx, Mutation{SQL: query, Args: args, Returning: e.Fields()[:1]})
}

func (r *Postgres[T, PT]) Update(ctx context.Context, entity *T) (bool, error) {
	query, args, err := r.update(PT(entity)).ToSql()
	if err != nil {
		return false, err
	}

	n, err := r.commit(ctx, Mutation{SQL: query, Args: args})
	return r.affected(n, err)
}

func (r *Postgres[T, PT]) Delete(ctx context.Context, entity *T) (bool, error) {
	query, args, err := r.delete(PT(entity).Identifier()).ToSql()
	if err != nil {
		return false, err
	}

	n, err := r.commit(ctx, Mutation{SQL: query, Args: args})
	return r.affected(n, err)
}

// affected turns a row count into the contract result for by-id mutations.
func (r *Postgres[T, PT]) affected(n int64, err error) (bool, error) {
	if errors.Is(err, errConstraint) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// Save commits m in its own transaction and reports whether any row was affected.
func (r *Postgres[T, PT]) Save(ctx context.Context, m Mutation) (bool, error) {
	n, err := r.commit(ctx, m)
	if errors.Is(err, errConstraint) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var errConstraint = errors.New("integrity constraint violation")

func (r *Postgres[T, PT]) commit(ctx context.Context, m Mutation) (int64, error) {
	n, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (int64, error) {
		if len(m.Returning) > 0 {
			err := tx.QueryRow(ctx, m.SQL, m.Args...).Scan(m.Returning...)
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, nil
			}
			if err != nil {
				return 0, err
			}
			return 1, nil
		}

		tag, err := tx.Exec(ctx, m.SQL, m.Args...)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		log.Warn().
			Str("table", r.table).
			Str("code", pgErr.Code).
			Str("constraint", pgErr.ConstraintName).
			Msg("write rejected by constraint")
		return 0, errConstraint
	}
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", r.table, err)
	}

	return n, nil
}
