package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolRegistry/internal/model"
	"poolRegistry/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pgErrUniqueViolation = "23505"

const poolColumns = `id, address, token, symbol, name, dex, created_at, updated_at`

// Store provides Postgres persistence for pools.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.PoolStore = (*Store)(nil)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate applies the embedded schema files in lexical order.
// Every file is idempotent.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(migrationsFS, "migrations/"+file)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return nil, fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return files, nil
}

// Insert adds a new pool.
func (s *Store) Insert(ctx context.Context, p *model.Pool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (`+poolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		p.ID,
		p.Address,
		p.Token,
		p.Symbol,
		p.Name,
		p.Dex,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pool: %w", err)
	}
	return nil
}

// Get returns a pool by id.
func (s *Store) Get(ctx context.Context, id string) (*model.Pool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools WHERE id = $1`, id)
	p, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}
	return p, nil
}

// Replace overwrites a pool, keeping its created_at.
func (s *Store) Replace(ctx context.Context, p *model.Pool) (*model.Pool, error) {
	if p == nil || p.ID == "" {
		return nil, storage.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE pools SET
			address = $2,
			token = $3,
			symbol = $4,
			name = $5,
			dex = $6,
			updated_at = $7
		WHERE id = $1
		RETURNING `+poolColumns,
		p.ID,
		p.Address,
		p.Token,
		p.Symbol,
		p.Name,
		p.Dex,
		p.UpdatedAt,
	)
	updated, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("replace pool: %w", err)
	}
	return updated, nil
}

// Delete removes a pool and returns the removed row.
func (s *Store) Delete(ctx context.Context, id string) (*model.Pool, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM pools WHERE id = $1 RETURNING `+poolColumns, id)
	p, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("delete pool: %w", err)
	}
	return p, nil
}

// ListIDs returns a page of pool ids, newest first.
func (s *Store) ListIDs(ctx context.Context, q storage.ListQuery) ([]string, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return []string{}, nil
	}

	where, args := buildFilter(q.Filter)
	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT id FROM pools
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan pool ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func buildFilter(f model.PoolFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("address", f.Address)
	add("token", f.Token)
	add("symbol", f.Symbol)
	add("dex", f.Dex)

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanPool(row pgx.Row) (*model.Pool, error) {
	var p model.Pool
	if err := row.Scan(
		&p.ID,
		&p.Address,
		&p.Token,
		&p.Symbol,
		&p.Name,
		&p.Dex,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
