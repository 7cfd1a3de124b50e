package pool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"poolRegistry/internal/chain"
	"poolRegistry/internal/model"
	"poolRegistry/internal/resolver"
	"poolRegistry/internal/storage"
)

// Config holds listing defaults.
type Config struct {
	DefaultLimit int
	DefaultPage  int
	MaxLimit     int
}

// ListQuery is a listing request. Nil Limit or Page fall back to Config.
type ListQuery struct {
	Filter model.PoolFilter
	Limit  *int
	Page   *int
}

// Page is one page of pool ids with the pagination actually applied.
type Page struct {
	IDs   []string
	Limit int
	Page  int
}

// Service implements pool record management on top of a PoolStore.
type Service struct {
	store    storage.PoolStore
	enricher *Enricher
	cfg      Config
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires a Service. Zero Config fields get the defaults 10/0/100.
func NewService(store storage.PoolStore, enricher *Enricher, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.DefaultPage < 0 {
		cfg.DefaultPage = 0
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &Service{
		store:    store,
		enricher: enricher,
		cfg:      cfg,
		logger:   logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		newID: uuid.NewString,
	}
}

// Parse validates and enriches an inbound pool without persisting it.
func (s *Service) Parse(ctx context.Context, in *model.PoolInput) (*model.Pool, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: pool is required", ErrInvalidInput)
	}
	p := in.ToPool()
	if err := s.enricher.Enrich(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Create enriches and persists a new pool under a fresh id.
func (s *Service) Create(ctx context.Context, in *model.PoolInput) (*model.Pool, error) {
	p, err := s.Parse(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p.ID = s.newID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, s.storeError("insert", err)
	}

	s.logger.Info("pool created",
		zap.String("id", p.ID),
		zap.String("address", p.Address),
		zap.String("token", p.Token),
		zap.String("symbol", p.Symbol),
	)
	return p, nil
}

// Get returns the pool with id, or nil when none exists.
func (s *Service) Get(ctx context.Context, id string) (*model.Pool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, s.storeError("get", err)
	}
	return p, nil
}

// List returns matching pool ids, newest first, skipping limit*page records.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	limit := s.cfg.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	page := s.cfg.DefaultPage
	if q.Page != nil {
		page = *q.Page
	}

	if limit <= 0 || limit > s.cfg.MaxLimit {
		return Page{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, s.cfg.MaxLimit)
	}
	if page < 0 || page > math.MaxInt32/limit {
		return Page{}, fmt.Errorf("%w: page out of range", ErrInvalidInput)
	}

	filter := q.Filter
	filter.Symbol = resolver.NormalizeSymbol(filter.Symbol)
	if addr, err := chain.ParseAddress(filter.Address); err == nil {
		filter.Address = addr.Hex()
	}

	ids, err := s.store.ListIDs(ctx, storage.ListQuery{
		Filter: filter,
		Limit:  limit,
		Offset: limit * page,
	})
	if err != nil {
		return Page{}, s.storeError("list", err)
	}
	return Page{IDs: ids, Limit: limit, Page: page}, nil
}

// Update re-enriches the pool and replaces every field except id and creation time.
// The payload must be complete: address is required and goes through the same
// resolution as Create, and omitted name or dex are cleared.
func (s *Service) Update(ctx context.Context, in *model.PoolInput) (*model.Pool, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: pool is required", ErrInvalidInput)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, err := s.Parse(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.UpdatedAt = s.now()

	updated, err := s.store.Replace(ctx, p)
	if err != nil {
		return nil, s.storeError("replace", err)
	}

	s.logger.Info("pool updated", zap.String("id", updated.ID), zap.String("address", updated.Address))
	return updated, nil
}

// Delete removes the pool with id and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*model.Pool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, s.storeError("delete", err)
	}

	s.logger.Info("pool deleted", zap.String("id", p.ID))
	return p, nil
}

func (s *Service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	default:
		s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
	}
}
