package service

import (
	"context"
	"errors"
	"strings"

	"Tasklist/internal/cache"
	dom "Tasklist/internal/domain"
	"Tasklist/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	ErrEmptyTitle = errors.New("title is required")
	ErrNotFound   = repo.ErrNotFound
)

const listKey = "list"

type ItemService struct {
	repo  repo.ItemRepo
	cache *cache.ItemCache
	sf    singleflight.Group
}

// NewItemService creates an ItemService. If c is nil, caching is disabled.
func NewItemService(r repo.ItemRepo, c *cache.ItemCache) *ItemService {
	return &ItemService{repo: r, cache: c}
}

// List returns all items, newest first. Concurrent cached reads share one
// fetch; each caller still returns as soon as its own ctx is done.
func (s *ItemService) List(ctx context.Context) ([]dom.Item, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	ch := s.sf.DoChan(listKey, func() (interface{}, error) {
		return s.cachedList(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]dom.Item), nil
	}
}

func (s *ItemService) cachedList(ctx context.Context) ([]dom.Item, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		return s.repo.List(ctx)
	}
	if list, err := s.cache.GetList(ctx, gen); err == nil && list != nil {
		return list, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetList(ctx, gen, list)
	return list, nil
}

// Add stores a new pending item. A blank title returns ErrEmptyTitle.
func (s *ItemService) Add(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, ErrEmptyTitle
	}
	id, err := s.repo.Insert(ctx, title)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)
	return id, nil
}

// Toggle flips the completion flag of id. Unknown ids return ErrNotFound.
func (s *ItemService) Toggle(ctx context.Context, id int64) error {
	found, err := s.repo.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// Completed reports the completion flag of id.
func (s *ItemService) Completed(ctx context.Context, id int64) (bool, error) {
	return s.repo.Completed(ctx, id)
}

// SetCompleted writes the completion flag of id. Unknown ids are a no-op.
func (s *ItemService) SetCompleted(ctx context.Context, id int64, done bool) error {
	if err := s.repo.SetCompleted(ctx, id, done); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Delete removes id. Unknown ids are a no-op.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// invalidateCache runs after a committed write: reads started later must
// neither hit an older cached list nor join an older fetch.
func (s *ItemService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
		s.sf.Forget(listKey)
	}
}
