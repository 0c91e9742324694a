package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"loan-predictor/domain"
	"loan-predictor/repository"
)

// HistoryAPI is the slice of the backend client the history service needs.
type HistoryAPI interface {
	History(ctx context.Context, token string, limit int) ([]domain.HistoryEntry, error)
}

// HistoryResult is a bounded listing of past predictions. Stale marks a
// cached copy served because the backend was unreachable.
type HistoryResult struct {
	Entries []domain.HistoryEntry
	Stale   bool
}

// HistoryService fetches past predictions for the current session. Read-only;
// an empty list is a normal result, and a failure never takes the rest of
// the application down with it. The last good fetch is cached per user so a
// flaky backend still shows something.
type HistoryService struct {
	api      HistoryAPI
	sessions *SessionStore
	cache    repository.CacheRepository
	limit    int
	logger   *zap.Logger
}

func NewHistoryService(api HistoryAPI, sessions *SessionStore, cache repository.CacheRepository, limit int, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		api:      api,
		sessions: sessions,
		cache:    cache,
		limit:    limit,
		logger:   logger,
	}
}

// Fetch returns the most-recent-first listing for the authenticated user.
// On a 401 the session store is invalidated before the error surfaces.
func (h *HistoryService) Fetch(ctx context.Context) (HistoryResult, error) {
	token, ok := h.sessions.Token()
	if !ok {
		return HistoryResult{}, domain.ErrNotAuthenticated
	}
	user, _ := h.sessions.CurrentUser()
	key := "history:" + user.Username

	entries, err := h.api.History(ctx, token, h.limit)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			h.sessions.HandleUnauthorized()
			return HistoryResult{}, err
		}
		var transport *domain.TransportError
		if errors.As(err, &transport) {
			if cached, ok := h.fromCache(ctx, key); ok {
				h.logger.Info("serving cached history, backend unreachable", zap.Error(err))
				return HistoryResult{Entries: cached, Stale: true}, nil
			}
		}
		return HistoryResult{}, err
	}

	h.toCache(ctx, key, entries)
	return HistoryResult{Entries: entries}, nil
}

func (h *HistoryService) fromCache(ctx context.Context, key string) ([]domain.HistoryEntry, bool) {
	raw, ok := h.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		_ = h.cache.Delete(ctx, key)
		return nil, false
	}
	return entries, true
}

func (h *HistoryService) toCache(ctx context.Context, key string, entries []domain.HistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, string(data)); err != nil {
		// Cache writes are best effort and never affect the result.
		h.logger.Debug("history cache write failed", zap.Error(err))
	}
}
