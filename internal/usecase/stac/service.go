// Package stac proxies item searches built from query parameters to a STAC API.
package stac

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	domstac "github.com/hydrovibe/hydrosearch/internal/domain/stac"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
)

// Service validates proxy requests and forwards them.
type Service struct {
	searcher Searcher
	limit    int
	logger   *zap.Logger
}

// New creates a STAC proxy service with a fixed page size.
func New(searcher Searcher, limit int, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, limit: limit, logger: logger}
}

// Search forwards a raw proxy request: collection ids, optional four bbox
// coordinates and an optional STAC datetime.
func (s *Service) Search(ctx context.Context, collections, coords []string, datetime string) (json.RawMessage, error) {
	q, err := domstac.NewSearch(s.limit, collections, coords, datetime)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, q)
}

// SearchParams forwards the search matching resolved query parameters.
func (s *Service) SearchParams(ctx context.Context, p result.Params) (json.RawMessage, error) {
	q, err := domstac.FromParams(s.limit, p)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, q)
}

func (s *Service) run(ctx context.Context, q domstac.Search) (json.RawMessage, error) {
	log := logpkg.FromContextOr(ctx, s.logger)

	raw, err := s.searcher.Search(ctx, q)
	if err != nil {
		log.Warn("stac search failed", zap.Strings("collections", q.Collections), zap.Error(err))
		return nil, fmt.Errorf("stac search: %w", err)
	}

	log.Debug("stac search",
		zap.Strings("collections", q.Collections),
		zap.String("datetime", q.Datetime),
		zap.Int("response_bytes", len(raw)),
	)
	return raw, nil
}
