// Package searchparams turns a free-text hydrology query into search parameters
// with two LLM exchanges: collection matching, then bbox and date extraction.
package searchparams

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/query"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
)

// Service orchestrates one query: validation, a fresh chat client, matching,
// extraction and assembly.
type Service struct {
	chats         ChatFactory
	catalog       catalog.Catalog
	matcher       *Matcher
	extractor     *Extractor
	defaultModel  string
	allowedModels map[string]struct{}
	filterUnknown bool
	concurrent    bool
	logger        *zap.Logger
}

// New creates a search parameter service.
func New(chats ChatFactory, cat catalog.Catalog, defaultModel string, logger *zap.Logger) *Service {
	model := NormalizeModelName(defaultModel)
	return &Service{
		chats:         chats,
		catalog:       cat,
		matcher:       NewMatcher(logger),
		extractor:     NewExtractor(logger, nil),
		defaultModel:  model,
		allowedModels: map[string]struct{}{model: {}},
		logger:        logger,
	}
}

// WithAllowedModels adds models a request may select besides the default one.
func (s *Service) WithAllowedModels(models []string) *Service {
	for _, m := range models {
		if n := NormalizeModelName(m); n != "" {
			s.allowedModels[n] = struct{}{}
		}
	}
	return s
}

// WithUnknownIDFilter drops matched ids that are not in the catalog.
func (s *Service) WithUnknownIDFilter(enabled bool) *Service {
	s.filterUnknown = enabled
	return s
}

// WithConcurrentStages runs matching and extraction in parallel.
func (s *Service) WithConcurrentStages(enabled bool) *Service {
	s.concurrent = enabled
	return s
}

// WithFieldFailureRecorder counts malformed fields dropped by the extractor.
func (s *Service) WithFieldFailureRecorder(r FieldFailureRecorder) *Service {
	s.extractor = NewExtractor(s.logger, r)
	return s
}

// DefaultModel returns the model used when a request does not pick one.
func (s *Service) DefaultModel() string { return s.defaultModel }

// Catalog returns the catalog the matcher prompt is built from.
func (s *Service) Catalog() catalog.Catalog { return s.catalog }

// Resolve validates rawQuery and computes its search parameters. model may be
// empty to use the default.
func (s *Service) Resolve(ctx context.Context, rawQuery, model string) (result.Params, error) {
	q, err := query.New(rawQuery)
	if err != nil {
		return result.Params{}, err
	}

	modelID, err := s.ResolveModel(model)
	if err != nil {
		return result.Params{}, err
	}

	chat, err := s.chats.NewChat(modelID)
	if err != nil {
		return result.Params{}, fmt.Errorf("create chat client: %w", err)
	}

	var (
		ids []string
		ex  Extraction
	)
	if s.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			ids, err = s.matcher.Match(gctx, chat, s.catalog.Text(), q)
			return err
		})
		g.Go(func() error {
			var err error
			ex, err = s.extractor.Extract(gctx, chat, q)
			return err
		})
		if err := g.Wait(); err != nil {
			return result.Params{}, err
		}
	} else {
		if ids, err = s.matcher.Match(ctx, chat, s.catalog.Text(), q); err != nil {
			return result.Params{}, err
		}
		if ex, err = s.extractor.Extract(ctx, chat, q); err != nil {
			return result.Params{}, err
		}
	}

	if s.filterUnknown {
		ids = s.knownOnly(ctx, ids)
	}

	return result.New(ids, ex.Start, ex.End, ex.BoundingBox), nil
}

// ResolveModel maps a requested model name to an allowed model id.
func (s *Service) ResolveModel(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultModel, nil
	}
	id := NormalizeModelName(name)
	if _, ok := s.allowedModels[id]; !ok {
		return "", domain.InvalidRequestf("model %q is not allowed", name)
	}
	return id, nil
}

func (s *Service) knownOnly(ctx context.Context, ids []string) []string {
	known := ids[:0:0]
	for _, id := range ids {
		if s.catalog.Contains(id) {
			known = append(known, id)
			continue
		}
		logpkg.FromContextOr(ctx, s.logger).Info("dropping unknown collection id", zap.String("id", id))
	}
	return known
}

var enumModelName = regexp.MustCompile(`^[A-Z0-9]+(_[A-Z0-9]+)*$`)

// NormalizeModelName turns enum-style names such as MISTRAL_LARGE_LATEST into
// API ids (mistral-large-latest). Other names pass through trimmed.
func NormalizeModelName(name string) string {
	n := strings.TrimSpace(name)
	if enumModelName.MatchString(n) {
		return strings.ToLower(strings.ReplaceAll(n, "_", "-"))
	}
	return n
}
