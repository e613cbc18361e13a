package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
)

const (
	tagListCacheKey = "all"
	tagListCacheTTL = 5 * time.Minute
)

type PropertyTagService struct {
	tagRepo repositories.PropertyTagRepository
	audit   auditLogger
	// tag lists are small and rarely written; creates drop the cached copy
	cache *ttlcache.Cache[string, []dtos.PropertyTag]
}

func NewPropertyTagService(
	tagRepo repositories.PropertyTagRepository,
	auditRepo repositories.EstateAuditLogRepository,
) *PropertyTagService {
	return &PropertyTagService{
		tagRepo: tagRepo,
		audit:   auditLogger{repo: auditRepo},
		cache: ttlcache.New(
			ttlcache.WithTTL[string, []dtos.PropertyTag](tagListCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, []dtos.PropertyTag](),
		),
	}
}

func (s *PropertyTagService) CreatePropertyTag(
	ctx context.Context,
	actorID uuid.UUID,
	req dtos.CreatePropertyTagRequest,
) (*dtos.PropertyTag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, toAppError(utils.ErrPropertyTagNameRequired, "Property tag")
	}
	t := &models.PropertyTag{ID: uuid.New(), Name: name}
	if err := s.tagRepo.Create(ctx, t); err != nil {
		return nil, toAppError(err, "Property tag")
	}
	s.cache.Delete(tagListCacheKey)
	s.audit.record(ctx, actorID, models.AuditCreate, models.TargetPropertyTag, t.ID, req)

	return &dtos.PropertyTag{ID: t.ID, Name: t.Name}, nil
}

func (s *PropertyTagService) ListPropertyTags(ctx context.Context) (*dtos.ListPropertyTagsResponse, error) {
	if item := s.cache.Get(tagListCacheKey); item != nil {
		return &dtos.ListPropertyTagsResponse{PropertyTags: item.Value()}, nil
	}

	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, toAppError(err, "Property tag")
	}
	out := make([]dtos.PropertyTag, 0, len(tags))
	for _, t := range tags {
		out = append(out, dtos.PropertyTag{ID: t.ID, Name: t.Name})
	}
	s.cache.Set(tagListCacheKey, out, ttlcache.DefaultTTL)
	return &dtos.ListPropertyTagsResponse{PropertyTags: out}, nil
}
