package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/ports/api"
	"workwhiz/internal/api/ports/repositories"
	svc "workwhiz/internal/api/ports/services"
	"workwhiz/internal/transform"
	"workwhiz/pkg/logger"
)

// ProfileCacheKeyPrefix - префикс ключей кэша ответов с профилями.
const ProfileCacheKeyPrefix = "profile:"

// ProfileUseCaseImpl реализует api.ProfileService.
type ProfileUseCaseImpl struct {
	profileRepo repositories.ProfileRepository
	transformer *transform.Transformer
	cache       svc.Cache
	cacheTTL    time.Duration
}

// ProfileOption настраивает сценарий чтения профилей.
type ProfileOption func(*ProfileUseCaseImpl)

// WithProfileCache кэширует публичные представления профилей на ttl.
func WithProfileCache(cache svc.Cache, ttl time.Duration) ProfileOption {
	return func(p *ProfileUseCaseImpl) {
		if ttl > 0 {
			p.cache = cache
			p.cacheTTL = ttl
		}
	}
}

// NewProfileUseCase создает сценарий чтения профилей.
func NewProfileUseCase(profileRepo repositories.ProfileRepository, transformer *transform.Transformer, opts ...ProfileOption) api.ProfileService {
	p := &ProfileUseCaseImpl{profileRepo: profileRepo, transformer: transformer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func profileCacheKey(role entities.Role, id string) string {
	return ProfileCacheKeyPrefix + string(role) + ":" + id
}

// GetProfile загружает профиль роли и возвращает его в представлении mode.
// В кэш попадает только публичное представление.
func (p *ProfileUseCaseImpl) GetProfile(ctx context.Context, role entities.Role, id string, mode transform.Mode) (transform.DTO, error) {
	log := logger.Log(ctx).With(zap.String("method", "GetProfile"), zap.String("role", string(role)), zap.String("id", id))

	if !role.Valid() {
		return nil, entities.ErrUnknownRole
	}

	cacheable := p.cache != nil && mode == transform.ModeResponse
	if cacheable {
		if dto, ok := p.cached(ctx, log, profileCacheKey(role, id)); ok {
			return dto, nil
		}
	}

	profile, err := p.profileRepo.FindByID(ctx, role, id)
	if err != nil {
		log.Debug(ctx, "profile lookup failed", zap.Error(err))
		return nil, fmt.Errorf("finding profile: %w", err)
	}

	dto, err := p.transformer.Transform(role.TransformKind(), profile.Record(), mode)
	if err != nil {
		log.Error(ctx, "failed to transform profile", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxTransforming, err)
	}

	if cacheable {
		p.store(ctx, log, profileCacheKey(role, id), dto)
	}
	return dto, nil
}

func (p *ProfileUseCaseImpl) cached(ctx context.Context, log *logger.Logger, key string) (transform.DTO, bool) {
	raw, err := p.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}

	var dto transform.DTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		log.Warn(ctx, "discarding corrupt cached profile", zap.Error(err))
		return nil, false
	}
	log.Debug(ctx, "profile found in cache")
	return dto, true
}

func (p *ProfileUseCaseImpl) store(ctx context.Context, log *logger.Logger, key string, dto transform.DTO) {
	raw, err := json.Marshal(dto)
	if err != nil {
		log.Warn(ctx, "failed to encode profile for cache", zap.Error(err))
		return
	}
	if err := p.cache.Set(ctx, key, string(raw), p.cacheTTL); err != nil {
		log.Warn(ctx, "failed to cache profile", zap.Error(err))
	}
}
