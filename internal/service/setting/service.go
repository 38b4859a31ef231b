package setting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

const (
	policyCacheKey = "settings:policy"
	policyCacheTTL = 10 * time.Minute
)

// ServiceImpl resolves policy snapshots with a best-effort Redis cache in
// front of the settings table. The cache is optional: a nil client degrades
// to reading the repository on every Snapshot.
type ServiceImpl struct {
	settingRepo setting.Repository
	cache       *redis.Client
	logger      *slog.Logger
}

func NewService(settingRepo setting.Repository, cache *redis.Client, logger *slog.Logger) setting.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceImpl{
		settingRepo: settingRepo,
		cache:       cache,
		logger:      logger,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// Snapshot implements setting.Provider. Cache failures are logged and
// absorbed; only the repository read can fail the call.
func (s *ServiceImpl) Snapshot(ctx context.Context) (setting.Policy, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, policyCacheKey).Bytes()
		if err == nil {
			var policy setting.Policy
			if jsonErr := json.Unmarshal(cached, &policy); jsonErr == nil {
				return policy, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("policy cache read failed", "error", err)
		}
	}

	keys := []string{
		setting.KeyLateTimeHour,
		setting.KeyLateTimeMinute,
		setting.KeyStandardWorkingHours,
		setting.KeyRequireApproval,
	}

	entries, err := s.settingRepo.GetMany(ctx, keys)
	if err != nil {
		return setting.Policy{}, fmt.Errorf("failed to load settings: %w", err)
	}

	policy := resolvePolicy(entries)

	if s.cache != nil {
		payload, _ := json.Marshal(policy)
		if err := s.cache.Set(ctx, policyCacheKey, payload, policyCacheTTL).Err(); err != nil {
			s.logger.Warn("policy cache write failed", "error", err)
		}
	}

	return policy, nil
}

// resolvePolicy folds stored entries over the defaults. Missing or
// unparseable values keep the default, never error.
func resolvePolicy(entries map[string]setting.Setting) setting.Policy {
	policy := setting.DefaultPolicy()

	if entry, ok := entries[setting.KeyLateTimeHour]; ok {
		if v, err := strconv.Atoi(entry.Value); err == nil && v >= 0 && v <= 23 {
			policy.LateHour = v
		}
	}
	if entry, ok := entries[setting.KeyLateTimeMinute]; ok {
		if v, err := strconv.Atoi(entry.Value); err == nil && v >= 0 && v <= 59 {
			policy.LateMinute = v
		}
	}
	if entry, ok := entries[setting.KeyStandardWorkingHours]; ok {
		if v, err := strconv.ParseFloat(entry.Value, 64); err == nil && v > 0 && v <= 24 {
			policy.StandardHours = v
		}
	}
	if entry, ok := entries[setting.KeyRequireApproval]; ok {
		if v, err := strconv.ParseBool(entry.Value); err == nil {
			policy.RequireApproval = v
		}
	}

	return policy
}

// Get implements setting.Service.
func (s *ServiceImpl) Get(ctx context.Context, key string) (setting.SettingResponse, error) {
	entry, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return setting.SettingResponse{}, setting.ErrSettingNotFound
		}
		return setting.SettingResponse{}, fmt.Errorf("failed to get setting: %w", err)
	}

	return mapSettingToResponse(entry), nil
}

// List implements setting.Service.
func (s *ServiceImpl) List(ctx context.Context) ([]setting.SettingResponse, error) {
	entries, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	responses := make([]setting.SettingResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapSettingToResponse(entry))
	}

	return responses, nil
}

// Upsert implements setting.Service. The policy cache is invalidated so the
// write is visible on the next Snapshot.
func (s *ServiceImpl) Upsert(ctx context.Context, req setting.UpsertRequest) (setting.SettingResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.SettingResponse{}, err
	}

	adminID, err := userIDFromContext(ctx)
	if err != nil {
		return setting.SettingResponse{}, err
	}

	entry := setting.Setting{
		Key:       req.Key,
		Value:     req.Value,
		Category:  "general",
		UpdatedBy: &adminID,
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.IsPublic != nil {
		entry.IsPublic = *req.IsPublic
	}

	saved, err := s.settingRepo.Upsert(ctx, entry)
	if err != nil {
		return setting.SettingResponse{}, fmt.Errorf("failed to upsert setting: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, policyCacheKey).Err(); err != nil {
			s.logger.Warn("policy cache invalidation failed", "error", err)
		}
	}

	return mapSettingToResponse(saved), nil
}

func mapSettingToResponse(entry setting.Setting) setting.SettingResponse {
	return setting.SettingResponse{
		Key:       entry.Key,
		Value:     entry.Value,
		Category:  entry.Category,
		IsPublic:  entry.IsPublic,
		UpdatedBy: entry.UpdatedBy,
		UpdatedAt: entry.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
