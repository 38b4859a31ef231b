package setting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/setting"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingRepo struct {
	entries map[string]setting.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{entries: make(map[string]setting.Setting)}
}

func (r *fakeSettingRepo) GetByKey(_ context.Context, key string) (setting.Setting, error) {
	entry, ok := r.entries[key]
	if !ok {
		return setting.Setting{}, setting.ErrSettingNotFound
	}
	return entry, nil
}

func (r *fakeSettingRepo) GetMany(_ context.Context, keys []string) (map[string]setting.Setting, error) {
	out := make(map[string]setting.Setting)
	for _, key := range keys {
		if entry, ok := r.entries[key]; ok {
			out[key] = entry
		}
	}
	return out, nil
}

func (r *fakeSettingRepo) List(_ context.Context) ([]setting.Setting, error) {
	var out []setting.Setting
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeSettingRepo) Upsert(_ context.Context, s setting.Setting) (setting.Setting, error) {
	s.UpdatedAt = time.Now().UTC()
	r.entries[s.Key] = s
	return s, nil
}

func (r *fakeSettingRepo) set(key, value string) {
	r.entries[key] = setting.Setting{Key: key, Value: value, Category: "attendance"}
}

func adminContext(t *testing.T) context.Context {
	t.Helper()

	jwtService := jwt.NewJWTService("test-secret", "1h")
	tokenString, _, err := jwtService.GenerateAccessToken("admin-1", true)
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), tokenString)
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestSnapshot_EmptyStoreYieldsDefaults(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), nil, nil)

	policy, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, setting.DefaultPolicy(), policy)
}

func TestSnapshot_StoredValuesOverrideDefaults(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.set(setting.KeyLateTimeHour, "10")
	repo.set(setting.KeyLateTimeMinute, "30")
	repo.set(setting.KeyStandardWorkingHours, "7.5")
	repo.set(setting.KeyRequireApproval, "false")
	svc := NewService(repo, nil, nil)

	policy, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, policy.LateHour)
	assert.Equal(t, 30, policy.LateMinute)
	assert.InDelta(t, 7.5, policy.StandardHours, 1e-9)
	assert.False(t, policy.RequireApproval)
}

func TestSnapshot_UnparseableValueKeepsDefault(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.set(setting.KeyLateTimeHour, "not-a-number")
	repo.set(setting.KeyStandardWorkingHours, "-3")
	svc := NewService(repo, nil, nil)

	policy, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, policy.LateHour)
	assert.InDelta(t, 8, policy.StandardHours, 1e-9)
}

func TestUpsert_VisibleOnNextSnapshot(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, nil, nil)
	ctx := adminContext(t)

	_, err := svc.Upsert(ctx, setting.UpsertRequest{Key: setting.KeyLateTimeHour, Value: "8"})
	require.NoError(t, err)

	policy, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, policy.LateHour)
}

func TestUpsert_RecordsUpdater(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, nil, nil)
	ctx := adminContext(t)

	resp, err := svc.Upsert(ctx, setting.UpsertRequest{Key: setting.KeyRequireApproval, Value: "false"})
	require.NoError(t, err)

	require.NotNil(t, resp.UpdatedBy)
	assert.Equal(t, "admin-1", *resp.UpdatedBy)
}

func TestUpsert_RejectsEmptyKey(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), nil, nil)
	ctx := adminContext(t)

	_, err := svc.Upsert(ctx, setting.UpsertRequest{Value: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key")
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, setting.ErrSettingNotFound))
}
