package setting

import "context"

// Provider exposes policy values as a pure read interface. Missing or
// unparseable entries resolve to DefaultPolicy values; only storage
// failures surface as errors.
type Provider interface {
	// Snapshot resolves the current policy. Implementations may cache
	// best-effort, but a write through Service must be visible on the next
	// Snapshot call.
	Snapshot(ctx context.Context) (Policy, error)
}

// Service defines the administrator write path plus reads.
type Service interface {
	Provider

	Get(ctx context.Context, key string) (SettingResponse, error)
	List(ctx context.Context) ([]SettingResponse, error)
	Upsert(ctx context.Context, req UpsertRequest) (SettingResponse, error)
}
