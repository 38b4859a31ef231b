package setting

import "context"

// Repository defines data access for settings.
type Repository interface {
	// GetByKey returns ErrSettingNotFound when the key has no entry.
	GetByKey(ctx context.Context, key string) (Setting, error)

	// GetMany returns the entries that exist among the given keys; missing
	// keys are simply absent from the result.
	GetMany(ctx context.Context, keys []string) (map[string]Setting, error)

	List(ctx context.Context) ([]Setting, error)

	Upsert(ctx context.Context, s Setting) (Setting, error)
}
