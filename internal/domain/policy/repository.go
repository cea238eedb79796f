package policy

import "context"

type SettingsRepository interface {
	// GetActive returns the single active settings snapshot, or
	// ErrSettingsNotFound when none exists.
	GetActive(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
}
