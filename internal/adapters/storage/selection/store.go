package selection

import "context"

// Store persists the saved calendar selection between runs. The saved ids
// only seed the next session's selection; events are always refetched.
type Store interface {
	Save(ctx context.Context, ids []string) error
	Load(ctx context.Context) ([]string, error)
}
