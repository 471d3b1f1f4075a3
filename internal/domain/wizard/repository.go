package wizard

import "context"

type Repository interface {
	Get(ctx context.Context, draftID string) (Draft, bool, error)
	Save(ctx context.Context, draft Draft) error
	Delete(ctx context.Context, draftID string) error
}
