package plan

import "context"

type Store interface {
	ListActive(ctx context.Context) ([]Plan, error)
}
