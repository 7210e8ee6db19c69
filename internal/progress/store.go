package progress

import "context"

// Store persists sessions for polling. Two implementations: an in-process
// map for single-node deployments and a redis store for setups where the
// engine runs behind more than one process.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}
