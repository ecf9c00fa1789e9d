// Package guard provides a per-component invocation guard. Entry points of one
// component are serialized, and a nested call that tries to re-enter the same
// component from within its own invocation (for example via an outbound
// transfer callback) fails with ErrReentrantCall instead of deadlocking.
package guard

import (
	"context"
	"errors"
	"sync"
)

var ErrReentrantCall = errors.New("reentrant call")

type Guard struct {
	mu sync.Mutex
}

type markKey struct{ g *Guard }

// Enter acquires the guard. The returned context marks the invocation; every
// nested call must be made with it so re-entry is detected. The release func
// must be called on every exit path.
func (g *Guard) Enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(markKey{g}) != nil {
		return nil, nil, ErrReentrantCall
	}
	g.mu.Lock()
	return context.WithValue(ctx, markKey{g}, struct{}{}), g.mu.Unlock, nil
}
