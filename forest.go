// SPDX-License-Identifier: MIT
package idtree

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Forest builds the nested subtree of every root, in root insertion order.
//
// Roots are built concurrently on a pool bounded by [Config.PoolSize]; the Tree must not be
// added to meanwhile.
func (t *Tree[K, V]) Forest(ctx context.Context, options ...QueryOption) (forest []*Branch[Node[K, V]], err error) {
	roots := t.Roots()
	forest = make([]*Branch[Node[K, V]], len(roots))
	if len(roots) < 1 {
		return
	}

	pool, err := ants.NewPool(t.cfg.PoolSize, ants.WithLogger(t.cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("forest pool: %w", err)
	}
	defer pool.Release()

	wg := new(sync.WaitGroup)
	for index, id := range roots {
		if err = ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			forest[index], _ = t.Get(id, options...)
		}); err != nil {
			wg.Done()
			err = fmt.Errorf("forest root (%v): %w", id, err)
			break
		}
	}
	wg.Wait()

	if err != nil {
		return nil, err
	}

	return
}
