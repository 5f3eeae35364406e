package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/chainmap"
	"github.com/llxisdsh/chainmap/hashfunc"
)

func loadHasher(name string) chainmap.Hasher[string] {
	if fn, ok := hashfunc.ByName(name); ok {
		return hashfunc.String(fn)
	}
	return chainmap.StringHasher{}
}

// runLoad builds the table selected by cfg.Lock and fills it from
// cfg.Workers goroutines, each owning a disjoint key range.
func runLoad(ctx context.Context, cfg *Config) (*chainmap.Stats, error) {
	h := loadHasher(cfg.Hash)
	opt := chainmap.WithSlots(cfg.LoadSlots)
	switch cfg.Lock {
	case "none":
		// an unsynchronized table must stay on one goroutine
		single := *cfg
		single.KeysPerWorker *= single.Workers
		single.Workers = 1
		return fill(ctx, &single, chainmap.NewUnsynced[string, int](h, opt))
	case "mutex":
		return fill(ctx, cfg, chainmap.NewMutexTable[string, int](h, opt))
	case "spin":
		return fill(ctx, cfg, chainmap.NewSpinTable[string, int](h, opt))
	default:
		return fill(ctx, cfg, chainmap.NewRWTable[string, int](h, opt))
	}
}

func fill[L any, PL chainmap.Locker[L]](
	ctx context.Context,
	cfg *Config,
	m *chainmap.Table[string, int, L, PL],
) (*chainmap.Stats, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			prefix := strconv.Itoa(w) + "-"
			for i := 0; i < cfg.KeysPerWorker; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if !m.Insert(prefix+strconv.Itoa(i), i) {
					return fmt.Errorf("duplicate key %s%d", prefix, i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	want := cfg.Workers * cfg.KeysPerWorker
	if m.Size() != want {
		return nil, fmt.Errorf("size mismatch: got %d, want %d", m.Size(), want)
	}
	for w := 0; w < cfg.Workers; w++ {
		key := strconv.Itoa(w) + "-" + strconv.Itoa(cfg.KeysPerWorker-1)
		if !m.Contains(key) {
			return nil, fmt.Errorf("key %s missing after load", key)
		}
	}
	log.Info().
		Str("lock", cfg.Lock).
		Str("hash", cfg.Hash).
		Int("entries", want).
		Dur("elapsed", time.Since(start)).
		Msg("load finished")
	return m.Stats(), nil
}
