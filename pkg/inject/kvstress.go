package inject

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// KVStoreGetInjector runs nWorkers goroutines performing tight GETs
// against the auxiliary store; duration-bounded, per spec.md §4.5. Unlike
// CPU/Disk/Deadlock/HTTP, this injector's load lives in the KV store
// process, not the host's own CPU/memory/disk accounting, so goroutine
// workers reusing one client connection are sufficient.
type KVStoreGetInjector struct {
	base
	nWorkers int
	client   *redis.Client
}

func NewKVStoreGetInjector(clk *clock.Source, durationMs int64, nWorkers int, addr string) *KVStoreGetInjector {
	if nWorkers <= 0 {
		nWorkers = 2
	}
	return &KVStoreGetInjector{base: newBase(clk, durationMs), nWorkers: nWorkers, client: newRedisClientFor(addr)}
}

func (k *KVStoreGetInjector) Inject(ctx context.Context) {
	go k.runBody(ctx, func(ctx context.Context) {
		workerCtx, cancel := context.WithTimeout(ctx, time.Duration(k.durationMs)*time.Millisecond)
		defer cancel()

		var wg sync.WaitGroup
		for i := 0; i < k.nWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				k.worker(workerCtx)
			}()
		}
		wg.Wait()
	})
}

func (k *KVStoreGetInjector) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := k.client.Get(ctx, "arancino-stress-probe-key").Err(); err != nil && err != redis.Nil {
			log.Verbosef(2, "kv get injector: get failed: %v", err)
		}
	}
}

func (k *KVStoreGetInjector) Name() string {
	return fmt.Sprintf("RedisStressGetInjection(d%d-w%d)", k.durationMs, k.nWorkers)
}

// KVStoreSetInjector runs a single worker that SETs an ever-growing set
// of keys with a fixed prefix; on completion, deletes all keys matching
// that prefix (cleanup is mandatory), per spec.md §4.5.
type KVStoreSetInjector struct {
	base
	client *redis.Client
	prefix string
}

func NewKVStoreSetInjector(clk *clock.Source, durationMs int64, addr string) *KVStoreSetInjector {
	return &KVStoreSetInjector{base: newBase(clk, durationMs), client: newRedisClientFor(addr), prefix: "arancino-stress-set-"}
}

func (k *KVStoreSetInjector) Inject(ctx context.Context) {
	go k.runBody(ctx, func(ctx context.Context) {
		deadlineCtx, cancel := context.WithTimeout(ctx, time.Duration(k.durationMs)*time.Millisecond)
		defer cancel()

		i := 0
		for {
			select {
			case <-deadlineCtx.Done():
				k.cleanup(ctx)
				return
			default:
			}
			key := fmt.Sprintf("%s%d", k.prefix, i)
			if err := k.client.Set(ctx, key, i, 0).Err(); err != nil {
				log.Verbosef(2, "kv set injector: set %s failed: %v", key, err)
			}
			i++
		}
	})
}

// cleanup deletes every key matching the injector's prefix; mandatory per
// spec.md §4.5/§5, run with a fresh background context so force-stop
// cancellation of the caller's ctx cannot also abort cleanup.
func (k *KVStoreSetInjector) cleanup(_ context.Context) {
	bg := context.Background()
	keys, err := k.client.Keys(bg, k.prefix+"*").Result()
	if err != nil {
		log.Warnf("kv set injector: cleanup scan failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := k.client.Del(bg, keys...).Err(); err != nil {
		log.Warnf("kv set injector: cleanup delete failed: %v", err)
	}
}

func (k *KVStoreSetInjector) Name() string {
	return fmt.Sprintf("RedisStressSetInjection(d%d)", k.durationMs)
}

func newRedisClientFor(addr string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
