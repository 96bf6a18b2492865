package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// KVStoreDataProbe fetches a fixed small key set from the auxiliary
// key-value store, per spec.md §4.3's KVStore "Data" variant.
type KVStoreDataProbe struct {
	base
	client *redis.Client
	keys   []string
}

// NewKVStoreDataProbe connects to addr and will fetch keys on every Read.
// If the connection attempt fails, CanRead reports false and the probe is
// dropped by the registry, per spec.md §4.3.
func NewKVStoreDataProbe(addr string, keys ...string) *KVStoreDataProbe {
	client := newRedisClient(addr)
	return &KVStoreDataProbe{client: client, keys: keys}
}

func (p *KVStoreDataProbe) Describe() string {
	return fmt.Sprintf("KVStoreData (%d)", len(p.listIndicators()))
}

func (p *KVStoreDataProbe) CanRead() bool {
	if p.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if p.client.Ping(ctx).Err() != nil {
		return false
	}
	return p.Read() != nil
}

func (p *KVStoreDataProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *KVStoreDataProbe) Read() sample.Sample {
	if p.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := sample.Sample{}
	for _, key := range p.keys {
		val, err := p.client.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return nil
		}
		result["redis."+key] = val
	}
	p.recordIndicators(result)
	return result
}

// KVStoreInfoProbe filters the store's INFO reply down to fields prefixed
// with "used_" or "active_" and adds an active-key count, per spec.md
// §4.3. Each kept field is emitted as "redis_" + the INFO field name with
// its own "used_"/"active_" prefix left in place (e.g. "used_memory"
// becomes "redis_used_memory"); see DESIGN.md.
type KVStoreInfoProbe struct {
	base
	client *redis.Client
}

func NewKVStoreInfoProbe(addr string) *KVStoreInfoProbe {
	return &KVStoreInfoProbe{client: newRedisClient(addr)}
}

func (p *KVStoreInfoProbe) Describe() string {
	return fmt.Sprintf("KVStoreInfo Probe (%d)", len(p.listIndicators()))
}

func (p *KVStoreInfoProbe) CanRead() bool {
	if p.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if p.client.Ping(ctx).Err() != nil {
		return false
	}
	return p.Read() != nil
}

func (p *KVStoreInfoProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *KVStoreInfoProbe) Read() sample.Sample {
	if p.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	info, err := p.client.Info(ctx).Result()
	if err != nil {
		return nil
	}

	result := sample.Sample{}
	for _, line := range strings.Split(info, "\r\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := line[idx+1:]
		if strings.HasPrefix(key, "used_") || strings.HasPrefix(key, "active_") {
			result["redis_"+key] = value
		}
	}

	keys, err := p.client.Keys(ctx, "*").Result()
	if err == nil {
		result["redis_active_keys"] = strconv.Itoa(len(keys))
	}

	p.recordIndicators(result)
	return result
}

func newRedisClient(addr string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
