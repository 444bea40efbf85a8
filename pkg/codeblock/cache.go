package codeblock

import (
	"strconv"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheSize is the number of blocks a CachedDeriver keeps when
	// no size is given.
	DefaultCacheSize = 4096
	cacheBufferItems = 64
	cacheItemCost    = 1
)

// CachedDeriver memoizes blocks from an underlying Deriver. It is meant for
// callers that repeatedly look up the live block of a long-running epoch.
type CachedDeriver struct {
	next  Deriver
	cache *ristretto.Cache[uint64, []byte]
	sf    singleflight.Group
}

// NewCachedDeriver wraps next with a cache holding up to size blocks. A size
// of zero or less selects DefaultCacheSize.
func NewCachedDeriver(next Deriver, size int64) (*CachedDeriver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, []byte]{
		// TinyLFU wants roughly 10x counters per live item.
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: cacheBufferItems,
		// Cost is counted in blocks, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &CachedDeriver{next: next, cache: c}, nil
}

func cacheKey(index, bitLength uint32) uint64 {
	return uint64(index)<<32 | uint64(bitLength)
}

// Block implements Deriver. The returned slice is owned by the caller.
func (d *CachedDeriver) Block(index uint32, bitLength uint32) []byte {
	key := cacheKey(index, bitLength)
	if val, ok := d.cache.Get(key); ok && val != nil {
		return clone(val)
	}

	// Deduplicate concurrent derivations of the same block.
	res, _, _ := d.sf.Do(strconv.FormatUint(key, 16), func() (any, error) {
		if val, ok := d.cache.Get(key); ok && val != nil {
			return val, nil
		}
		block := d.next.Block(index, bitLength)
		d.cache.Set(key, clone(block), cacheItemCost)
		return block, nil
	})
	return clone(res.([]byte))
}

// Wait blocks until pending cache writes are applied.
func (d *CachedDeriver) Wait() { d.cache.Wait() }

// Close releases the cache. Cached blocks are cleared first.
func (d *CachedDeriver) Close() {
	d.cache.Clear()
	d.cache.Close()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
