package decode

import (
	"sync"

	goshape "github.com/reoring/goshape"
)

// Cache memoizes derived decoders by descriptor identity and options. Entries
// are never evicted; descriptors are immutable so an entry never goes stale.
// The zero value is ready to use and safe for concurrent use.
type Cache struct {
	m sync.Map // cacheKey -> *Decoder
}

type cacheKey struct {
	desc goshape.Descriptor
	opts options
}

// Decoder returns the cached decoder for d, deriving it on first use.
// Malformed descriptors are not cached.
func (c *Cache) Decoder(d goshape.Descriptor, opts ...Option) (*Decoder, error) {
	key := cacheKey{desc: d, opts: buildOptions(opts)}
	if v, ok := c.m.Load(key); ok {
		return v.(*Decoder), nil
	}
	dec, err := Derive(d, opts...)
	if err != nil {
		return nil, err
	}
	actual, _ := c.m.LoadOrStore(key, dec)
	return actual.(*Decoder), nil
}

// Len returns the number of cached decoders.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
