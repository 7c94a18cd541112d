package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader decodes datasets with a content-addressed cache so concurrent
// analyses of the same upload parse the bytes only once.
type Loader struct {
	cache   map[string]*Table
	cacheMu sync.RWMutex
	group   singleflight.Group
}

func NewLoader() *Loader {
	return &Loader{
		cache: make(map[string]*Table),
	}
}

// Load decodes data in the given format, serving repeated calls for
// identical content from the cache.
func (l *Loader) Load(data []byte, format Format) (*Table, error) {
	key := cacheKey(data, format)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		table, err := Decode(data, format)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = table
		l.cacheMu.Unlock()

		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Table), nil
}

// Evict drops the cached table for the given content, if present.
func (l *Loader) Evict(data []byte, format Format) {
	key := cacheKey(data, format)
	l.cacheMu.Lock()
	delete(l.cache, key)
	l.cacheMu.Unlock()
}

func cacheKey(data []byte, format Format) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + "|" + string(format)
}
