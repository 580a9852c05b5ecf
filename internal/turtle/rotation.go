package turtle

import (
	"container/list"
	"math"
	"reflect"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

// RotationCache memoizes rotated copies of a base sprite per heading bucket.
// The cached image is a pure function of the base sprite, the bucket
// resolution and the bucket; changing the base sprite empties the cache.
type RotationCache struct {
	rotate   core.RotateFunc
	bucket   float64
	capacity int // 0 = unbounded

	base    core.Image
	entries map[int]*list.Element
	lru     *list.List // front is most recently used

	hits   int
	misses int
}

type rotationEntry struct {
	key int
	img core.Image
}

// NewRotationCache creates a cache. bucketDegrees < 1 is treated as 1.
// A nil rotate function returns the base sprite unrotated.
func NewRotationCache(rotate core.RotateFunc, bucketDegrees, capacity int) *RotationCache {
	return &RotationCache{
		rotate:   rotate,
		bucket:   float64(max(bucketDegrees, 1)),
		capacity: max(capacity, 0),
		entries:  make(map[int]*list.Element),
		lru:      list.New(),
	}
}

// Bucket maps a heading to its cache key.
func (c *RotationCache) Bucket(heading float64) int {
	n := int(math.Ceil(360 / c.bucket))
	k := int(math.Round(core.NormalizeDegrees(heading) / c.bucket))
	return k % n
}

// Base returns the unrotated sprite.
func (c *RotationCache) Base() core.Image { return c.base }

// SetBase replaces the base sprite. A different sprite clears the cache.
func (c *RotationCache) SetBase(img core.Image) {
	if sameImage(c.base, img) {
		return
	}
	c.base = img
	c.Clear()
}

// GetOrCreate returns the sprite rotated to the bucket of heading,
// rotating and storing it on a miss. Returns nil without a base sprite.
func (c *RotationCache) GetOrCreate(heading float64) core.Image {
	if c.base == nil {
		return nil
	}
	key := c.Bucket(heading)
	if el, ok := c.entries[key]; ok {
		c.hits++
		c.lru.MoveToFront(el)
		return el.Value.(*rotationEntry).img
	}

	c.misses++
	img := c.base
	if c.rotate != nil {
		img = c.rotate(c.base, float64(key)*c.bucket)
	}
	c.entries[key] = c.lru.PushFront(&rotationEntry{key: key, img: img})

	if c.capacity > 0 && c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*rotationEntry).key)
	}
	return img
}

// Len returns the number of cached images.
func (c *RotationCache) Len() int { return c.lru.Len() }

// Stats returns hit and miss counters.
func (c *RotationCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Clear drops every cached image. Counters are kept.
func (c *RotationCache) Clear() {
	clear(c.entries)
	c.lru.Init()
}

// sameImage compares by content fingerprint when both images have one,
// otherwise by identity.
func sameImage(a, b core.Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	fa, okA := a.(core.Fingerprinter)
	fb, okB := b.(core.Fingerprinter)
	if okA && okB {
		return fa.Fingerprint() == fb.Fingerprint()
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
