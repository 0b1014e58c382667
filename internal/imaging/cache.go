package imaging

import (
	"image"
	"sync"
)

// cachedImage is a decoded image together with what was learned while
// decoding it.
type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// ImageCache provides thread-safe caching of decoded images keyed by source.
//
// Once a source has been loaded, subsequent lookups return the cached copy
// without disk or network I/O. Cached images remain in memory until removed
// via Evict or Clear.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

func (c *ImageCache) get(source string) (cachedImage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.images[source]
	return entry, ok
}

func (c *ImageCache) put(source string, entry cachedImage) {
	c.mu.Lock()
	c.images[source] = entry
	c.mu.Unlock()
}

// Contains reports whether source has a cached image.
func (c *ImageCache) Contains(source string) bool {
	_, ok := c.get(source)
	return ok
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific source from the cache.
// If the source is not cached, this method does nothing.
func (c *ImageCache) Evict(source string) {
	c.mu.Lock()
	delete(c.images, source)
	c.mu.Unlock()
}
