package graphics

import "sync"

// TextureCache loads each texture file once
type TextureCache struct {
	device   *Device
	mu       sync.RWMutex
	textures map[string]*Texture
}

// NewTextureCache creates an empty cache uploading through d
func NewTextureCache(d *Device) *TextureCache {
	return &TextureCache{device: d, textures: make(map[string]*Texture)}
}

// Get returns the cached texture for path, loading it on first use.
func (c *TextureCache) Get(path string) (*Texture, error) {
	c.mu.RLock()
	if tex, ok := c.textures[path]; ok {
		c.mu.RUnlock()
		return tex, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double check locking
	if tex, ok := c.textures[path]; ok {
		return tex, nil
	}

	img, err := LoadImage(path)
	if err != nil {
		return nil, NewError(ResourceBindFailure, "textureCache.Get", err)
	}
	tex, err := NewTexture(c.device, img)
	if err != nil {
		return nil, err
	}
	c.textures[path] = tex
	return tex, nil
}

// Dispose deletes every cached texture
func (c *TextureCache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, tex := range c.textures {
		tex.Dispose()
		delete(c.textures, path)
	}
}
