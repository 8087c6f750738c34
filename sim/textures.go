package sim

import (
	"sync"
)

// TextureID is a key into a Textures table.
// Entities hold keys instead of owning references, so removing an entity
// never affects the texture other entities are drawn with.
type TextureID int32

// NoTexture never resolves to an image. The zero TextureID is not NoTexture:
// it is the first slot of a table, so entities must set Texture explicitly.
const NoTexture TextureID = -1

// Texture is one slot of the table
type Texture[T any] struct {
	// Name is the asset path or a label for generated textures
	Name string

	// Width and Height are the on-screen size in pixels
	Width, Height float64

	// Image is the backend resource; only meaningful when Loaded is true
	Image T

	// Loaded is false when the asset failed to load
	Loaded bool
}

// Textures is an append-only table of drawable resources owned by one allocator.
// Slots are never removed or replaced, so a key stays valid for as long as
// the table lives, which is longer than any entity referencing it.
type Textures[T any] struct {
	mu    sync.RWMutex
	slots []Texture[T]
}

// NewTextures creates an empty table
func NewTextures[T any]() *Textures[T] {
	return &Textures[T]{
		slots: make([]Texture[T], 0, 8),
	}
}

// Insert stores a loaded resource and returns its key
func (t *Textures[T]) Insert(name string, width, height float64, img T) TextureID {
	return t.insert(Texture[T]{Name: name, Width: width, Height: height, Image: img, Loaded: true})
}

// InsertMissing reserves a key for a resource that failed to load.
// Drawing with the key is a no-op.
func (t *Textures[T]) InsertMissing(name string, width, height float64) TextureID {
	return t.insert(Texture[T]{Name: name, Width: width, Height: height})
}

func (t *Textures[T]) insert(tex Texture[T]) TextureID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots = append(t.slots, tex)
	return TextureID(len(t.slots) - 1)
}

// Lookup returns the slot for id. The boolean is false for unknown keys and
// for slots whose asset failed to load.
func (t *Textures[T]) Lookup(id TextureID) (Texture[T], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || int(id) >= len(t.slots) {
		return Texture[T]{}, false
	}
	tex := t.slots[id]
	return tex, tex.Loaded
}

// Len returns the number of slots, loaded or not
func (t *Textures[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots)
}
