package playqueue

import "github.com/llehouerou/jukebox/internal/collection"

// Item is one scheduled play of a file.
type Item struct {
	File *collection.File
	// Repeat keeps the item in the queue once played.
	Repeat bool
	// Planned marks a look-ahead item that is not committed yet.
	Planned bool
	// Inserted marks an item placed at a position rather than appended.
	Inserted bool
}

// NewItem wraps f in a committed, non-repeated item.
func NewItem(f *collection.File) *Item {
	return &Item{File: f}
}

// NewItems wraps each file in an item.
func NewItems(files []*collection.File) []*Item {
	items := make([]*Item, 0, len(files))
	for _, f := range files {
		items = append(items, NewItem(f))
	}
	return items
}

func (it *Item) clone() *Item {
	c := *it
	return &c
}

func (it *Item) available() bool {
	return it != nil && it.File != nil && it.File.IsAvailable()
}

func (it *Item) onDevice(deviceID string) bool {
	d := it.File.Device()
	return d != nil && d.ID == deviceID
}

func snapshot(items []*Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}
