// Package debt holds the technical debt model: root characteristics and their children.
package debt

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotInitialized is returned when the model is read before it was fed.
var ErrNotInitialized = errors.New("characteristics have not been initialized yet")

// Characteristic is one node of the debt model.
type Characteristic struct {
	ID  int
	Key string
}

// Holder keeps the debt model loaded for the current analysis.
type Holder struct {
	initialized bool
	byID        map[int]Characteristic
	byKey       map[string]Characteristic
	rootByID    map[int]Characteristic
	rootsInto   map[int][]Characteristic
	rootOrder   []int
}

func NewHolder() *Holder {
	return &Holder{
		byID:      make(map[int]Characteristic),
		byKey:     make(map[string]Characteristic),
		rootByID:  make(map[int]Characteristic),
		rootsInto: make(map[int][]Characteristic),
	}
}

// AddCharacteristics registers root and its children. A root may be fed more than once;
// children accumulate.
func (h *Holder) AddCharacteristics(root Characteristic, children []Characteristic) {
	if _, ok := h.rootByID[root.ID]; !ok {
		h.rootOrder = append(h.rootOrder, root.ID)
	}
	h.rootByID[root.ID] = root
	h.index(root)
	for _, c := range children {
		h.index(c)
		h.rootsInto[root.ID] = append(h.rootsInto[root.ID], c)
	}
	h.initialized = true
}

func (h *Holder) index(c Characteristic) {
	h.byID[c.ID] = c
	h.byKey[c.Key] = c
}

// IsInitialized reports whether AddCharacteristics was called at least once.
func (h *Holder) IsInitialized() bool {
	return h.initialized
}

// GetByID returns the characteristic with the given id, root or child.
func (h *Holder) GetByID(id int) (Characteristic, bool, error) {
	if !h.initialized {
		return Characteristic{}, false, ErrNotInitialized
	}
	c, ok := h.byID[id]
	return c, ok, nil
}

// GetByKey returns the characteristic with the given key, root or child.
func (h *Holder) GetByKey(key string) (Characteristic, bool, error) {
	if !h.initialized {
		return Characteristic{}, false, ErrNotInitialized
	}
	c, ok := h.byKey[key]
	return c, ok, nil
}

// RootCharacteristics returns the roots in the order they were fed.
func (h *Holder) RootCharacteristics() ([]Characteristic, error) {
	if !h.initialized {
		return nil, ErrNotInitialized
	}
	roots := make([]Characteristic, 0, len(h.rootOrder))
	for _, id := range h.rootOrder {
		roots = append(roots, h.rootByID[id])
	}
	return roots, nil
}

// Children returns the children fed under the root with the given id, sorted by id.
func (h *Holder) Children(rootID int) ([]Characteristic, error) {
	if !h.initialized {
		return nil, ErrNotInitialized
	}
	if _, ok := h.rootByID[rootID]; !ok {
		return nil, fmt.Errorf("no root characteristic with id %d", rootID)
	}
	children := append([]Characteristic(nil), h.rootsInto[rootID]...)
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}
