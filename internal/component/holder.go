package component

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotSet is returned when the tree is read before a root was set.
	ErrRootNotSet = errors.New("root has not been created yet")
	// ErrComponentNotFound is returned for a ref that is not in the tree.
	ErrComponentNotFound = errors.New("component not found")
)

// TreeRootHolder holds the component tree built for the current analysis
// and indexes it by report ref.
type TreeRootHolder struct {
	root  *Component
	byRef map[int]*Component
}

// NewTreeRootHolder returns an empty holder.
func NewTreeRootHolder() *TreeRootHolder {
	return &TreeRootHolder{}
}

// SetRoot installs the tree. Refs must be unique across the whole tree.
func (h *TreeRootHolder) SetRoot(root *Component) error {
	if root == nil {
		return errors.New("root cannot be nil")
	}
	index := make(map[int]*Component)
	if err := indexTree(root, index); err != nil {
		return err
	}
	h.root = root
	h.byRef = index
	return nil
}

// IsInitialized reports whether a root has been set.
func (h *TreeRootHolder) IsInitialized() bool {
	return h.root != nil
}

// Root returns the root of the tree.
func (h *TreeRootHolder) Root() (*Component, error) {
	if h.root == nil {
		return nil, ErrRootNotSet
	}
	return h.root, nil
}

// ComponentByRef returns the component carrying the given report ref.
func (h *TreeRootHolder) ComponentByRef(ref int) (*Component, error) {
	if h.root == nil {
		return nil, ErrRootNotSet
	}
	c, ok := h.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("%w: ref %d", ErrComponentNotFound, ref)
	}
	return c, nil
}

func indexTree(c *Component, index map[int]*Component) error {
	if prev, ok := index[c.ref]; ok {
		return fmt.Errorf("duplicate component ref %d: %s and %s", c.ref, prev, c)
	}
	index[c.ref] = c
	for _, child := range c.children {
		if err := indexTree(child, index); err != nil {
			return err
		}
	}
	return nil
}
