package component

import (
	"context"
	"errors"
	"testing"

	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree builds project(1) > module(2) > directory(3) > file(4).
func sampleTree() *Component {
	file := NewBuilder(schema.FileType, 4).UUID("uuid-4").Key("p:m:src/Foo.go").Build()
	dir := NewBuilder(schema.DirectoryType, 3).UUID("uuid-3").Key("p:m:src").AddChildren(file).Build()
	mod := NewBuilder(schema.ModuleType, 2).UUID("uuid-2").Key("p:m").AddChildren(dir).Build()
	return NewBuilder(schema.ProjectType, 1).UUID("uuid-1").Key("p").AddChildren(mod).Build()
}

func TestBuilder_ParentLinks(t *testing.T) {
	root := sampleTree()
	assert.Nil(t, root.Parent())
	require.Len(t, root.Children(), 1)
	mod := root.Children()[0]
	assert.Same(t, root, mod.Parent())
	assert.Equal(t, "uuid-2", mod.UUID())
	assert.Equal(t, "p:m", mod.Key())
	assert.Equal(t, "MODULE[ref=2, key=p:m]", mod.String())
}

func TestTreeRootHolder_ComponentByRef(t *testing.T) {
	h := NewTreeRootHolder()
	require.NoError(t, h.SetRoot(sampleTree()))
	assert.True(t, h.IsInitialized())

	tests := []struct {
		ref      int
		expected schema.ComponentType
	}{
		{1, schema.ProjectType},
		{2, schema.ModuleType},
		{3, schema.DirectoryType},
		{4, schema.FileType},
	}
	for _, tt := range tests {
		c, err := h.ComponentByRef(tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.ref, c.Ref())
		assert.Equal(t, tt.expected, c.Type())
	}

	_, err := h.ComponentByRef(123)
	assert.ErrorIs(t, err, ErrComponentNotFound)
	assert.Contains(t, err.Error(), "123")
}

func TestTreeRootHolder_NotInitialized(t *testing.T) {
	h := NewTreeRootHolder()
	assert.False(t, h.IsInitialized())

	_, err := h.Root()
	assert.ErrorIs(t, err, ErrRootNotSet)

	_, err = h.ComponentByRef(1)
	assert.ErrorIs(t, err, ErrRootNotSet)
	assert.False(t, errors.Is(err, ErrComponentNotFound))
}

func TestTreeRootHolder_SetRootErrors(t *testing.T) {
	h := NewTreeRootHolder()
	assert.Error(t, h.SetRoot(nil))

	dup := NewBuilder(schema.ProjectType, 1).AddChildren(
		NewBuilder(schema.FileType, 2).Build(),
		NewBuilder(schema.FileType, 2).Build(),
	).Build()
	err := h.SetRoot(dup)
	assert.ErrorContains(t, err, "duplicate component ref 2")
	assert.False(t, h.IsInitialized())
}

func TestTypeAwareVisitor_Order(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		name     string
		maxDepth schema.ComponentType
		order    Order
		expected []int
	}{
		{"pre order to files", schema.FileType, PreOrder, []int{1, 2, 3, 4}},
		{"post order to files", schema.FileType, PostOrder, []int{4, 3, 2, 1}},
		{"project only", schema.ProjectType, PreOrder, []int{1}},
		{"down to directories", schema.DirectoryType, PostOrder, []int{3, 2, 1}},
		{"default depth", "", PreOrder, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []int
			v := &TypeAwareVisitor{
				MaxDepth: tt.maxDepth,
				Order:    tt.order,
				VisitAny: func(_ context.Context, c *Component) error {
					visited = append(visited, c.Ref())
					return nil
				},
			}
			require.NoError(t, v.Visit(context.Background(), root))
			assert.Equal(t, tt.expected, visited)
		})
	}
}

func TestTypeAwareVisitor_TypedHooks(t *testing.T) {
	var project, files int
	v := &TypeAwareVisitor{
		VisitProject: func(_ context.Context, _ *Component) error { project++; return nil },
		VisitFile:    func(_ context.Context, _ *Component) error { files++; return nil },
	}
	require.NoError(t, v.Visit(context.Background(), sampleTree()))
	assert.Equal(t, 1, project)
	assert.Equal(t, 1, files)
}

func TestTypeAwareVisitor_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var files int
	v := &TypeAwareVisitor{
		VisitDirectory: func(context.Context, *Component) error { return boom },
		VisitFile:      func(context.Context, *Component) error { files++; return nil },
	}
	err := v.Visit(context.Background(), sampleTree())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, files)
}
