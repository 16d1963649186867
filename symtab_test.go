package lugha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableLookupWalksParents(t *testing.T) {
	root := NewSymbolTable(nil)
	child := NewSymbolTable(root)
	root.Set("a", NewNumber(1))

	v, ok := child.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, v.(*Number).Value)

	_, ok = child.Get("b")
	assert.False(t, ok)
}

func TestSymbolTableSetShadowsWithoutMutatingParent(t *testing.T) {
	root := NewSymbolTable(nil)
	child := NewSymbolTable(root)
	root.Set("a", NewNumber(1))
	child.Set("a", NewNumber(2))

	v, _ := child.Get("a")
	assert.Equal(t, 2.0, v.(*Number).Value)
	v, _ = root.Get("a")
	assert.Equal(t, 1.0, v.(*Number).Value)
}

func TestSymbolTableRemoveUncoversParentBinding(t *testing.T) {
	root := NewSymbolTable(nil)
	child := NewSymbolTable(root)
	root.Set("a", NewNumber(1))
	child.Set("a", NewNumber(2))
	child.Remove("a")

	v, ok := child.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, v.(*Number).Value)

	// Remove never walks up.
	child.Remove("a")
	_, ok = root.Get("a")
	assert.True(t, ok)
}
