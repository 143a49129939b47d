package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := NewLRUCache[string, int](2, 0, "test")
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Set("c", 3) // evicts "b", "a" was used more recently
	_, ok = c.Get("b")
	require.False(t, ok)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestCache_Expiration(t *testing.T) {
	c := NewLRUCache[string, int](10, 20*time.Millisecond, "test_expiration")
	c.Set("rate", 42)
	v, ok := c.Get("rate")
	require.True(t, ok)
	require.Equal(t, 42, v)

	require.Eventually(t, func() bool {
		_, ok := c.Get("rate")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
