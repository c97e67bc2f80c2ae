package detector

import (
	"sync"
	"testing"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

func TestCache(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache should miss")
	}

	result := nativeapps.ClassificationResult{IsNative: true, Confidence: 0.9}
	c.Put("client-a", result)

	got, ok := c.Get("client-a")
	if !ok || got.Confidence != 0.9 {
		t.Errorf("Get = (%+v, %t), want cached result", got, ok)
	}

	c.Invalidate("client-a")
	if _, ok := c.Get("client-a"); ok {
		t.Error("invalidated entry should miss")
	}

	c.Put("a", result)
	c.Put("b", result)
	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len = %d after InvalidateAll, want 0", c.Len())
	}
}

func TestCacheNilSafety(t *testing.T) {
	var c *Cache
	if _, ok := c.Get("x"); ok {
		t.Error("nil cache should always miss")
	}
	c.Put("x", nativeapps.ClassificationResult{})
	c.Invalidate("x")
	c.InvalidateAll()
	if c.Len() != 0 {
		t.Error("nil cache Len should be 0")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("shared", nativeapps.ClassificationResult{IsNative: true})
				c.Get("shared")
				c.Invalidate("shared")
			}
		}()
	}
	wg.Wait()
}
