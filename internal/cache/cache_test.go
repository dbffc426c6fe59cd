package cache

import "testing"

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache: want ok=false")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v, want 1, true", v, ok)
	}
}

func TestCacheGetOrCreateCallsCreateOnlyOnMiss(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() int {
		calls++
		return 42
	}

	v1 := c.GetOrCreate("k", create)
	v2 := c.GetOrCreate("k", create)

	if v1 != 42 || v2 != 42 {
		t.Fatalf("GetOrCreate = %d, %d, want 42, 42", v1, v2)
	}
	if calls != 1 {
		t.Errorf("create() called %d times, want 1", calls)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 4; i++ {
		c.Set(i, i)
	}
	// Touch 0 and 1 so 2 and 3 become the least-recently-used pair.
	c.Get(0)
	c.Get(1)

	c.Set(4, 4) // push over softLimit, triggers eviction down to 75%

	if _, ok := c.Get(2); ok {
		t.Error("key 2 should have been evicted as least-recently-used")
	}
	if _, ok := c.Get(0); !ok {
		t.Error("key 0 was recently touched, should survive eviction")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("Delete(a) second time = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
}

func TestCacheUnlimitedSoftLimit(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 100; i++ {
		c.Set(i, i)
	}
	if c.Len() != 100 {
		t.Errorf("Len() with softLimit=0 = %d, want 100 (no eviction)", c.Len())
	}
}
