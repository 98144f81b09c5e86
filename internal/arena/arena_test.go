package arena

import "testing"

func TestAllocIsStable(t *testing.T) {
	a := New[int](4)
	refs := make([]Ref, 0, 10)
	for i := 0; i < 10; i++ {
		r := a.Alloc()
		*a.Get(r) = i
		refs = append(refs, r)
	}
	for i, r := range refs {
		if got := *a.Get(r); got != i {
			t.Fatalf("ref %d: got %d, want %d", i, got, i)
		}
	}
}

func TestAllocGrowsNewRegionOnOverflow(t *testing.T) {
	a := New[int](2)
	for i := 0; i < 5; i++ {
		a.Alloc()
	}
	if len(a.regions) < 2 {
		t.Fatalf("expected at least 2 regions after overflow, got %d", len(a.regions))
	}
}

func TestAllocNRequestLargerThanDefaultCapacity(t *testing.T) {
	a := New[byte](4)
	ref := a.AllocN(100)
	if got := len(a.regions[len(a.regions)-1].data); got < 100 {
		t.Fatalf("region capacity %d too small for requested 100", got)
	}
	_ = a.Get(ref)
}

func TestReset(t *testing.T) {
	a := New[int](4)
	r1 := a.Alloc()
	*a.Get(r1) = 42
	a.Reset()

	r2 := a.Alloc()
	if r2 != r1 {
		t.Fatalf("after Reset, first Alloc should reuse ref %v, got %v", r1, r2)
	}
	if got := *a.Get(r2); got != 0 {
		t.Fatalf("after Reset, region memory should read zero-valued, got %d", got)
	}
}

func TestSnapshotRewindDiscardsAllocations(t *testing.T) {
	a := New[int](4)
	a.Alloc()
	mark := a.Snapshot()
	before := a.Len()

	for i := 0; i < 20; i++ {
		a.Alloc()
	}
	a.Rewind(mark)

	if got := a.Len(); got != before {
		t.Fatalf("after Rewind, Len() = %d, want %d", got, before)
	}
}

func TestGuardRewindsOnClose(t *testing.T) {
	a := New[int](4)
	a.Alloc()
	before := a.Len()

	func() {
		g := NewGuard(a)
		defer g.Close()
		for i := 0; i < 5; i++ {
			a.Alloc()
		}
	}()

	if got := a.Len(); got != before {
		t.Fatalf("after Guard.Close, Len() = %d, want %d", got, before)
	}
}

func TestFreeEmptiesArena(t *testing.T) {
	a := New[int](4)
	a.Alloc()
	a.Free()
	if a.Len() != 0 {
		t.Fatalf("after Free, Len() = %d, want 0", a.Len())
	}
	// Arena must remain usable after Free.
	r := a.Alloc()
	*a.Get(r) = 7
	if got := *a.Get(r); got != 7 {
		t.Fatalf("arena unusable after Free: got %d, want 7", got)
	}
}
