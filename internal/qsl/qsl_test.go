package qsl

import "testing"

type fakeLibrary struct {
	total, perf uint64
	loaded      map[uint64]bool
}

func newFakeLibrary(total, perf uint64) *fakeLibrary {
	return &fakeLibrary{total: total, perf: perf, loaded: make(map[uint64]bool)}
}

func (f *fakeLibrary) TotalSampleCount() uint64       { return f.total }
func (f *fakeLibrary) PerformanceSampleCount() uint64 { return f.perf }

func (f *fakeLibrary) LoadSamplesToRam(indices []uint64) {
	for _, i := range indices {
		f.loaded[i] = true
	}
}

func (f *fakeLibrary) UnloadSamplesFromRam(indices []uint64) {
	for _, i := range indices {
		delete(f.loaded, i)
	}
}

func TestLoadInitialAndRotate(t *testing.T) {
	lib := newFakeLibrary(100, 10)
	c := NewController(lib)
	c.Start()
	defer c.Stop()

	order := []uint64{5, 1, 9, 3, 7, 0, 2, 8, 4, 6}
	c.LoadInitial(order, 4)

	if c.LoadedCount() != 4 {
		t.Fatalf("LoadedCount = %d, want 4", c.LoadedCount())
	}
	for _, idx := range order[:4] {
		if !c.Loaded(idx) {
			t.Errorf("expected %d to be loaded", idx)
		}
	}

	c.Rotate(order[:4], order[4:8])
	if c.LoadedCount() != 4 {
		t.Fatalf("after rotate, LoadedCount = %d, want 4", c.LoadedCount())
	}
	for _, idx := range order[:4] {
		if c.Loaded(idx) {
			t.Errorf("expected %d to be unloaded", idx)
		}
	}
	for _, idx := range order[4:8] {
		if !c.Loaded(idx) {
			t.Errorf("expected %d to be loaded", idx)
		}
	}
}

func TestLoadInitialWindowLargerThanLibrary(t *testing.T) {
	lib := newFakeLibrary(3, 3)
	c := NewController(lib)
	c.Start()
	defer c.Stop()

	c.LoadInitial([]uint64{0, 1, 2}, 10)
	if c.LoadedCount() != 3 {
		t.Fatalf("LoadedCount = %d, want 3", c.LoadedCount())
	}
}
