package motion

import "testing"

type fakeCamera struct {
	aspect float64
	calls  int
}

func (f *fakeCamera) SetAspect(aspect float64) {
	f.aspect = aspect
	f.calls++
}

type fakeSurface struct {
	w, h  int
	calls int
}

func (f *fakeSurface) SetSize(width, height int) {
	f.w, f.h = width, height
	f.calls++
}

func TestResize(t *testing.T) {
	sizes := [][2]int{{1280, 720}, {1, 1}, {333, 777}, {3840, 2160}, {1, 4096}}

	for _, sz := range sizes {
		cam := &fakeCamera{}
		surf := &fakeSurface{}

		Resize(cam, surf, sz[0], sz[1])

		if want := float64(sz[0]) / float64(sz[1]); cam.aspect != want {
			t.Errorf("%dx%d: aspect = %v, want %v", sz[0], sz[1], cam.aspect, want)
		}
		if surf.w != sz[0] || surf.h != sz[1] {
			t.Errorf("%dx%d: surface = %dx%d", sz[0], sz[1], surf.w, surf.h)
		}
	}
}

func TestResizeIdempotent(t *testing.T) {
	cam := &fakeCamera{}
	surf := &fakeSurface{}
	Resize(cam, surf, 800, 600)
	first := cam.aspect
	Resize(cam, surf, 800, 600)
	if cam.aspect != first || surf.w != 800 || surf.h != 600 {
		t.Error("repeated resize should give the same result")
	}
}

func TestResizeIgnoresEmptyViewport(t *testing.T) {
	cam := &fakeCamera{}
	surf := &fakeSurface{}
	Resize(cam, surf, 0, 600)
	Resize(cam, surf, 800, -1)
	if cam.calls != 0 || surf.calls != 0 {
		t.Error("non-positive sizes must be ignored")
	}
}
