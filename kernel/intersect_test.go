package kernel

import (
	"math"
	"testing"

	"github.com/lumen-render/lumen/types"
)

func TestSphereIntersectAnalytic(t *testing.T) {
	sc := Scene{
		{Center: types.XYZ(0, 0, -2), Radius: 0.5, Material: MatDiffuse},
	}
	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}

	hit, ok := sc.Intersect(ray, 0.001, math.MaxFloat32)
	if !ok {
		t.Fatal("expected ray to hit sphere")
	}
	if diff := absf(hit.T - 1.5); diff > 1e-5 {
		t.Fatalf("expected t=1.5; got %v", hit.T)
	}
	if diff := absf(hit.Normal.Len() - 1); diff > 1e-5 {
		t.Fatalf("expected unit normal; got length %v", hit.Normal.Len())
	}
	if hit.Normal.Dot(types.XYZ(0, 0, 1)) < 0.9999 {
		t.Fatalf("expected outward normal (0,0,1); got %v", hit.Normal)
	}
}

func TestNegativeRadiusFlipsNormal(t *testing.T) {
	sc := Scene{
		{Center: types.XYZ(0, 0, -2), Radius: -0.5, Material: MatGlass},
	}
	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}

	hit, ok := sc.Intersect(ray, 0.001, math.MaxFloat32)
	if !ok {
		t.Fatal("expected ray to hit shell")
	}
	// Same geometry as a positive radius, but the normal points at the
	// sphere center instead of away from it.
	if diff := absf(hit.T - 1.5); diff > 1e-5 {
		t.Fatalf("expected t=1.5; got %v", hit.T)
	}
	if hit.Normal.Dot(types.XYZ(0, 0, -1)) < 0.9999 {
		t.Fatalf("expected inward normal (0,0,-1); got %v", hit.Normal)
	}
}

func TestClosestHitWins(t *testing.T) {
	type spec struct {
		scene Scene
		expT  float32
		expM  Material
	}
	near := Sphere{Center: types.XYZ(0, 0, -2), Radius: 0.5, Material: MatDiffuse}
	far := Sphere{Center: types.XYZ(0, 0, -6), Radius: 0.5, Material: MatMetal}

	// Traversal order must not affect the winner.
	specs := []spec{
		{Scene{near, far}, 1.5, MatDiffuse},
		{Scene{far, near}, 1.5, MatDiffuse},
	}

	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}
	for index, s := range specs {
		hit, ok := s.scene.Intersect(ray, 0.001, math.MaxFloat32)
		if !ok {
			t.Fatalf("[spec %d] expected a hit", index)
		}
		if diff := absf(hit.T - s.expT); diff > 1e-5 {
			t.Fatalf("[spec %d] expected t=%v; got %v", index, s.expT, hit.T)
		}
		if hit.Material != s.expM {
			t.Fatalf("[spec %d] expected material %d; got %d", index, s.expM, hit.Material)
		}
	}
}

func TestFarRootSelectedFromInside(t *testing.T) {
	// A ray starting at the sphere center only sees the far root.
	sc := Scene{
		{Center: types.XYZ(0, 0, 0), Radius: 0.5, Material: MatGlass},
	}
	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}

	hit, ok := sc.Intersect(ray, 0.001, math.MaxFloat32)
	if !ok {
		t.Fatal("expected interior ray to hit shell")
	}
	if diff := absf(hit.T - 0.5); diff > 1e-5 {
		t.Fatalf("expected far root t=0.5; got %v", hit.T)
	}
}

func TestMissReturnsNoHit(t *testing.T) {
	sc := Scene{
		{Center: types.XYZ(0, 0, -2), Radius: 0.5, Material: MatDiffuse},
	}
	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, 1)}

	if _, ok := sc.Intersect(ray, 0.001, math.MaxFloat32); ok {
		t.Fatal("expected ray pointing away to miss")
	}
}

func TestDefaultSceneCenterRay(t *testing.T) {
	ray := Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}

	hit, ok := DefaultScene.Intersect(ray, 0.001, math.MaxFloat32)
	if !ok {
		t.Fatal("expected center ray to hit the scene")
	}
	if hit.Material != MatDiffuse {
		t.Fatalf("expected the matte sphere at z=-1; got material %d", hit.Material)
	}
	if diff := absf(hit.T - 0.5); diff > 1e-5 {
		t.Fatalf("expected t=0.5; got %v", hit.T)
	}
}
