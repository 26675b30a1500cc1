package kernel

import (
	"github.com/lumen-render/lumen/types"
)

// Material identifies one of the closed set of surface types. Scatter
// behavior switches on the id; there is no dynamic dispatch.
type Material uint32

const (
	MatCheckerDiffuse Material = iota
	MatMetal
	MatDiffuse
	MatGlass
)

// Sphere is an analytic primitive. A negative radius flips the
// geometric normal inward, which is how the hollow glass shell is
// modeled (an outer positive-radius sphere enclosing an inner
// negative-radius one).
type Sphere struct {
	Center   types.Vec3
	Radius   float32
	Material Material
}

// Scene is an immutable primitive list traversed in order by the
// intersector. Small enough that no acceleration structure pays off.
type Scene []Sphere

// DefaultScene is the fixed five-primitive scene: checkered ground,
// hollow glass shell, mirror metal sphere and a matte red sphere.
var DefaultScene = Scene{
	{Center: types.XYZ(0, -100.5, -1), Radius: 100, Material: MatCheckerDiffuse},
	{Center: types.XYZ(-1, 0, -1), Radius: 0.5, Material: MatGlass},
	{Center: types.XYZ(-1, 0, -1), Radius: -0.45, Material: MatGlass},
	{Center: types.XYZ(1, 0, -1), Radius: 0.5, Material: MatMetal},
	{Center: types.XYZ(0, 0, -1), Radius: 0.5, Material: MatDiffuse},
}
