// Package scene hosts the camera state that drives kernel ray
// generation. The primitives themselves are compiled into the kernel;
// the camera is the only mutable piece of scene state.
package scene

import (
	"math"

	"github.com/lumen-render/lumen/kernel"
	"github.com/lumen-render/lumen/types"
)

// Camera movement directions understood by Move.
type Direction uint8

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

const (
	minFOV float32 = 1
	maxFOV float32 = 179

	// Scaling applied to zoom and move deltas so raw input deltas
	// produce comfortable camera motion.
	zoomScale float32 = 10
	moveScale float32 = 5
)

// The camera type controls the scene viewpoint. Any mutation
// invalidates previously accumulated samples; callers must reset the
// renderer's accumulation after moving it.
type Camera struct {
	LookFrom types.Vec3
	LookAt   types.Vec3
	VUp      types.Vec3

	// Vertical field of view in degrees.
	FOV float32
}

// New creates a camera at lookFrom aimed at lookAt.
func New(lookFrom, lookAt, vup types.Vec3, fov float32) *Camera {
	return &Camera{
		LookFrom: lookFrom,
		LookAt:   lookAt,
		VUp:      vup,
		FOV:      fov,
	}
}

// Default returns the stock viewpoint for the built-in scene.
func Default() *Camera {
	return New(types.XYZ(-2, 2, 1), types.XYZ(0, 0, -1), types.XYZ(0, 1, 0), 20)
}

// Basis derives the eye origin and view-frustum basis consumed by the
// kernel. U and V span half the frustum scaled by tan(fov/2); W is the
// unit direction into the scene.
func (c *Camera) Basis() kernel.Basis {
	theta := c.FOV * math.Pi / 180
	h := float32(math.Tan(float64(theta / 2)))

	w := c.LookFrom.Sub(c.LookAt).Normalize()
	u := c.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	return kernel.Basis{
		Origin: c.LookFrom,
		U:      u.Mul(h),
		V:      v.Mul(h),
		W:      w.Neg(),
	}
}

// Zoom narrows or widens the field of view, clamped to sane bounds.
func (c *Camera) Zoom(delta float32) {
	c.FOV -= delta * zoomScale
	if c.FOV < minFOV {
		c.FOV = minFOV
	}
	if c.FOV > maxFOV {
		c.FOV = maxFOV
	}
}

// Move translates eye and target together along the view or strafe
// axis, preserving the view direction.
func (c *Camera) Move(dir Direction, amount float32) {
	forward := c.LookAt.Sub(c.LookFrom).Normalize()
	right := c.VUp.Cross(forward.Neg()).Normalize()

	var delta types.Vec3
	switch dir {
	case Forward:
		delta = forward.Mul(amount * moveScale)
	case Backward:
		delta = forward.Mul(-amount * moveScale)
	case Left:
		delta = right.Mul(-amount * moveScale)
	case Right:
		delta = right.Mul(amount * moveScale)
	}

	c.LookFrom = c.LookFrom.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
}

// Rotate yaws the view direction about the vertical axis by dx radians
// and tilts it by adding dy to the forward vector's vertical component.
func (c *Camera) Rotate(dx, dy float32) {
	forward := c.LookAt.Sub(c.LookFrom)

	cosYaw := float32(math.Cos(float64(dx)))
	sinYaw := float32(math.Sin(float64(dx)))
	newX := forward[0]*cosYaw - forward[2]*sinYaw
	newZ := forward[0]*sinYaw + forward[2]*cosYaw

	forward = types.XYZ(newX, forward[1]+dy, newZ)
	c.LookAt = c.LookFrom.Add(forward)
}
