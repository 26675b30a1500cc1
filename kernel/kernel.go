// Package kernel implements the per-pixel path tracing kernel: random
// number generation, ray-scene intersection, material scattering, the
// bounded path integration loop and the accumulate/tone-map display
// pipeline. Every function is pure compute; one TracePixel call is one
// independent invocation and may run concurrently with any other
// pixel's invocation as long as no two share an accumulation cell.
package kernel

import (
	"github.com/lumen-render/lumen/types"
)

// Basis is the camera frame consumed by ray generation: the eye origin
// plus the u,v,w view-frustum basis vectors. U and V arrive pre-scaled
// by tan(vfov/2); W is the unit forward direction.
type Basis struct {
	Origin types.Vec3
	U      types.Vec3
	V      types.Vec3
	W      types.Vec3
}

// Uniforms is the read-only per-frame state shared by all invocations.
// FrameCount starts at 1 and increases monotonically while the camera
// holds still; the host resets it when the view changes.
type Uniforms struct {
	Width      uint32
	Height     uint32
	FrameCount uint32
	Camera     Basis
}

// PrimaryRay builds the camera ray for a pixel, jittered inside the
// pixel footprint so successive frames anti-alias as they accumulate.
// Consumes exactly two values from the pixel's random stream.
func PrimaryRay(u *Uniforms, x, y uint32, rng *Rng) Ray {
	jx := rng.Float()
	jy := rng.Float()

	aspect := float32(u.Width) / float32(u.Height)
	sx := (2*(float32(x)+jx)/float32(u.Width) - 1) * aspect
	sy := 1 - 2*(float32(y)+jy)/float32(u.Height)

	dir := u.Camera.U.Mul(sx).Add(u.Camera.V.Mul(sy)).Add(u.Camera.W)
	return Ray{Origin: u.Camera.Origin, Dir: dir}
}

// TracePixel runs the full per-invocation pipeline for one pixel of
// one frame: seed the stream, generate the primary ray, integrate one
// radiance sample, fold it into the pixel's accumulation cell and
// return the displayable color. accum is the width*height*4 float32
// cell buffer; the pixel's cell is exclusively owned by this call for
// the duration of the frame.
func TracePixel(u *Uniforms, sc Scene, accum []float32, x, y uint32) types.Vec4 {
	rng := SeedRng(x, y, u.Width, u.FrameCount)
	ray := PrimaryRay(u, x, y, &rng)
	sample := TracePath(sc, ray, &rng)

	cell := accum[(y*u.Width+x)*4 : (y*u.Width+x)*4+4]
	sum := Accumulate(cell, sample, u.FrameCount)
	return DisplayColor(sum, u.FrameCount)
}
