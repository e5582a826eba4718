package scene

import (
	"vehicle-configurator/internal/geom"

	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
)

const (
	// DefaultFovY is the fixed vertical field of view in degrees.
	DefaultFovY = 45
	// dragSpeed converts pixels of mouse drag to radians.
	dragSpeed = 0.008
)

// Orbit positions the camera on a sphere around Target. Polar angle and distance are
// clamped to bounds so the camera never goes under the floor or inside the car.
// After a drag is released the last drag velocity decays through a critically damped
// spring; zoom eases toward its target the same way.
type Orbit struct {
	Azimuth     float32
	Polar       float32
	Distance    float32
	Target      geom.Vec3
	MinPolar    float32
	MaxPolar    float32
	MinDistance float32
	MaxDistance float32

	dragging bool
	velAz    float64
	velPol   float64
	accAz    float64
	accPol   float64
	decay    harmonica.Spring

	zoomTarget float64
	zoomVel    float64
	zoom       harmonica.Spring
}

// DefaultOrbit frames the whole vehicle from front-left, slightly above.
func DefaultOrbit(fps int) Orbit {
	if fps <= 0 {
		fps = 60
	}
	o := Orbit{
		Azimuth:     math32.Pi / 4,
		Polar:       1.15,
		Distance:    7,
		Target:      geom.Vec3{0, 0.7, 0},
		MinPolar:    0.35,
		MaxPolar:    math32.Pi/2 - 0.05,
		MinDistance: 4,
		MaxDistance: 12,
		decay:       harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		zoom:        harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
	o.zoomTarget = float64(o.Distance)
	return o
}

// Position is the camera position for the current angles.
func (o Orbit) Position() geom.Vec3 {
	sp, cp := math32.Sincos(o.Polar)
	sa, ca := math32.Sincos(o.Azimuth)
	return geom.Vec3{
		o.Target[0] + o.Distance*sp*ca,
		o.Target[1] + o.Distance*cp,
		o.Target[2] + o.Distance*sp*sa,
	}
}

// Camera returns the camera for the current orbit.
func (o Orbit) Camera() Camera {
	return Camera{Position: o.Position(), Target: o.Target, FovY: DefaultFovY}
}

// Dragging reports whether a drag is in progress.
func (o *Orbit) Dragging() bool { return o.dragging }

// BeginDrag starts user control; any leftover inertia stops.
func (o *Orbit) BeginDrag() {
	o.dragging = true
	o.velAz, o.velPol, o.accAz, o.accPol = 0, 0, 0, 0
}

// Drag moves the camera by a mouse delta in pixels.
func (o *Orbit) Drag(dx, dy float32) {
	if !o.dragging {
		return
	}
	da, dp := dx*dragSpeed, -dy*dragSpeed
	o.Azimuth += da
	o.Polar = clamp(o.Polar+dp, o.MinPolar, o.MaxPolar)
	o.velAz, o.velPol = float64(da), float64(dp)
}

// EndDrag releases the camera where it is; the last velocity then decays.
func (o *Orbit) EndDrag() {
	o.dragging = false
}

// Zoom moves the zoom target by delta world units, within the distance bounds.
func (o *Orbit) Zoom(delta float32) {
	o.zoomTarget = float64(clamp(float32(o.zoomTarget)+delta, o.MinDistance, o.MaxDistance))
}

// Update advances inertia and zoom easing by one frame.
func (o *Orbit) Update() {
	if !o.dragging {
		o.Azimuth += float32(o.velAz)
		o.Polar = clamp(o.Polar+float32(o.velPol), o.MinPolar, o.MaxPolar)
		o.velAz, o.accAz = o.decay.Update(o.velAz, o.accAz, 0)
		o.velPol, o.accPol = o.decay.Update(o.velPol, o.accPol, 0)
	}
	d, v := o.zoom.Update(float64(o.Distance), o.zoomVel, o.zoomTarget)
	o.Distance, o.zoomVel = clamp(float32(d), o.MinDistance, o.MaxDistance), v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
