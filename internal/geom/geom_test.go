package geom

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWalkComposesTransforms(t *testing.T) {
	root := NewNode("root")
	root.Position = Vec3{1, 0, 0}
	child := NewNode("child")
	child.Position = Vec3{0, 2, 0}
	child.Add(Box("b", Vec3{0, 0, 3}, Vec3{1, 1, 1}, Solid(color.RGBA{A: 255}, 1)))
	root.AddChild(child, nil)

	var got mgl32.Vec3
	root.Walk(mgl32.Ident4(), func(p Primitive, world mgl32.Mat4) {
		got = world.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	})
	assert.InDelta(t, 1, got[0], 1e-6)
	assert.InDelta(t, 2, got[1], 1e-6)
	assert.InDelta(t, 3, got[2], 1e-6)
	assert.Equal(t, 1, root.Count())
	assert.Len(t, root.Children, 1)
}

func TestRotationIsXYZOrder(t *testing.T) {
	m := Rotation(Vec3{0, math.Pi / 2, 0})
	v := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, v[0], 1e-6)
	assert.InDelta(t, -1, v[2], 1e-6)
}

func TestZeroScaleCountsAsOne(t *testing.T) {
	m := Transform(Vec3{}, Vec3{}, Vec3{})
	assert.Equal(t, mgl32.Ident4(), m)
}

func TestFindAndAll(t *testing.T) {
	n := NewNode("n").Add(Ball("a", Vec3{}, 1, Material{}))
	n.AddChild(NewNode("c").Add(Ball("b-1", Vec3{}, 1, Material{}), Ball("b-2", Vec3{}, 1, Material{})))

	p, ok := n.Find("b-2")
	assert.True(t, ok)
	assert.Equal(t, Sphere, p.Kind)
	assert.Equal(t, Vec3{2, 2, 2}, p.Scale)
	_, ok = n.Find("zzz")
	assert.False(t, ok)
	assert.Len(t, n.All(func(s string) bool { return s != "a" }), 2)
	assert.NotNil(t, n.Child("c"))
	assert.Nil(t, n.Child("x"))
}

func TestMaterialAlpha(t *testing.T) {
	assert.Equal(t, float32(1), Material{}.Alpha())
	assert.Equal(t, float32(0.4), Material{Opacity: 0.4}.Alpha())
}
