// Package mesh implements rigid mesh registration and clearance analysis
// for matching shoe-last blanks against a finished target surface.
package mesh

import "math"

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v normalized to unit length, or the zero vector if v is zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Tri is a triangle referencing three vertex indices into a Mesh's Verts slice.
type Tri struct {
	A, B, C int
}

// Mesh is a triangle mesh: vertex positions plus triangle index triples.
// A Mesh with no triangles is treated as a bare point cloud by operations
// that accept one, matching the convention of the reference geometry core.
type Mesh struct {
	Verts []Vec3
	Tris  []Tri
}

// Matrix4 is a row-major 4x4 rigid (or affine) transform.
type Matrix4 struct {
	M [4][4]float64
}

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

// Apply transforms a point by the homogeneous 4x4 matrix.
func (m Matrix4) Apply(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z + m.M[0][3],
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z + m.M[1][3],
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z + m.M[2][3],
	}
}

// ApplyVector transforms a direction, ignoring translation.
func (m Matrix4) ApplyVector(v Vec3) Vec3 {
	return Vec3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Mul returns m*n (n is applied first, then m).
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.M[i][k] * n.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// YZMirror returns the transform that negates X, mirroring about the YZ
// plane. Used to test left/right symmetric candidate variants.
func YZMirror() Matrix4 {
	m := Identity4()
	m.M[0][0] = -1
	return m
}

// TransformVerts applies m to every vertex of verts, returning a new slice.
func TransformVerts(verts []Vec3, m Matrix4) []Vec3 {
	out := make([]Vec3, len(verts))
	for i, v := range verts {
		out[i] = m.Apply(v)
	}
	return out
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Extent returns Max-Min componentwise.
func (b AABB) Extent() Vec3 { return b.Max.Sub(b.Min) }

// ComputeAABB returns the axis-aligned bounding box of verts, or the zero
// AABB if verts is empty.
func ComputeAABB(verts []Vec3) AABB {
	if len(verts) == 0 {
		return AABB{}
	}
	min, max := verts[0], verts[0]
	for _, v := range verts[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return AABB{Min: min, Max: max}
}
