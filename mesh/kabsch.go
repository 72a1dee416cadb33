package mesh

import "gonum.org/v1/gonum/mat"

// EstimateRigidTransform computes the least-squares rigid transform
// (rotation + translation, no scaling) that best maps src onto dst, using
// the Kabsch algorithm: center both point sets, form the cross-covariance
// matrix, take its SVD, and correct for reflection so the result is a
// proper rotation. This generalizes the teacher's 2D closed-form Procrustes
// solver (cross-covariance + atan2) to 3D via SVD, per the registration
// components' stated "least-squares SVD, no scaling" requirement.
//
// src and dst must have equal, non-zero length and be in 1:1 correspondence.
func EstimateRigidTransform(src, dst []Vec3) (Matrix4, error) {
	if len(src) != len(dst) {
		return Matrix4{}, errInvalid("dst", len(dst), "must have the same length as src")
	}
	if len(src) == 0 {
		return Matrix4{}, errInvalid("src", 0, "must be non-empty")
	}

	srcCentroid := Centroid(src)
	dstCentroid := Centroid(dst)

	h := mat.NewDense(3, 3, nil)
	for i := range src {
		a := src[i].Sub(srcCentroid)
		b := dst[i].Sub(dstCentroid)
		outer := [3][3]float64{
			{a.X * b.X, a.X * b.Y, a.X * b.Z},
			{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
			{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
		}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+outer[r][c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return Matrix4{}, errInvalid("src", len(src), "SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	d := mat.Det(&u) * mat.Det(&v)
	if d < 0 {
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
	}

	var r mat.Dense
	r.Mul(&v, u.T())

	m := Identity4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.M[i][j] = r.At(i, j)
		}
	}
	rotatedSrcCentroid := m.ApplyVector(srcCentroid)
	t := dstCentroid.Sub(rotatedSrcCentroid)
	m.M[0][3] = t.X
	m.M[1][3] = t.Y
	m.M[2][3] = t.Z
	return m, nil
}

// EstimateWeightedRigidTransform is EstimateRigidTransform with a per-pair
// weight; a zero weight removes a pair from the fit. Nothing else in this
// package calls it: RunICP (C5) uses its own point-to-plane step.
func EstimateWeightedRigidTransform(src, dst []Vec3, weights []float64) (Matrix4, error) {
	if len(src) != len(dst) || len(src) != len(weights) {
		return Matrix4{}, errInvalid("weights", len(weights), "must match src/dst length")
	}
	var totalW float64
	var srcCentroid, dstCentroid Vec3
	for i, w := range weights {
		srcCentroid = srcCentroid.Add(src[i].Scale(w))
		dstCentroid = dstCentroid.Add(dst[i].Scale(w))
		totalW += w
	}
	if totalW == 0 {
		return Matrix4{}, errInvalid("weights", totalW, "sum of weights must be positive")
	}
	srcCentroid = srcCentroid.Scale(1 / totalW)
	dstCentroid = dstCentroid.Scale(1 / totalW)

	h := mat.NewDense(3, 3, nil)
	for i := range src {
		a := src[i].Sub(srcCentroid)
		b := dst[i].Sub(dstCentroid)
		w := weights[i]
		outer := [3][3]float64{
			{a.X * b.X, a.X * b.Y, a.X * b.Z},
			{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
			{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
		}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+w*outer[r][c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return Matrix4{}, errInvalid("src", len(src), "SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	d := mat.Det(&u) * mat.Det(&v)
	if d < 0 {
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
	}

	var r mat.Dense
	r.Mul(&v, u.T())

	m := Identity4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.M[i][j] = r.At(i, j)
		}
	}
	rotatedSrcCentroid := m.ApplyVector(srcCentroid)
	t := dstCentroid.Sub(rotatedSrcCentroid)
	m.M[0][3] = t.X
	m.M[1][3] = t.Y
	m.M[2][3] = t.Z
	return m, nil
}
