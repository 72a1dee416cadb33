package mesh

import "gonum.org/v1/gonum/mat"

// ICPConfig controls the point-to-plane fine registration pass (C5).
type ICPConfig struct {
	MaxIterations     int
	ConvergenceThresh float64 // stop when the relative RMS error change drops below this
	MaxCorrespondDist float64 // reject correspondences farther than this
}

// DefaultICPConfig returns the ICP settings AlignICP uses: the given
// correspondence distance unchanged, at most 50 iterations, and a 1e-6
// relative RMS change as the convergence threshold.
func DefaultICPConfig(maxCorrespondDist float64) ICPConfig {
	return ICPConfig{
		MaxIterations:     50,
		ConvergenceThresh: 1e-6,
		MaxCorrespondDist: maxCorrespondDist,
	}
}

// ICPResult is the outcome of a point-to-plane ICP run.
type ICPResult struct {
	Transform  Matrix4
	RMSError   float64
	Iterations int
	Converged  bool
}

// RunICP refines an initial transform init aligning src onto tgt (with
// target normals tgtNormals) by point-to-plane ICP, minimizing
// sum(((T*s_i - t_i) . n_i)^2) over nearest-neighbor correspondences. Each
// iteration re-finds correspondences via tgtTree, rejects pairs farther than
// cfg.MaxCorrespondDist, solves the linearized 6-DoF twist update by
// Gauss-Newton (gonum mat Cholesky solve of the 6x6 normal equations, with a
// tiny diagonal damping term so that a twist direction the correspondences
// leave unconstrained gets essentially no update instead of stopping the
// solve), and composes it onto the running transform.
func RunICP(src []Vec3, tgt []Vec3, tgtNormals []Vec3, tgtTree *PointTree, init Matrix4, cfg ICPConfig) ICPResult {
	transform := init
	prevRMS := posInf
	var lastRMS float64
	iterations := 0
	converged := false

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		iterations = iter + 1
		transformed := TransformVerts(src, transform)

		type pair struct {
			s, t int
			n    Vec3
		}
		var pairs []pair
		var sqErr float64
		for i, p := range transformed {
			j, dist := tgtTree.Nearest(p)
			if j < 0 || dist > cfg.MaxCorrespondDist {
				continue
			}
			n := tgtNormals[j]
			residual := p.Sub(tgt[j]).Dot(n)
			sqErr += residual * residual
			pairs = append(pairs, pair{s: i, t: j, n: n})
		}
		if len(pairs) < 6 {
			break
		}
		rms := sqrtNonNeg(sqErr / float64(len(pairs)))
		lastRMS = rms

		jac := mat.NewDense(len(pairs), 6, nil)
		res := mat.NewVecDense(len(pairs), nil)
		for i, pr := range pairs {
			p := transformed[pr.s]
			n := pr.n
			cross := p.Cross(n)
			jac.SetRow(i, []float64{cross.X, cross.Y, cross.Z, n.X, n.Y, n.Z})
			res.SetVec(i, -(p.Sub(tgt[pr.t]).Dot(n)))
		}

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var jtr mat.Dense
		jtr.Mul(jac.T(), res)

		var trace float64
		for r := 0; r < 6; r++ {
			trace += jtj.At(r, r)
		}
		damping := 1e-9 * trace / 6

		var chol mat.Cholesky
		sym := mat.NewSymDense(6, nil)
		for r := 0; r < 6; r++ {
			for c := r; c < 6; c++ {
				v := jtj.At(r, c)
				if r == c {
					v += damping
				}
				sym.SetSym(r, c, v)
			}
		}
		if !chol.Factorize(sym) {
			break
		}
		var x mat.VecDense
		if err := chol.SolveVecTo(&x, jtr.ColView(0)); err != nil {
			break
		}

		delta := twistToMatrix4(x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3), x.AtVec(4), x.AtVec(5))
		transform = delta.Mul(transform)

		if prevRMS != posInf && prevRMS > 0 {
			relChange := (prevRMS - rms) / prevRMS
			if relChange < cfg.ConvergenceThresh && relChange > -cfg.ConvergenceThresh {
				converged = true
				prevRMS = rms
				break
			}
		}
		prevRMS = rms
	}

	return ICPResult{Transform: transform, RMSError: lastRMS, Iterations: iterations, Converged: converged}
}

// twistToMatrix4 builds the small-angle rigid transform for twist
// (wx,wy,wz,tx,ty,tz): a first-order (small-rotation) approximation to
// exp([w]x) applied as R = I + [w]x, standard for a single Gauss-Newton
// ICP step.
func twistToMatrix4(wx, wy, wz, tx, ty, tz float64) Matrix4 {
	m := Identity4()
	m.M[0][1] = -wz
	m.M[0][2] = wy
	m.M[1][0] = wz
	m.M[1][2] = -wx
	m.M[2][0] = -wy
	m.M[2][1] = wx
	m.M[0][3] = tx
	m.M[1][3] = ty
	m.M[2][3] = tz
	return orthonormalize(m)
}

// orthonormalize re-orthonormalizes the rotation block of m via Gram-Schmidt,
// correcting the drift introduced by the small-angle linear approximation.
func orthonormalize(m Matrix4) Matrix4 {
	x := Vec3{m.M[0][0], m.M[1][0], m.M[2][0]}.Unit()
	y := Vec3{m.M[0][1], m.M[1][1], m.M[2][1]}
	y = y.Sub(x.Scale(x.Dot(y))).Unit()
	z := x.Cross(y)
	out := m
	out.M[0][0], out.M[1][0], out.M[2][0] = x.X, x.Y, x.Z
	out.M[0][1], out.M[1][1], out.M[2][1] = y.X, y.Y, y.Z
	out.M[0][2], out.M[1][2], out.M[2][2] = z.X, z.Y, z.Z
	return out
}
