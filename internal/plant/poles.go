package plant

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// StateSpace returns the (A, B, C, D) matrices of the template.
func (p Params) StateSpace() (a, b, c, d *mat.Dense) {
	a = mat.NewDense(2, 2, []float64{
		0, 1,
		-p.A0, -p.A1,
	})
	b = mat.NewDense(2, 1, []float64{0, 1})
	c = mat.NewDense(1, 2, []float64{p.B0, p.B1})
	d = mat.NewDense(1, 1, []float64{p.D})
	return a, b, c, d
}

// Poles returns the eigenvalues of A.
func (p Params) Poles() ([]complex128, error) {
	a, _, _, _ := p.StateSpace()
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, errors.New("plant: eigen decomposition failed")
	}
	return eig.Values(nil), nil
}

// DCGain is y/u at steady state, -C A^-1 B + D. It fails for plants with a
// pole at the origin.
func (p Params) DCGain() (float64, error) {
	a, b, c, d := p.StateSpace()
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return 0, err
	}
	var y mat.Dense
	y.Mul(c, &x)
	return d.At(0, 0) - y.At(0, 0), nil
}
