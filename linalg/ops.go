// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linalg

import (
	"context"

	"github.com/juju/errors"
)

func checkNotEmpty[T Float](name string, m *Matrix[T]) error {
	if m == nil {
		return errors.NotValidf("nil matrix for %s", name)
	}
	if m.Rows == 0 || m.Cols == 0 {
		return errors.NotValidf("empty matrix (%d, %d) for %s", m.Rows, m.Cols, name)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return errors.NotValidf("%d elements for shape (%d, %d)", len(m.Data), m.Rows, m.Cols)
	}
	return nil
}

func checkSquare[T Float](name string, m *Matrix[T]) error {
	if err := checkNotEmpty(name, m); err != nil {
		return err
	}
	if !m.IsSquare() {
		return errors.NotValidf("non-square matrix (%d, %d) for %s", m.Rows, m.Cols, name)
	}
	return nil
}

func checkSystem[T Float](name string, a, b *Matrix[T]) error {
	if err := checkNotEmpty(name, b); err != nil {
		return err
	}
	if a.Rows != b.Rows {
		return errors.NotValidf("right-hand side with %d rows for (%d, %d) matrix in %s", b.Rows, a.Rows, a.Cols, name)
	}
	if a.Device != b.Device {
		return errors.NotValidf("operands on %v and %v for %s", a.Device, b.Device, name)
	}
	return nil
}

func unsupportedDevice(d Device) error {
	return errors.NotSupportedf("device %v", d)
}

// factorize computes P A = L U with partial pivoting. A singular matrix still
// has a factorization, so a positive info is returned rather than an error.
func factorize[T Float](a *Matrix[T]) (*Matrix[T], []int32, int, error) {
	switch a.Device {
	case CPU:
		lu, ipiv, info := luCPU(a)
		if info < 0 {
			return nil, nil, 0, checkInfo("getrf", info)
		}
		return lu, ipiv, info, nil
	case CUDA:
		lu, ipiv, info, err := luCUDA(a)
		if err == nil && info < 0 {
			err = checkInfo("getrf", info)
		}
		return lu, ipiv, info, err
	default:
		return nil, nil, 0, unsupportedDevice(a.Device)
	}
}

// LU decomposes A = P L U, where P is a permutation matrix, L is unit lower
// triangular (m×k) and U is upper triangular (k×n) with k = min(m, n).
func LU[T Float](ctx context.Context, a *Matrix[T]) (p, l, u *Matrix[T], err error) {
	if err = checkNotEmpty("LU", a); err != nil {
		return
	}
	_, op := startOperation(ctx, "LU", a.Device, a)
	defer func() { op.end(err) }()
	lu, ipiv, _, err := factorize(a)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	m, n := a.Rows, a.Cols
	k := min(m, n)
	l = NewMatrix[T](m, k)
	u = NewMatrix[T](k, n)
	l.Device, u.Device = a.Device, a.Device
	for i := 0; i < m; i++ {
		for j := 0; j < min(i, k); j++ {
			l.Set(i, j, lu.At(i, j))
		}
		if i < k {
			l.Set(i, i, 1)
			copy(u.Row(i)[i:], lu.Row(i)[i:])
		}
	}
	// row i of L U is row perm[i] of A
	perm := make([]int, m)
	for i := range perm {
		perm[i] = i
	}
	for i, pivot := range ipiv {
		j := int(pivot) - 1
		perm[i], perm[j] = perm[j], perm[i]
	}
	p = NewMatrix[T](m, m)
	p.Device = a.Device
	for i, j := range perm {
		p.Set(j, i, 1)
	}
	return p, l, u, nil
}

// Det computes the determinant of a square matrix from its LU factorization.
func Det[T Float](ctx context.Context, a *Matrix[T]) (det T, err error) {
	if err = checkSquare("Det", a); err != nil {
		return
	}
	_, op := startOperation(ctx, "Det", a.Device, a)
	defer func() { op.end(err) }()
	lu, ipiv, info, err := factorize(a)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if info > 0 {
		return 0, nil
	}
	det = 1
	for i, pivot := range ipiv {
		det *= lu.At(i, i)
		if int(pivot) != i+1 {
			det = -det
		}
	}
	return det, nil
}

// Inverse computes the inverse of a square matrix. ErrSingular is returned if
// the matrix is exactly singular.
func Inverse[T Float](ctx context.Context, a *Matrix[T]) (inv *Matrix[T], err error) {
	if err = checkSquare("Inverse", a); err != nil {
		return
	}
	_, op := startOperation(ctx, "Inverse", a.Device, a)
	defer func() { op.end(err) }()
	switch a.Device {
	case CPU:
		inv, err = inverseCPU(a)
	case CUDA:
		inv, err = inverseCUDA(a)
	default:
		err = unsupportedDevice(a.Device)
	}
	return inv, errors.Trace(err)
}

// Solve solves A X = B for square A.
func Solve[T Float](ctx context.Context, a, b *Matrix[T]) (x *Matrix[T], err error) {
	if err = checkSquare("Solve", a); err != nil {
		return
	}
	if err = checkSystem("Solve", a, b); err != nil {
		return
	}
	_, op := startOperation(ctx, "Solve", a.Device, a, b)
	defer func() { op.end(err) }()
	switch a.Device {
	case CPU:
		x, err = solveCPU(a, b)
	case CUDA:
		x, err = solveCUDA(a, b)
	default:
		err = unsupportedDevice(a.Device)
	}
	return x, errors.Trace(err)
}

// SVD computes the thin singular value decomposition A = U diag(S) VT with
// singular values in descending order.
func SVD[T Float](ctx context.Context, a *Matrix[T]) (u *Matrix[T], s []T, vt *Matrix[T], err error) {
	if err = checkNotEmpty("SVD", a); err != nil {
		return
	}
	_, op := startOperation(ctx, "SVD", a.Device, a)
	defer func() { op.end(err) }()
	switch a.Device {
	case CPU:
		u, s, vt, err = svdCPU(a)
	case CUDA:
		u, s, vt, err = svdCUDA(a)
	default:
		err = unsupportedDevice(a.Device)
	}
	return u, s, vt, errors.Trace(err)
}

// LeastSquares solves min ||A X - B|| for an m×n matrix A of full column rank
// with m >= n.
func LeastSquares[T Float](ctx context.Context, a, b *Matrix[T]) (x *Matrix[T], err error) {
	if err = checkNotEmpty("LeastSquares", a); err != nil {
		return
	}
	if a.Rows < a.Cols {
		return nil, errors.NotValidf("underdetermined system (%d, %d) for LeastSquares", a.Rows, a.Cols)
	}
	if err = checkSystem("LeastSquares", a, b); err != nil {
		return
	}
	_, op := startOperation(ctx, "LeastSquares", a.Device, a, b)
	defer func() { op.end(err) }()
	switch a.Device {
	case CPU:
		x, err = leastSquaresCPU(a, b)
	case CUDA:
		x, err = leastSquaresCUDA(a, b)
	default:
		err = unsupportedDevice(a.Device)
	}
	return x, errors.Trace(err)
}

// QR computes the reduced decomposition A = Q R, where Q (m×k) has orthonormal
// columns and R (k×n) is upper triangular with k = min(m, n).
func QR[T Float](ctx context.Context, a *Matrix[T]) (q, r *Matrix[T], err error) {
	if err = checkNotEmpty("QR", a); err != nil {
		return
	}
	_, op := startOperation(ctx, "QR", a.Device, a)
	defer func() { op.end(err) }()
	switch a.Device {
	case CPU:
		q, r, err = qrCPU(a)
	case CUDA:
		q, r, err = qrCUDA(a)
	default:
		err = unsupportedDevice(a.Device)
	}
	return q, r, errors.Trace(err)
}
