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

import "github.com/gorse-io/linalg/common/lapack"

func luCPU[T Float](a *Matrix[T]) (*Matrix[T], []int32, int) {
	lu := a.Clone()
	ipiv := make([]int32, min(a.Rows, a.Cols))
	info := lapack.Getrf(lapack.RowMajor, a.Rows, a.Cols, lu.Data, a.Cols, ipiv)
	return lu, ipiv, info
}

func inverseCPU[T Float](a *Matrix[T]) (*Matrix[T], error) {
	n := a.Rows
	lu, ipiv, info := luCPU(a)
	if err := checkInfo("getrf", info); err != nil {
		return nil, err
	}
	if err := checkInfo("getri", lapack.Getri(lapack.RowMajor, n, lu.Data, n, ipiv)); err != nil {
		return nil, err
	}
	return lu, nil
}

func solveCPU[T Float](a, b *Matrix[T]) (*Matrix[T], error) {
	lu, ipiv, info := luCPU(a)
	if err := checkInfo("getrf", info); err != nil {
		return nil, err
	}
	x := b.Clone()
	info = lapack.Getrs(lapack.RowMajor, lapack.NoTrans, a.Rows, b.Cols, lu.Data, a.Cols, ipiv, x.Data, x.Cols)
	if err := checkInfo("getrs", info); err != nil {
		return nil, err
	}
	return x, nil
}

func svdCPU[T Float](a *Matrix[T]) (*Matrix[T], []T, *Matrix[T], error) {
	m, n := a.Rows, a.Cols
	k := min(m, n)
	work := a.Clone()
	u := NewMatrix[T](m, k)
	vt := NewMatrix[T](k, n)
	s := make([]T, k)
	superb := make([]T, max(0, k-1))
	info := lapack.Gesvd(lapack.RowMajor, lapack.JobSome, lapack.JobSome, m, n, work.Data, n, s, u.Data, k, vt.Data, n, superb)
	if err := checkInfo("gesvd", info); err != nil {
		return nil, nil, nil, err
	}
	return u, s, vt, nil
}

func leastSquaresCPU[T Float](a, b *Matrix[T]) (*Matrix[T], error) {
	m, n, nrhs := a.Rows, a.Cols, b.Cols
	work := a.Clone()
	x := b.Clone()
	info := lapack.Gels(lapack.RowMajor, lapack.NoTrans, m, n, nrhs, work.Data, n, x.Data, nrhs)
	if err := checkInfo("gels", info); err != nil {
		return nil, err
	}
	x.Rows = n
	x.Data = x.Data[:n*nrhs]
	return x, nil
}

func qrCPU[T Float](a *Matrix[T]) (*Matrix[T], *Matrix[T], error) {
	m, n := a.Rows, a.Cols
	k := min(m, n)
	work := a.Clone()
	tau := make([]T, k)
	if err := checkInfo("geqrf", lapack.Geqrf(lapack.RowMajor, m, n, work.Data, n, tau)); err != nil {
		return nil, nil, err
	}
	r := NewMatrix[T](k, n)
	for i := 0; i < k; i++ {
		copy(r.Row(i)[i:], work.Row(i)[i:])
	}
	// Q is the product of the reflectors applied to the first k columns of I.
	q := NewMatrix[T](m, k)
	for i := 0; i < k; i++ {
		q.Set(i, i, 1)
	}
	info := lapack.Ormqr(lapack.RowMajor, lapack.Left, lapack.NoTrans, m, k, k, work.Data, n, tau, q.Data, k)
	if err := checkInfo("ormqr", info); err != nil {
		return nil, nil, err
	}
	return q, r, nil
}
