//go:build !cgo || (!lapacke && !mkl)

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

package lapack

import (
	"gonum.org/v1/gonum/blas"
	gonumlapack "gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/gonum"
)

const backend = "gonum"

var impl gonum.Implementation

func sgetrf(layout Layout, m, n int, a []float32, lda int, ipiv []int32) int {
	return getrf(layout, m, n, a, lda, ipiv)
}

func dgetrf(layout Layout, m, n int, a []float64, lda int, ipiv []int32) int {
	return getrf(layout, m, n, a, lda, ipiv)
}

func sgetri(layout Layout, n int, a []float32, lda int, ipiv []int32) int {
	return getri(layout, n, a, lda, ipiv)
}

func dgetri(layout Layout, n int, a []float64, lda int, ipiv []int32) int {
	return getri(layout, n, a, lda, ipiv)
}

func sgetrs(layout Layout, trans Transpose, n, nrhs int, a []float32, lda int, ipiv []int32, b []float32, ldb int) int {
	return getrs(layout, trans, n, nrhs, a, lda, ipiv, b, ldb)
}

func dgetrs(layout Layout, trans Transpose, n, nrhs int, a []float64, lda int, ipiv []int32, b []float64, ldb int) int {
	return getrs(layout, trans, n, nrhs, a, lda, ipiv, b, ldb)
}

func sgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float32, lda int, s, u []float32, ldu int, vt []float32, ldvt int, superb []float32) int {
	return gesvd(layout, jobu, jobvt, m, n, a, lda, s, u, ldu, vt, ldvt, superb)
}

func dgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float64, lda int, s, u []float64, ldu int, vt []float64, ldvt int, superb []float64) int {
	return gesvd(layout, jobu, jobvt, m, n, a, lda, s, u, ldu, vt, ldvt, superb)
}

func sgels(layout Layout, trans Transpose, m, n, nrhs int, a []float32, lda int, b []float32, ldb int) int {
	return gels(layout, trans, m, n, nrhs, a, lda, b, ldb)
}

func dgels(layout Layout, trans Transpose, m, n, nrhs int, a []float64, lda int, b []float64, ldb int) int {
	return gels(layout, trans, m, n, nrhs, a, lda, b, ldb)
}

func sgeqrf(layout Layout, m, n int, a []float32, lda int, tau []float32) int {
	return geqrf(layout, m, n, a, lda, tau)
}

func dgeqrf(layout Layout, m, n int, a []float64, lda int, tau []float64) int {
	return geqrf(layout, m, n, a, lda, tau)
}

func sormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float32, lda int, tau, c []float32, ldc int) int {
	return ormqr(layout, side, trans, m, n, k, a, lda, tau, c, ldc)
}

func dormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float64, lda int, tau, c []float64, ldc int) int {
	return ormqr(layout, side, trans, m, n, k, a, lda, tau, c, ldc)
}

// The generic implementations below check arguments in the order LAPACKE
// does and report the position of the offending argument in the LAPACKE
// call, counting the layout as argument 1.

func getrf[T Float](layout Layout, m, n int, a []T, lda int, ipiv []int32) int {
	switch {
	case !validLayout(layout):
		return -1
	case m < 0:
		return -2
	case n < 0:
		return -3
	case lda < minLd(layout, m, n):
		return -5
	case !fits(layout, m, n, a, lda):
		return -4
	case len(ipiv) < min(m, n):
		return -6
	}
	if m == 0 || n == 0 {
		return 0
	}
	v := newView(layout, m, n, a, lda, true)
	piv := make([]int, min(m, n))
	impl.Dgetrf(m, n, v.data, v.stride, piv)
	v.flush()
	for i, p := range piv {
		ipiv[i] = int32(p + 1)
	}
	return firstZeroDiag(v, min(m, n))
}

func getri[T Float](layout Layout, n int, a []T, lda int, ipiv []int32) int {
	switch {
	case !validLayout(layout):
		return -1
	case n < 0:
		return -2
	case lda < max(1, n):
		return -4
	case !fits(layout, n, n, a, lda):
		return -3
	case len(ipiv) < n:
		return -5
	}
	if n == 0 {
		return 0
	}
	piv, ok := zeroBasedPivots(ipiv, n)
	if !ok {
		return -5
	}
	v := newView(layout, n, n, a, lda, true)
	// A is left untouched when U is singular.
	if info := firstZeroDiag(v, n); info > 0 {
		return info
	}
	work := make([]float64, 1)
	impl.Dgetri(n, v.data, v.stride, piv, work, -1)
	work = make([]float64, max(n, int(work[0])))
	impl.Dgetri(n, v.data, v.stride, piv, work, len(work))
	v.flush()
	return 0
}

func getrs[T Float](layout Layout, trans Transpose, n, nrhs int, a []T, lda int, ipiv []int32, b []T, ldb int) int {
	tA, validTrans := trans.blas()
	switch {
	case !validLayout(layout):
		return -1
	case !validTrans:
		return -2
	case n < 0:
		return -3
	case nrhs < 0:
		return -4
	case lda < max(1, n):
		return -6
	case ldb < minLd(layout, n, nrhs):
		return -9
	case !fits(layout, n, n, a, lda):
		return -5
	case len(ipiv) < n:
		return -7
	case !fits(layout, n, nrhs, b, ldb):
		return -8
	}
	if n == 0 || nrhs == 0 {
		return 0
	}
	piv, ok := zeroBasedPivots(ipiv, n)
	if !ok {
		return -7
	}
	va := newView(layout, n, n, a, lda, true)
	vb := newView(layout, n, nrhs, b, ldb, true)
	impl.Dgetrs(tA, n, nrhs, va.data, va.stride, piv, vb.data, vb.stride)
	vb.flush()
	return 0
}

func gesvd[T Float](layout Layout, jobu, jobvt Job, m, n int, a []T, lda int, s, u []T, ldu int, vt []T, ldvt int, superb []T) int {
	minMN := min(m, n)
	wantU := jobu == JobAll || jobu == JobSome
	wantVT := jobvt == JobAll || jobvt == JobSome
	uCols := minMN
	if jobu == JobAll {
		uCols = m
	}
	vtRows := minMN
	if jobvt == JobAll {
		vtRows = n
	}
	switch {
	case !validLayout(layout):
		return -1
	case !jobu.valid():
		return -2
	case !jobvt.valid() || (jobu == JobOverwrite && jobvt == JobOverwrite):
		return -3
	case m < 0:
		return -4
	case n < 0:
		return -5
	case lda < minLd(layout, m, n):
		return -7
	case ldu < 1 || (wantU && ldu < minLd(layout, m, uCols)):
		return -10
	case ldvt < 1 || (wantVT && ldvt < minLd(layout, vtRows, n)):
		return -12
	case !fits(layout, m, n, a, lda):
		return -6
	case len(s) < minMN:
		return -8
	case wantU && !fits(layout, m, uCols, u, ldu):
		return -9
	case wantVT && !fits(layout, vtRows, n, vt, ldvt):
		return -11
	case len(superb) < minMN-1:
		return -13
	}
	if minMN == 0 {
		return 0
	}
	va := newView(layout, m, n, a, lda, true)
	var (
		vu, vvt           *view[T]
		uData, vtData     []float64
		uStride, vtStride = 1, 1
	)
	if wantU {
		vu = newView(layout, m, uCols, u, ldu, false)
		uData, uStride = vu.data, vu.stride
	}
	if wantVT {
		vvt = newView(layout, vtRows, n, vt, ldvt, false)
		vtData, vtStride = vvt.data, vvt.stride
	}
	sv := make([]float64, minMN)
	jobU, jobVT := gonumlapack.SVDJob(jobu), gonumlapack.SVDJob(jobvt)
	work := make([]float64, 1)
	impl.Dgesvd(jobU, jobVT, m, n, va.data, va.stride, sv, uData, uStride, vtData, vtStride, work, -1)
	work = make([]float64, max(1, int(work[0])))
	ok := impl.Dgesvd(jobU, jobVT, m, n, va.data, va.stride, sv, uData, uStride, vtData, vtStride, work, len(work))
	va.flush()
	if vu != nil {
		vu.flush()
	}
	if vvt != nil {
		vvt.flush()
	}
	for i, x := range sv {
		s[i] = T(x)
	}
	unconverged := 0
	for i := 0; i < minMN-1; i++ {
		superb[i] = T(work[i+1])
		if superb[i] != 0 {
			unconverged++
		}
	}
	if ok {
		return 0
	}
	return max(1, unconverged)
}

func gels[T Float](layout Layout, trans Transpose, m, n, nrhs int, a []T, lda int, b []T, ldb int) int {
	tA, validTrans := trans.blas()
	maxMN := max(m, n)
	switch {
	case !validLayout(layout):
		return -1
	case !validTrans:
		return -2
	case m < 0:
		return -3
	case n < 0:
		return -4
	case nrhs < 0:
		return -5
	case lda < minLd(layout, m, n):
		return -7
	case ldb < minLd(layout, maxMN, nrhs):
		return -9
	case !fits(layout, m, n, a, lda):
		return -6
	case !fits(layout, maxMN, nrhs, b, ldb):
		return -8
	}
	if min(m, n, nrhs) == 0 {
		vb := newView(layout, maxMN, nrhs, b, ldb, false)
		clear(vb.data)
		vb.flush()
		return 0
	}
	va := newView(layout, m, n, a, lda, true)
	vb := newView(layout, maxMN, nrhs, b, ldb, true)
	work := make([]float64, 1)
	impl.Dgels(tA, m, n, nrhs, va.data, va.stride, vb.data, vb.stride, work, -1)
	work = make([]float64, max(1, int(work[0])))
	ok := impl.Dgels(tA, m, n, nrhs, va.data, va.stride, vb.data, vb.stride, work, len(work))
	va.flush()
	vb.flush()
	if ok {
		return 0
	}
	return max(1, firstZeroDiag(va, min(m, n)))
}

func geqrf[T Float](layout Layout, m, n int, a []T, lda int, tau []T) int {
	switch {
	case !validLayout(layout):
		return -1
	case m < 0:
		return -2
	case n < 0:
		return -3
	case lda < minLd(layout, m, n):
		return -5
	case !fits(layout, m, n, a, lda):
		return -4
	case len(tau) < min(m, n):
		return -6
	}
	k := min(m, n)
	if k == 0 {
		return 0
	}
	va := newView(layout, m, n, a, lda, true)
	t := make([]float64, k)
	work := make([]float64, 1)
	impl.Dgeqrf(m, n, va.data, va.stride, t, work, -1)
	work = make([]float64, max(n, int(work[0])))
	impl.Dgeqrf(m, n, va.data, va.stride, t, work, len(work))
	va.flush()
	for i, x := range t {
		tau[i] = T(x)
	}
	return 0
}

func ormqr[T Float](layout Layout, side Side, trans Transpose, m, n, k int, a []T, lda int, tau, c []T, ldc int) int {
	tA, validTrans := trans.blas()
	nq := n
	if side == Left {
		nq = m
	}
	switch {
	case !validLayout(layout):
		return -1
	case side != Left && side != Right:
		return -2
	case !validTrans:
		return -3
	case m < 0:
		return -4
	case n < 0:
		return -5
	case k < 0 || k > nq:
		return -6
	case lda < minLd(layout, nq, k):
		return -8
	case ldc < minLd(layout, m, n):
		return -11
	case !fits(layout, nq, k, a, lda):
		return -7
	case len(tau) < k:
		return -9
	case !fits(layout, m, n, c, ldc):
		return -10
	}
	if m == 0 || n == 0 || k == 0 {
		return 0
	}
	va := newView(layout, nq, k, a, lda, true)
	vc := newView(layout, m, n, c, ldc, true)
	t := make([]float64, k)
	for i := range t {
		t[i] = float64(tau[i])
	}
	work := make([]float64, 1)
	impl.Dormqr(blas.Side(side), tA, m, n, k, va.data, va.stride, t, vc.data, vc.stride, work, -1)
	work = make([]float64, max(1, m, n, int(work[0])))
	impl.Dormqr(blas.Side(side), tA, m, n, k, va.data, va.stride, t, vc.data, vc.stride, work, len(work))
	vc.flush()
	return 0
}
