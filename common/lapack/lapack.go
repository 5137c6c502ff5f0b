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

// Package lapack maps precision-generic LAPACK calls onto the single and
// double precision routines of the LAPACKE implementation selected at build
// time. Every entry point returns the LAPACK info code unchanged: 0 on
// success, -i if the i-th argument had an illegal value and a positive value
// for routine-specific failures.
package lapack

// Float is the set of element types LAPACK routines are provided for.
type Float interface {
	float32 | float64
}

// Layout is the storage order of a matrix, using the LAPACKE constants.
type Layout int

const (
	RowMajor Layout = 101
	ColMajor Layout = 102
)

func (layout Layout) String() string {
	switch layout {
	case RowMajor:
		return "RowMajor"
	case ColMajor:
		return "ColMajor"
	default:
		return "Unknown"
	}
}

// Transpose selects op(A) in routines accepting a trans argument.
type Transpose byte

const (
	NoTrans Transpose = 'N'
	Trans   Transpose = 'T'
)

// Side selects whether Q is applied from the left or the right in Ormqr.
type Side byte

const (
	Left  Side = 'L'
	Right Side = 'R'
)

// Job selects which singular vectors Gesvd computes.
type Job byte

const (
	JobAll       Job = 'A' // all columns of U or rows of VT
	JobSome      Job = 'S' // the first min(m,n) columns of U or rows of VT
	JobOverwrite Job = 'O' // the first min(m,n) vectors overwrite A
	JobNone      Job = 'N'
)

// Backend returns the name of the LAPACK implementation compiled in.
func Backend() string {
	return backend
}

// Getrf computes the LU factorization of a general m×n matrix using partial
// pivoting with row interchanges. ipiv receives min(m,n) 1-based pivot
// indices. A positive result i means U(i,i) is exactly zero.
func Getrf[T Float](layout Layout, m, n int, a []T, lda int, ipiv []int32) int {
	switch a := any(a).(type) {
	case []float32:
		return sgetrf(layout, m, n, a, lda, ipiv)
	case []float64:
		return dgetrf(layout, m, n, a, lda, ipiv)
	}
	panic("lapack: unsupported element type")
}

// Getri computes the inverse of a matrix from the LU factorization produced
// by Getrf. A positive result i means U(i,i) is exactly zero.
func Getri[T Float](layout Layout, n int, a []T, lda int, ipiv []int32) int {
	switch a := any(a).(type) {
	case []float32:
		return sgetri(layout, n, a, lda, ipiv)
	case []float64:
		return dgetri(layout, n, a, lda, ipiv)
	}
	panic("lapack: unsupported element type")
}

// Getrs solves op(A)*X = B with the LU factorization produced by Getrf.
func Getrs[T Float](layout Layout, trans Transpose, n, nrhs int, a []T, lda int, ipiv []int32, b []T, ldb int) int {
	switch a := any(a).(type) {
	case []float32:
		return sgetrs(layout, trans, n, nrhs, a, lda, ipiv, any(b).([]float32), ldb)
	case []float64:
		return dgetrs(layout, trans, n, nrhs, a, lda, ipiv, any(b).([]float64), ldb)
	}
	panic("lapack: unsupported element type")
}

// Gesvd computes the singular value decomposition A = U*Σ*VT. superb must
// hold min(m,n)-1 elements; on a positive result it contains the
// superdiagonal of the bidiagonal form that failed to converge.
func Gesvd[T Float](layout Layout, jobu, jobvt Job, m, n int, a []T, lda int, s, u []T, ldu int, vt []T, ldvt int, superb []T) int {
	switch a := any(a).(type) {
	case []float32:
		return sgesvd(layout, jobu, jobvt, m, n, a, lda, any(s).([]float32), any(u).([]float32), ldu,
			any(vt).([]float32), ldvt, any(superb).([]float32))
	case []float64:
		return dgesvd(layout, jobu, jobvt, m, n, a, lda, any(s).([]float64), any(u).([]float64), ldu,
			any(vt).([]float64), ldvt, any(superb).([]float64))
	}
	panic("lapack: unsupported element type")
}

// Gels solves overdetermined or underdetermined linear systems involving a
// full rank m×n matrix using a QR or LQ factorization. B holds max(m,n) rows.
// A positive result i means the i-th diagonal element of the triangular
// factor is zero, so A does not have full rank.
func Gels[T Float](layout Layout, trans Transpose, m, n, nrhs int, a []T, lda int, b []T, ldb int) int {
	switch a := any(a).(type) {
	case []float32:
		return sgels(layout, trans, m, n, nrhs, a, lda, any(b).([]float32), ldb)
	case []float64:
		return dgels(layout, trans, m, n, nrhs, a, lda, any(b).([]float64), ldb)
	}
	panic("lapack: unsupported element type")
}

// Geqrf computes the QR factorization A = Q*R. Q is stored as min(m,n)
// elementary reflectors below the diagonal of A with scalar factors in tau.
func Geqrf[T Float](layout Layout, m, n int, a []T, lda int, tau []T) int {
	switch a := any(a).(type) {
	case []float32:
		return sgeqrf(layout, m, n, a, lda, any(tau).([]float32))
	case []float64:
		return dgeqrf(layout, m, n, a, lda, any(tau).([]float64))
	}
	panic("lapack: unsupported element type")
}

// Ormqr overwrites the m×n matrix C with op(Q)*C or C*op(Q), where Q is given
// by the k reflectors produced by Geqrf.
func Ormqr[T Float](layout Layout, side Side, trans Transpose, m, n, k int, a []T, lda int, tau, c []T, ldc int) int {
	switch a := any(a).(type) {
	case []float32:
		return sormqr(layout, side, trans, m, n, k, a, lda, any(tau).([]float32), any(c).([]float32), ldc)
	case []float64:
		return dormqr(layout, side, trans, m, n, k, a, lda, any(tau).([]float64), any(c).([]float64), ldc)
	}
	panic("lapack: unsupported element type")
}
