//go:build cgo && lapacke && !mkl

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

// #cgo LDFLAGS: -llapacke -llapack -lblas
// #include <lapacke.h>
import "C"

import "unsafe"

const backend = "lapacke"

func sptr(a []float32) *C.float {
	if len(a) == 0 {
		return nil
	}
	return (*C.float)(unsafe.Pointer(&a[0]))
}

func dptr(a []float64) *C.double {
	if len(a) == 0 {
		return nil
	}
	return (*C.double)(unsafe.Pointer(&a[0]))
}

func iptr(a []int32) *C.lapack_int {
	if len(a) == 0 {
		return nil
	}
	return (*C.lapack_int)(unsafe.Pointer(&a[0]))
}

func sgetrf(layout Layout, m, n int, a []float32, lda int, ipiv []int32) int {
	return int(C.LAPACKE_sgetrf(C.int(layout), C.lapack_int(m), C.lapack_int(n), sptr(a), C.lapack_int(lda), iptr(ipiv)))
}

func dgetrf(layout Layout, m, n int, a []float64, lda int, ipiv []int32) int {
	return int(C.LAPACKE_dgetrf(C.int(layout), C.lapack_int(m), C.lapack_int(n), dptr(a), C.lapack_int(lda), iptr(ipiv)))
}

func sgetri(layout Layout, n int, a []float32, lda int, ipiv []int32) int {
	return int(C.LAPACKE_sgetri(C.int(layout), C.lapack_int(n), sptr(a), C.lapack_int(lda), iptr(ipiv)))
}

func dgetri(layout Layout, n int, a []float64, lda int, ipiv []int32) int {
	return int(C.LAPACKE_dgetri(C.int(layout), C.lapack_int(n), dptr(a), C.lapack_int(lda), iptr(ipiv)))
}

func sgetrs(layout Layout, trans Transpose, n, nrhs int, a []float32, lda int, ipiv []int32, b []float32, ldb int) int {
	return int(C.LAPACKE_sgetrs(C.int(layout), C.char(trans), C.lapack_int(n), C.lapack_int(nrhs), sptr(a), C.lapack_int(lda), iptr(ipiv), sptr(b), C.lapack_int(ldb)))
}

func dgetrs(layout Layout, trans Transpose, n, nrhs int, a []float64, lda int, ipiv []int32, b []float64, ldb int) int {
	return int(C.LAPACKE_dgetrs(C.int(layout), C.char(trans), C.lapack_int(n), C.lapack_int(nrhs), dptr(a), C.lapack_int(lda), iptr(ipiv), dptr(b), C.lapack_int(ldb)))
}

func sgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float32, lda int, s, u []float32, ldu int, vt []float32, ldvt int, superb []float32) int {
	return int(C.LAPACKE_sgesvd(C.int(layout), C.char(jobu), C.char(jobvt), C.lapack_int(m), C.lapack_int(n), sptr(a), C.lapack_int(lda),
		sptr(s), sptr(u), C.lapack_int(ldu), sptr(vt), C.lapack_int(ldvt), sptr(superb)))
}

func dgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float64, lda int, s, u []float64, ldu int, vt []float64, ldvt int, superb []float64) int {
	return int(C.LAPACKE_dgesvd(C.int(layout), C.char(jobu), C.char(jobvt), C.lapack_int(m), C.lapack_int(n), dptr(a), C.lapack_int(lda),
		dptr(s), dptr(u), C.lapack_int(ldu), dptr(vt), C.lapack_int(ldvt), dptr(superb)))
}

func sgels(layout Layout, trans Transpose, m, n, nrhs int, a []float32, lda int, b []float32, ldb int) int {
	return int(C.LAPACKE_sgels(C.int(layout), C.char(trans), C.lapack_int(m), C.lapack_int(n), C.lapack_int(nrhs), sptr(a), C.lapack_int(lda), sptr(b), C.lapack_int(ldb)))
}

func dgels(layout Layout, trans Transpose, m, n, nrhs int, a []float64, lda int, b []float64, ldb int) int {
	return int(C.LAPACKE_dgels(C.int(layout), C.char(trans), C.lapack_int(m), C.lapack_int(n), C.lapack_int(nrhs), dptr(a), C.lapack_int(lda), dptr(b), C.lapack_int(ldb)))
}

func sgeqrf(layout Layout, m, n int, a []float32, lda int, tau []float32) int {
	return int(C.LAPACKE_sgeqrf(C.int(layout), C.lapack_int(m), C.lapack_int(n), sptr(a), C.lapack_int(lda), sptr(tau)))
}

func dgeqrf(layout Layout, m, n int, a []float64, lda int, tau []float64) int {
	return int(C.LAPACKE_dgeqrf(C.int(layout), C.lapack_int(m), C.lapack_int(n), dptr(a), C.lapack_int(lda), dptr(tau)))
}

func sormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float32, lda int, tau, c []float32, ldc int) int {
	return int(C.LAPACKE_sormqr(C.int(layout), C.char(side), C.char(trans), C.lapack_int(m), C.lapack_int(n), C.lapack_int(k),
		sptr(a), C.lapack_int(lda), sptr(tau), sptr(c), C.lapack_int(ldc)))
}

func dormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float64, lda int, tau, c []float64, ldc int) int {
	return int(C.LAPACKE_dormqr(C.int(layout), C.char(side), C.char(trans), C.lapack_int(m), C.lapack_int(n), C.lapack_int(k),
		dptr(a), C.lapack_int(lda), dptr(tau), dptr(c), C.lapack_int(ldc)))
}
