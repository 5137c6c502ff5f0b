//go:build cgo && mkl

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

// #cgo CFLAGS: -I/opt/intel/oneapi/mkl/latest/include
// #cgo LDFLAGS: -L/opt/intel/oneapi/mkl/latest/lib/intel64 -lmkl_intel_lp64 -lmkl_sequential -lmkl_core -lpthread -lm -ldl
// #include "mkl.h"
import "C"

import "unsafe"

const backend = "mkl"

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

func iptr(a []int32) *C.MKL_INT {
	if len(a) == 0 {
		return nil
	}
	return (*C.MKL_INT)(unsafe.Pointer(&a[0]))
}

func sgetrf(layout Layout, m, n int, a []float32, lda int, ipiv []int32) int {
	return int(C.LAPACKE_sgetrf(C.int(layout), C.MKL_INT(m), C.MKL_INT(n), sptr(a), C.MKL_INT(lda), iptr(ipiv)))
}

func dgetrf(layout Layout, m, n int, a []float64, lda int, ipiv []int32) int {
	return int(C.LAPACKE_dgetrf(C.int(layout), C.MKL_INT(m), C.MKL_INT(n), dptr(a), C.MKL_INT(lda), iptr(ipiv)))
}

func sgetri(layout Layout, n int, a []float32, lda int, ipiv []int32) int {
	return int(C.LAPACKE_sgetri(C.int(layout), C.MKL_INT(n), sptr(a), C.MKL_INT(lda), iptr(ipiv)))
}

func dgetri(layout Layout, n int, a []float64, lda int, ipiv []int32) int {
	return int(C.LAPACKE_dgetri(C.int(layout), C.MKL_INT(n), dptr(a), C.MKL_INT(lda), iptr(ipiv)))
}

func sgetrs(layout Layout, trans Transpose, n, nrhs int, a []float32, lda int, ipiv []int32, b []float32, ldb int) int {
	return int(C.LAPACKE_sgetrs(C.int(layout), C.char(trans), C.MKL_INT(n), C.MKL_INT(nrhs), sptr(a), C.MKL_INT(lda), iptr(ipiv), sptr(b), C.MKL_INT(ldb)))
}

func dgetrs(layout Layout, trans Transpose, n, nrhs int, a []float64, lda int, ipiv []int32, b []float64, ldb int) int {
	return int(C.LAPACKE_dgetrs(C.int(layout), C.char(trans), C.MKL_INT(n), C.MKL_INT(nrhs), dptr(a), C.MKL_INT(lda), iptr(ipiv), dptr(b), C.MKL_INT(ldb)))
}

func sgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float32, lda int, s, u []float32, ldu int, vt []float32, ldvt int, superb []float32) int {
	return int(C.LAPACKE_sgesvd(C.int(layout), C.char(jobu), C.char(jobvt), C.MKL_INT(m), C.MKL_INT(n), sptr(a), C.MKL_INT(lda),
		sptr(s), sptr(u), C.MKL_INT(ldu), sptr(vt), C.MKL_INT(ldvt), sptr(superb)))
}

func dgesvd(layout Layout, jobu, jobvt Job, m, n int, a []float64, lda int, s, u []float64, ldu int, vt []float64, ldvt int, superb []float64) int {
	return int(C.LAPACKE_dgesvd(C.int(layout), C.char(jobu), C.char(jobvt), C.MKL_INT(m), C.MKL_INT(n), dptr(a), C.MKL_INT(lda),
		dptr(s), dptr(u), C.MKL_INT(ldu), dptr(vt), C.MKL_INT(ldvt), dptr(superb)))
}

func sgels(layout Layout, trans Transpose, m, n, nrhs int, a []float32, lda int, b []float32, ldb int) int {
	return int(C.LAPACKE_sgels(C.int(layout), C.char(trans), C.MKL_INT(m), C.MKL_INT(n), C.MKL_INT(nrhs), sptr(a), C.MKL_INT(lda), sptr(b), C.MKL_INT(ldb)))
}

func dgels(layout Layout, trans Transpose, m, n, nrhs int, a []float64, lda int, b []float64, ldb int) int {
	return int(C.LAPACKE_dgels(C.int(layout), C.char(trans), C.MKL_INT(m), C.MKL_INT(n), C.MKL_INT(nrhs), dptr(a), C.MKL_INT(lda), dptr(b), C.MKL_INT(ldb)))
}

func sgeqrf(layout Layout, m, n int, a []float32, lda int, tau []float32) int {
	return int(C.LAPACKE_sgeqrf(C.int(layout), C.MKL_INT(m), C.MKL_INT(n), sptr(a), C.MKL_INT(lda), sptr(tau)))
}

func dgeqrf(layout Layout, m, n int, a []float64, lda int, tau []float64) int {
	return int(C.LAPACKE_dgeqrf(C.int(layout), C.MKL_INT(m), C.MKL_INT(n), dptr(a), C.MKL_INT(lda), dptr(tau)))
}

func sormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float32, lda int, tau, c []float32, ldc int) int {
	return int(C.LAPACKE_sormqr(C.int(layout), C.char(side), C.char(trans), C.MKL_INT(m), C.MKL_INT(n), C.MKL_INT(k),
		sptr(a), C.MKL_INT(lda), sptr(tau), sptr(c), C.MKL_INT(ldc)))
}

func dormqr(layout Layout, side Side, trans Transpose, m, n, k int, a []float64, lda int, tau, c []float64, ldc int) int {
	return int(C.LAPACKE_dormqr(C.int(layout), C.char(side), C.char(trans), C.MKL_INT(m), C.MKL_INT(n), C.MKL_INT(k),
		dptr(a), C.MKL_INT(lda), dptr(tau), dptr(c), C.MKL_INT(ldc)))
}
