//go:build cgo && cuda

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

package cusolver

// #cgo CFLAGS: -I/usr/local/cuda/include
// #cgo LDFLAGS: -L/usr/local/cuda/lib64 -lcusolver -lcublas -lcudart
// #include <cuda_runtime.h>
// #include <cusolverDn.h>
import "C"

import "unsafe"

func available() bool {
	var count C.int
	if C.cudaGetDeviceCount(&count) != C.cudaSuccess {
		return false
	}
	return count > 0
}

func cudaErrorString(err CudaError) string {
	return C.GoString(C.cudaGetErrorString(C.cudaError_t(err)))
}

func newHandle() (unsafe.Pointer, Status) {
	var handle C.cusolverDnHandle_t
	status := Status(C.cusolverDnCreate(&handle))
	return unsafe.Pointer(handle), status
}

func destroyHandle(ptr unsafe.Pointer) Status {
	return Status(C.cusolverDnDestroy(C.cusolverDnHandle_t(ptr)))
}

func (h *Handle) handle() C.cusolverDnHandle_t {
	return C.cusolverDnHandle_t(h.ptr)
}

func malloc(size uintptr) (unsafe.Pointer, error) {
	var ptr unsafe.Pointer
	if err := C.cudaMalloc(&ptr, C.size_t(size)); err != C.cudaSuccess {
		return nil, CudaError(err)
	}
	return ptr, nil
}

func free(ptr unsafe.Pointer) error {
	if err := C.cudaFree(ptr); err != C.cudaSuccess {
		return CudaError(err)
	}
	return nil
}

func memcpyToDevice(dst, src unsafe.Pointer, size uintptr) error {
	if err := C.cudaMemcpy(dst, src, C.size_t(size), C.cudaMemcpyHostToDevice); err != C.cudaSuccess {
		return CudaError(err)
	}
	return nil
}

func memcpyToHost(dst, src unsafe.Pointer, size uintptr) error {
	if err := C.cudaMemcpy(dst, src, C.size_t(size), C.cudaMemcpyDeviceToHost); err != C.cudaSuccess {
		return CudaError(err)
	}
	return nil
}

func sgetrfBufferSize(h *Handle, m, n, lda int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnSgetrf_bufferSize(h.handle(), C.int(m), C.int(n), nil, C.int(lda), &lwork)
	return int(lwork), Status(status)
}

func dgetrfBufferSize(h *Handle, m, n, lda int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnDgetrf_bufferSize(h.handle(), C.int(m), C.int(n), nil, C.int(lda), &lwork)
	return int(lwork), Status(status)
}

func sgetrf(h *Handle, m, n int, a unsafe.Pointer, lda int, work, ipiv, info unsafe.Pointer) Status {
	return Status(C.cusolverDnSgetrf(h.handle(), C.int(m), C.int(n), (*C.float)(a), C.int(lda),
		(*C.float)(work), (*C.int)(ipiv), (*C.int)(info)))
}

func dgetrf(h *Handle, m, n int, a unsafe.Pointer, lda int, work, ipiv, info unsafe.Pointer) Status {
	return Status(C.cusolverDnDgetrf(h.handle(), C.int(m), C.int(n), (*C.double)(a), C.int(lda),
		(*C.double)(work), (*C.int)(ipiv), (*C.int)(info)))
}

func sgetrs(h *Handle, trans Operation, n, nrhs int, a unsafe.Pointer, lda int, ipiv, b unsafe.Pointer, ldb int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnSgetrs(h.handle(), C.cublasOperation_t(trans), C.int(n), C.int(nrhs),
		(*C.float)(a), C.int(lda), (*C.int)(ipiv), (*C.float)(b), C.int(ldb), (*C.int)(info)))
}

func dgetrs(h *Handle, trans Operation, n, nrhs int, a unsafe.Pointer, lda int, ipiv, b unsafe.Pointer, ldb int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnDgetrs(h.handle(), C.cublasOperation_t(trans), C.int(n), C.int(nrhs),
		(*C.double)(a), C.int(lda), (*C.int)(ipiv), (*C.double)(b), C.int(ldb), (*C.int)(info)))
}

func sgesvdBufferSize(h *Handle, m, n int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnSgesvd_bufferSize(h.handle(), C.int(m), C.int(n), &lwork)
	return int(lwork), Status(status)
}

func dgesvdBufferSize(h *Handle, m, n int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnDgesvd_bufferSize(h.handle(), C.int(m), C.int(n), &lwork)
	return int(lwork), Status(status)
}

func sgesvd(h *Handle, jobu, jobvt Job, m, n int, a unsafe.Pointer, lda int, s, u unsafe.Pointer, ldu int, vt unsafe.Pointer, ldvt int, work unsafe.Pointer, lwork int, rwork, info unsafe.Pointer) Status {
	return Status(C.cusolverDnSgesvd(h.handle(), C.schar(jobu), C.schar(jobvt), C.int(m), C.int(n),
		(*C.float)(a), C.int(lda), (*C.float)(s), (*C.float)(u), C.int(ldu), (*C.float)(vt), C.int(ldvt),
		(*C.float)(work), C.int(lwork), (*C.float)(rwork), (*C.int)(info)))
}

func dgesvd(h *Handle, jobu, jobvt Job, m, n int, a unsafe.Pointer, lda int, s, u unsafe.Pointer, ldu int, vt unsafe.Pointer, ldvt int, work unsafe.Pointer, lwork int, rwork, info unsafe.Pointer) Status {
	return Status(C.cusolverDnDgesvd(h.handle(), C.schar(jobu), C.schar(jobvt), C.int(m), C.int(n),
		(*C.double)(a), C.int(lda), (*C.double)(s), (*C.double)(u), C.int(ldu), (*C.double)(vt), C.int(ldvt),
		(*C.double)(work), C.int(lwork), (*C.double)(rwork), (*C.int)(info)))
}

func sgeqrfBufferSize(h *Handle, m, n, lda int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnSgeqrf_bufferSize(h.handle(), C.int(m), C.int(n), nil, C.int(lda), &lwork)
	return int(lwork), Status(status)
}

func dgeqrfBufferSize(h *Handle, m, n, lda int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnDgeqrf_bufferSize(h.handle(), C.int(m), C.int(n), nil, C.int(lda), &lwork)
	return int(lwork), Status(status)
}

func sgeqrf(h *Handle, m, n int, a unsafe.Pointer, lda int, tau, work unsafe.Pointer, lwork int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnSgeqrf(h.handle(), C.int(m), C.int(n), (*C.float)(a), C.int(lda),
		(*C.float)(tau), (*C.float)(work), C.int(lwork), (*C.int)(info)))
}

func dgeqrf(h *Handle, m, n int, a unsafe.Pointer, lda int, tau, work unsafe.Pointer, lwork int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnDgeqrf(h.handle(), C.int(m), C.int(n), (*C.double)(a), C.int(lda),
		(*C.double)(tau), (*C.double)(work), C.int(lwork), (*C.int)(info)))
}

func sormqrBufferSize(h *Handle, side SideMode, trans Operation, m, n, k, lda, ldc int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnSormqr_bufferSize(h.handle(), C.cublasSideMode_t(side), C.cublasOperation_t(trans),
		C.int(m), C.int(n), C.int(k), nil, C.int(lda), nil, nil, C.int(ldc), &lwork)
	return int(lwork), Status(status)
}

func dormqrBufferSize(h *Handle, side SideMode, trans Operation, m, n, k, lda, ldc int) (int, Status) {
	var lwork C.int
	status := C.cusolverDnDormqr_bufferSize(h.handle(), C.cublasSideMode_t(side), C.cublasOperation_t(trans),
		C.int(m), C.int(n), C.int(k), nil, C.int(lda), nil, nil, C.int(ldc), &lwork)
	return int(lwork), Status(status)
}

func sormqr(h *Handle, side SideMode, trans Operation, m, n, k int, a unsafe.Pointer, lda int, tau, c unsafe.Pointer, ldc int, work unsafe.Pointer, lwork int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnSormqr(h.handle(), C.cublasSideMode_t(side), C.cublasOperation_t(trans),
		C.int(m), C.int(n), C.int(k), (*C.float)(a), C.int(lda), (*C.float)(tau), (*C.float)(c), C.int(ldc),
		(*C.float)(work), C.int(lwork), (*C.int)(info)))
}

func dormqr(h *Handle, side SideMode, trans Operation, m, n, k int, a unsafe.Pointer, lda int, tau, c unsafe.Pointer, ldc int, work unsafe.Pointer, lwork int, info unsafe.Pointer) Status {
	return Status(C.cusolverDnDormqr(h.handle(), C.cublasSideMode_t(side), C.cublasOperation_t(trans),
		C.int(m), C.int(n), C.int(k), (*C.double)(a), C.int(lda), (*C.double)(tau), (*C.double)(c), C.int(ldc),
		(*C.double)(work), C.int(lwork), (*C.int)(info)))
}
