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

// Package cusolver maps precision-generic dense solver calls onto the single
// and double precision routines of NVIDIA cuSOLVER. It is compiled against
// CUDA with the `cuda` build tag; without it every call reports
// StatusNotSupported. Status codes and device-side info words are returned
// unchanged.
package cusolver

import (
	"strconv"
	"unsafe"

	"github.com/juju/errors"
)

// Float is the set of element types cuSOLVER routines are provided for.
type Float interface {
	float32 | float64
}

// Status is a cusolverStatus_t value.
type Status int

const (
	StatusSuccess                Status = 0
	StatusNotInitialized         Status = 1
	StatusAllocFailed            Status = 2
	StatusInvalidValue           Status = 3
	StatusArchMismatch           Status = 4
	StatusMappingError           Status = 5
	StatusExecutionFailed        Status = 6
	StatusInternalError          Status = 7
	StatusMatrixTypeNotSupported Status = 8
	StatusNotSupported           Status = 9
	StatusZeroPivot              Status = 10
	StatusInvalidLicense         Status = 11
)

func (status Status) Error() string {
	switch status {
	case StatusSuccess:
		return "CUSOLVER_STATUS_SUCCESS"
	case StatusNotInitialized:
		return "CUSOLVER_STATUS_NOT_INITIALIZED"
	case StatusAllocFailed:
		return "CUSOLVER_STATUS_ALLOC_FAILED"
	case StatusInvalidValue:
		return "CUSOLVER_STATUS_INVALID_VALUE"
	case StatusArchMismatch:
		return "CUSOLVER_STATUS_ARCH_MISMATCH"
	case StatusMappingError:
		return "CUSOLVER_STATUS_MAPPING_ERROR"
	case StatusExecutionFailed:
		return "CUSOLVER_STATUS_EXECUTION_FAILED"
	case StatusInternalError:
		return "CUSOLVER_STATUS_INTERNAL_ERROR"
	case StatusMatrixTypeNotSupported:
		return "CUSOLVER_STATUS_MATRIX_TYPE_NOT_SUPPORTED"
	case StatusNotSupported:
		return "CUSOLVER_STATUS_NOT_SUPPORTED"
	case StatusZeroPivot:
		return "CUSOLVER_STATUS_ZERO_PIVOT"
	case StatusInvalidLicense:
		return "CUSOLVER_STATUS_INVALID_LICENSE"
	default:
		return "Unknown cuSOLVER status: " + strconv.Itoa(int(status))
	}
}

// Err returns nil on success and the status itself otherwise.
func (status Status) Err() error {
	if status == StatusSuccess {
		return nil
	}
	return status
}

// CudaError is a cudaError_t value returned by the CUDA runtime.
type CudaError int

func (err CudaError) Error() string {
	return "CUDA runtime error " + strconv.Itoa(int(err)) + ": " + cudaErrorString(err)
}

// Operation is a cublasOperation_t value.
type Operation int

const (
	OpN Operation = 0
	OpT Operation = 1
)

// SideMode is a cublasSideMode_t value.
type SideMode int

const (
	SideLeft  SideMode = 0
	SideRight SideMode = 1
)

// Job selects which singular vectors Gesvd computes.
type Job byte

const (
	JobAll       Job = 'A'
	JobSome      Job = 'S'
	JobOverwrite Job = 'O'
	JobNone      Job = 'N'
)

// Available reports whether a CUDA device can be used.
func Available() bool {
	return available()
}

// Handle wraps a cusolverDnHandle_t. A handle must not be used by more than
// one goroutine at a time.
type Handle struct {
	ptr unsafe.Pointer
}

func NewHandle() (*Handle, error) {
	ptr, status := newHandle()
	if err := status.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Handle{ptr: ptr}, nil
}

func (h *Handle) Close() error {
	if h == nil || h.ptr == nil {
		return nil
	}
	status := destroyHandle(h.ptr)
	h.ptr = nil
	return status.Err()
}

// Buffer is an allocation in device memory holding Len elements of T.
type Buffer[T any] struct {
	ptr unsafe.Pointer
	len int
}

func Malloc[T any](n int) (*Buffer[T], error) {
	var zero T
	ptr, err := malloc(uintptr(n) * unsafe.Sizeof(zero))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Buffer[T]{ptr: ptr, len: n}, nil
}

func (b *Buffer[T]) Len() int {
	if b == nil {
		return 0
	}
	return b.len
}

func (b *Buffer[T]) Free() error {
	if b == nil || b.ptr == nil {
		return nil
	}
	err := free(b.ptr)
	b.ptr, b.len = nil, 0
	return err
}

func (b *Buffer[T]) pointer() unsafe.Pointer {
	if b == nil {
		return nil
	}
	return b.ptr
}

// CopyToDevice copies src into the beginning of dst.
func CopyToDevice[T any](dst *Buffer[T], src []T) error {
	if len(src) > dst.Len() {
		return errors.Errorf("cusolver: copy %d elements into buffer of %d", len(src), dst.Len())
	}
	if len(src) == 0 {
		return nil
	}
	var zero T
	return memcpyToDevice(dst.ptr, unsafe.Pointer(&src[0]), uintptr(len(src))*unsafe.Sizeof(zero))
}

// CopyToHost copies the first len(dst) elements of src into dst.
func CopyToHost[T any](dst []T, src *Buffer[T]) error {
	if len(dst) > src.Len() {
		return errors.Errorf("cusolver: copy %d elements from buffer of %d", len(dst), src.Len())
	}
	if len(dst) == 0 {
		return nil
	}
	var zero T
	return memcpyToHost(unsafe.Pointer(&dst[0]), src.ptr, uintptr(len(dst))*unsafe.Sizeof(zero))
}

func isFloat32[T Float]() bool {
	var zero T
	_, ok := any(zero).(float32)
	return ok
}

// GetrfBufferSize returns the workspace length required by Getrf.
func GetrfBufferSize[T Float](h *Handle, m, n, lda int) (int, Status) {
	if isFloat32[T]() {
		return sgetrfBufferSize(h, m, n, lda)
	}
	return dgetrfBufferSize(h, m, n, lda)
}

// Getrf computes the LU factorization of A in place. ipiv may be nil to
// factorize without pivoting. info receives the device-side LAPACK info.
func Getrf[T Float](h *Handle, m, n int, a *Buffer[T], lda int, work *Buffer[T], ipiv, info *Buffer[int32]) Status {
	if isFloat32[T]() {
		return sgetrf(h, m, n, a.pointer(), lda, work.pointer(), ipiv.pointer(), info.pointer())
	}
	return dgetrf(h, m, n, a.pointer(), lda, work.pointer(), ipiv.pointer(), info.pointer())
}

// Getrs solves op(A)*X = B with the factorization produced by Getrf.
func Getrs[T Float](h *Handle, trans Operation, n, nrhs int, a *Buffer[T], lda int, ipiv *Buffer[int32], b *Buffer[T], ldb int, info *Buffer[int32]) Status {
	if isFloat32[T]() {
		return sgetrs(h, trans, n, nrhs, a.pointer(), lda, ipiv.pointer(), b.pointer(), ldb, info.pointer())
	}
	return dgetrs(h, trans, n, nrhs, a.pointer(), lda, ipiv.pointer(), b.pointer(), ldb, info.pointer())
}

// GesvdBufferSize returns the workspace length required by Gesvd.
func GesvdBufferSize[T Float](h *Handle, m, n int) (int, Status) {
	if isFloat32[T]() {
		return sgesvdBufferSize(h, m, n)
	}
	return dgesvdBufferSize(h, m, n)
}

// Gesvd computes A = U*Σ*VT. cuSOLVER requires m >= n.
func Gesvd[T Float](h *Handle, jobu, jobvt Job, m, n int, a *Buffer[T], lda int, s, u *Buffer[T], ldu int, vt *Buffer[T], ldvt int, work *Buffer[T], lwork int, rwork *Buffer[T], info *Buffer[int32]) Status {
	if isFloat32[T]() {
		return sgesvd(h, jobu, jobvt, m, n, a.pointer(), lda, s.pointer(), u.pointer(), ldu, vt.pointer(), ldvt,
			work.pointer(), lwork, rwork.pointer(), info.pointer())
	}
	return dgesvd(h, jobu, jobvt, m, n, a.pointer(), lda, s.pointer(), u.pointer(), ldu, vt.pointer(), ldvt,
		work.pointer(), lwork, rwork.pointer(), info.pointer())
}

// GeqrfBufferSize returns the workspace length required by Geqrf.
func GeqrfBufferSize[T Float](h *Handle, m, n, lda int) (int, Status) {
	if isFloat32[T]() {
		return sgeqrfBufferSize(h, m, n, lda)
	}
	return dgeqrfBufferSize(h, m, n, lda)
}

// Geqrf computes the QR factorization A = Q*R.
func Geqrf[T Float](h *Handle, m, n int, a *Buffer[T], lda int, tau, work *Buffer[T], lwork int, info *Buffer[int32]) Status {
	if isFloat32[T]() {
		return sgeqrf(h, m, n, a.pointer(), lda, tau.pointer(), work.pointer(), lwork, info.pointer())
	}
	return dgeqrf(h, m, n, a.pointer(), lda, tau.pointer(), work.pointer(), lwork, info.pointer())
}

// OrmqrBufferSize returns the workspace length required by Ormqr.
func OrmqrBufferSize[T Float](h *Handle, side SideMode, trans Operation, m, n, k, lda, ldc int) (int, Status) {
	if isFloat32[T]() {
		return sormqrBufferSize(h, side, trans, m, n, k, lda, ldc)
	}
	return dormqrBufferSize(h, side, trans, m, n, k, lda, ldc)
}

// Ormqr overwrites C with op(Q)*C or C*op(Q) where Q comes from Geqrf.
func Ormqr[T Float](h *Handle, side SideMode, trans Operation, m, n, k int, a *Buffer[T], lda int, tau, c *Buffer[T], ldc int, work *Buffer[T], lwork int, info *Buffer[int32]) Status {
	if isFloat32[T]() {
		return sormqr(h, side, trans, m, n, k, a.pointer(), lda, tau.pointer(), c.pointer(), ldc,
			work.pointer(), lwork, info.pointer())
	}
	return dormqr(h, side, trans, m, n, k, a.pointer(), lda, tau.pointer(), c.pointer(), ldc,
		work.pointer(), lwork, info.pointer())
}
