//go:build !cgo || !cuda

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

import (
	"strconv"
	"unsafe"

	"github.com/juju/errors"
)

// ErrNotAvailable is returned by device memory operations in builds
// without CUDA support.
var ErrNotAvailable = errors.New("cusolver: built without CUDA support")

func available() bool { return false }

func cudaErrorString(err CudaError) string { return "code " + strconv.Itoa(int(err)) }

func newHandle() (unsafe.Pointer, Status) { return nil, StatusNotSupported }

func destroyHandle(unsafe.Pointer) Status { return StatusNotSupported }

func malloc(uintptr) (unsafe.Pointer, error) { return nil, ErrNotAvailable }

func free(unsafe.Pointer) error { return ErrNotAvailable }

func memcpyToDevice(_, _ unsafe.Pointer, _ uintptr) error { return ErrNotAvailable }

func memcpyToHost(_, _ unsafe.Pointer, _ uintptr) error { return ErrNotAvailable }

func sgetrfBufferSize(*Handle, int, int, int) (int, Status) { return 0, StatusNotSupported }

func dgetrfBufferSize(*Handle, int, int, int) (int, Status) { return 0, StatusNotSupported }

func sgetrf(*Handle, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, unsafe.Pointer) Status {
	return StatusNotSupported
}

func dgetrf(*Handle, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, unsafe.Pointer) Status {
	return StatusNotSupported
}

func sgetrs(*Handle, Operation, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}

func dgetrs(*Handle, Operation, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}

func sgesvdBufferSize(*Handle, int, int) (int, Status) { return 0, StatusNotSupported }

func dgesvdBufferSize(*Handle, int, int) (int, Status) { return 0, StatusNotSupported }

func sgesvd(*Handle, Job, Job, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer) Status {
	return StatusNotSupported
}

func dgesvd(*Handle, Job, Job, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer) Status {
	return StatusNotSupported
}

func sgeqrfBufferSize(*Handle, int, int, int) (int, Status) { return 0, StatusNotSupported }

func dgeqrfBufferSize(*Handle, int, int, int) (int, Status) { return 0, StatusNotSupported }

func sgeqrf(*Handle, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}

func dgeqrf(*Handle, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}

func sormqrBufferSize(*Handle, SideMode, Operation, int, int, int, int, int) (int, Status) {
	return 0, StatusNotSupported
}

func dormqrBufferSize(*Handle, SideMode, Operation, int, int, int, int, int) (int, Status) {
	return 0, StatusNotSupported
}

func sormqr(*Handle, SideMode, Operation, int, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}

func dormqr(*Handle, SideMode, Operation, int, int, int, unsafe.Pointer, int, unsafe.Pointer, unsafe.Pointer, int, unsafe.Pointer, int, unsafe.Pointer) Status {
	return StatusNotSupported
}
