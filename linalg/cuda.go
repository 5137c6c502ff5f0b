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
	"github.com/gorse-io/linalg/common/cusolver"
	"github.com/gorse-io/linalg/common/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// session owns a cuSOLVER handle and every device buffer allocated during
// one operation.
type session struct {
	handle  *cusolver.Handle
	buffers []interface{ Free() error }
}

func newSession() (*session, error) {
	handle, err := cusolver.NewHandle()
	if err != nil {
		return nil, errors.Annotate(err, "create cuSOLVER handle")
	}
	return &session{handle: handle}, nil
}

func (s *session) Close() {
	for _, b := range s.buffers {
		if err := b.Free(); err != nil {
			log.Logger().Error("failed to free device buffer", zap.Error(err))
		}
	}
	if err := s.handle.Close(); err != nil {
		log.Logger().Error("failed to destroy cuSOLVER handle", zap.Error(err))
	}
}

func alloc[T any](s *session, n int) (*cusolver.Buffer[T], error) {
	b, err := cusolver.Malloc[T](max(1, n))
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.buffers = append(s.buffers, b)
	return b, nil
}

func upload[T any](s *session, data []T) (*cusolver.Buffer[T], error) {
	b, err := alloc[T](s, len(data))
	if err != nil {
		return nil, err
	}
	if err = cusolver.CopyToDevice(b, data); err != nil {
		return nil, errors.Trace(err)
	}
	return b, nil
}

func download[T any](b *cusolver.Buffer[T], n int) ([]T, error) {
	data := make([]T, n)
	if err := cusolver.CopyToHost(data, b); err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}

func checkStatus(routine string, status cusolver.Status) error {
	if err := status.Err(); err != nil {
		return errors.Annotatef(err, "cusolverDn%s", routine)
	}
	return nil
}

// deviceInfo downloads the info word written by routine.
func deviceInfo(routine string, info *cusolver.Buffer[int32]) (int, error) {
	data, err := download(info, 1)
	if err != nil {
		return 0, errors.Annotatef(err, "download info of %s", routine)
	}
	return int(data[0]), nil
}

// getrfCUDA factorizes the column-major m×n matrix in a and returns the
// pivots on device together with the info code.
func getrfCUDA[T Float](s *session, m, n int, a *cusolver.Buffer[T]) (*cusolver.Buffer[int32], int, error) {
	lwork, status := cusolver.GetrfBufferSize[T](s.handle, m, n, m)
	if err := checkStatus("getrf_bufferSize", status); err != nil {
		return nil, 0, err
	}
	work, err := alloc[T](s, lwork)
	if err != nil {
		return nil, 0, err
	}
	ipiv, err := alloc[int32](s, min(m, n))
	if err != nil {
		return nil, 0, err
	}
	info, err := alloc[int32](s, 1)
	if err != nil {
		return nil, 0, err
	}
	if err = checkStatus("getrf", cusolver.Getrf(s.handle, m, n, a, m, work, ipiv, info)); err != nil {
		return nil, 0, err
	}
	code, err := deviceInfo("getrf", info)
	return ipiv, code, err
}

func luCUDA[T Float](a *Matrix[T]) (*Matrix[T], []int32, int, error) {
	s, err := newSession()
	if err != nil {
		return nil, nil, 0, err
	}
	defer s.Close()
	m, n := a.Rows, a.Cols
	dA, err := upload(s, a.colMajor())
	if err != nil {
		return nil, nil, 0, err
	}
	dPiv, info, err := getrfCUDA(s, m, n, dA)
	if err != nil {
		return nil, nil, 0, err
	}
	data, err := download(dA, m*n)
	if err != nil {
		return nil, nil, 0, err
	}
	ipiv, err := download(dPiv, min(m, n))
	if err != nil {
		return nil, nil, 0, err
	}
	return fromColMajor(m, n, data, m, a.Device), ipiv, info, nil
}

// getrsCUDA solves A X = B for column-major n×nrhs B with an LU factorization
// computed on device. Inverse passes the identity as B.
func getrsCUDA[T Float](a *Matrix[T], b []T, nrhs int) ([]T, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	n := a.Rows
	dA, err := upload(s, a.colMajor())
	if err != nil {
		return nil, err
	}
	dB, err := upload(s, b)
	if err != nil {
		return nil, err
	}
	dPiv, info, err := getrfCUDA(s, n, n, dA)
	if err != nil {
		return nil, err
	}
	if err = checkInfo("getrf", info); err != nil {
		return nil, err
	}
	dInfo, err := alloc[int32](s, 1)
	if err != nil {
		return nil, err
	}
	if err = checkStatus("getrs", cusolver.Getrs(s.handle, cusolver.OpN, n, nrhs, dA, n, dPiv, dB, n, dInfo)); err != nil {
		return nil, err
	}
	if info, err = deviceInfo("getrs", dInfo); err != nil {
		return nil, err
	}
	if err = checkInfo("getrs", info); err != nil {
		return nil, err
	}
	return download(dB, n*nrhs)
}

func inverseCUDA[T Float](a *Matrix[T]) (*Matrix[T], error) {
	n := a.Rows
	x, err := getrsCUDA(a, Identity[T](n).Data, n)
	if err != nil {
		return nil, err
	}
	return fromColMajor(n, n, x, n, a.Device), nil
}

func solveCUDA[T Float](a, b *Matrix[T]) (*Matrix[T], error) {
	x, err := getrsCUDA(a, b.colMajor(), b.Cols)
	if err != nil {
		return nil, err
	}
	return fromColMajor(b.Rows, b.Cols, x, b.Rows, a.Device), nil
}

// svdCUDA computes the thin SVD. cuSOLVER only supports m >= n, so a wide
// matrix is decomposed through its transpose, whose column-major storage is
// the row-major storage of the matrix itself.
func svdCUDA[T Float](a *Matrix[T]) (*Matrix[T], []T, *Matrix[T], error) {
	s, err := newSession()
	if err != nil {
		return nil, nil, nil, err
	}
	defer s.Close()
	m, n := a.Rows, a.Cols
	k := min(m, n)
	wide := m < n
	data := a.colMajor()
	if wide {
		m, n = n, m
		data = a.Data
	}
	dA, err := upload(s, data)
	if err != nil {
		return nil, nil, nil, err
	}
	dS, err := alloc[T](s, k)
	if err != nil {
		return nil, nil, nil, err
	}
	dU, err := alloc[T](s, m*k)
	if err != nil {
		return nil, nil, nil, err
	}
	dVT, err := alloc[T](s, k*n)
	if err != nil {
		return nil, nil, nil, err
	}
	lwork, status := cusolver.GesvdBufferSize[T](s.handle, m, n)
	if err = checkStatus("gesvd_bufferSize", status); err != nil {
		return nil, nil, nil, err
	}
	work, err := alloc[T](s, lwork)
	if err != nil {
		return nil, nil, nil, err
	}
	rwork, err := alloc[T](s, k)
	if err != nil {
		return nil, nil, nil, err
	}
	dInfo, err := alloc[int32](s, 1)
	if err != nil {
		return nil, nil, nil, err
	}
	status = cusolver.Gesvd(s.handle, cusolver.JobSome, cusolver.JobSome, m, n, dA, m, dS, dU, m, dVT, k, work, lwork, rwork, dInfo)
	if err = checkStatus("gesvd", status); err != nil {
		return nil, nil, nil, err
	}
	info, err := deviceInfo("gesvd", dInfo)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = checkInfo("gesvd", info); err != nil {
		return nil, nil, nil, err
	}
	sv, err := download(dS, k)
	if err != nil {
		return nil, nil, nil, err
	}
	uData, err := download(dU, m*k)
	if err != nil {
		return nil, nil, nil, err
	}
	vtData, err := download(dVT, k*n)
	if err != nil {
		return nil, nil, nil, err
	}
	if wide {
		// A = (V')^T S (U')^T where A^T = U' S V'^T
		u := &Matrix[T]{Rows: n, Cols: k, Data: vtData, Device: a.Device}
		vt := &Matrix[T]{Rows: k, Cols: m, Data: uData, Device: a.Device}
		return u, sv, vt, nil
	}
	return fromColMajor(m, k, uData, m, a.Device), sv, fromColMajor(k, n, vtData, k, a.Device), nil
}

// geqrfCUDA computes A = QR on device, applies op(Q) to the column-major m×nrhs
// matrix c and downloads the factored A and the updated c.
func geqrfCUDA[T Float](a *Matrix[T], c []T, nrhs int, trans cusolver.Operation) ([]T, []T, error) {
	s, err := newSession()
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()
	m, n := a.Rows, a.Cols
	k := min(m, n)
	dA, err := upload(s, a.colMajor())
	if err != nil {
		return nil, nil, err
	}
	dC, err := upload(s, c)
	if err != nil {
		return nil, nil, err
	}
	dTau, err := alloc[T](s, k)
	if err != nil {
		return nil, nil, err
	}
	dInfo, err := alloc[int32](s, 1)
	if err != nil {
		return nil, nil, err
	}
	lwork, status := cusolver.GeqrfBufferSize[T](s.handle, m, n, m)
	if err = checkStatus("geqrf_bufferSize", status); err != nil {
		return nil, nil, err
	}
	work, err := alloc[T](s, lwork)
	if err != nil {
		return nil, nil, err
	}
	if err = checkStatus("geqrf", cusolver.Geqrf(s.handle, m, n, dA, m, dTau, work, lwork, dInfo)); err != nil {
		return nil, nil, err
	}
	info, err := deviceInfo("geqrf", dInfo)
	if err != nil {
		return nil, nil, err
	}
	if err = checkInfo("geqrf", info); err != nil {
		return nil, nil, err
	}
	lwork, status = cusolver.OrmqrBufferSize[T](s.handle, cusolver.SideLeft, trans, m, nrhs, k, m, m)
	if err = checkStatus("ormqr_bufferSize", status); err != nil {
		return nil, nil, err
	}
	work, err = alloc[T](s, lwork)
	if err != nil {
		return nil, nil, err
	}
	status = cusolver.Ormqr(s.handle, cusolver.SideLeft, trans, m, nrhs, k, dA, m, dTau, dC, m, work, lwork, dInfo)
	if err = checkStatus("ormqr", status); err != nil {
		return nil, nil, err
	}
	if info, err = deviceInfo("ormqr", dInfo); err != nil {
		return nil, nil, err
	}
	if err = checkInfo("ormqr", info); err != nil {
		return nil, nil, err
	}
	qr, err := download(dA, m*n)
	if err != nil {
		return nil, nil, err
	}
	c, err = download(dC, m*nrhs)
	if err != nil {
		return nil, nil, err
	}
	return qr, c, nil
}

// upperCUDA extracts the k×n upper trapezoid R from the column-major m×n
// output of geqrf.
func upperCUDA[T Float](qr []T, m, n, k int, device Device) *Matrix[T] {
	r := NewMatrix[T](k, n)
	r.Device = device
	for i := 0; i < k; i++ {
		for j := i; j < n; j++ {
			r.Data[i*n+j] = qr[j*m+i]
		}
	}
	return r
}

func qrCUDA[T Float](a *Matrix[T]) (*Matrix[T], *Matrix[T], error) {
	m, n := a.Rows, a.Cols
	k := min(m, n)
	// first k columns of the m×m identity, column-major
	c := make([]T, m*k)
	for i := 0; i < k; i++ {
		c[i*m+i] = 1
	}
	qr, c, err := geqrfCUDA(a, c, k, cusolver.OpN)
	if err != nil {
		return nil, nil, err
	}
	return fromColMajor(m, k, c, m, a.Device), upperCUDA(qr, m, n, k, a.Device), nil
}

// leastSquaresCUDA solves min ||AX - B|| through A = QR: X = R^-1 (Q^T B)[:n].
// The triangular solve runs on the host.
func leastSquaresCUDA[T Float](a, b *Matrix[T]) (*Matrix[T], error) {
	m, n, nrhs := a.Rows, a.Cols, b.Cols
	qr, c, err := geqrfCUDA(a, b.colMajor(), nrhs, cusolver.OpT)
	if err != nil {
		return nil, err
	}
	r := upperCUDA(qr, m, n, n, a.Device)
	for i := 0; i < n; i++ {
		if r.At(i, i) == 0 {
			return nil, checkInfo("trsm", i+1)
		}
	}
	x := fromColMajor(n, nrhs, c, m, a.Device)
	solveUpper(n, nrhs, r.Data, x.Data)
	return x, nil
}
