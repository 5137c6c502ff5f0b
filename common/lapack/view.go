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

import "gonum.org/v1/gonum/blas"

// view is a row-major float64 image of a caller matrix. Row-major float64
// input is used in place, anything else is copied into scratch storage and
// written back by flush.
type view[T Float] struct {
	layout     Layout
	rows, cols int
	src        []T
	ld         int
	data       []float64
	stride     int
	shared     bool
}

func newView[T Float](layout Layout, rows, cols int, src []T, ld int, load bool) *view[T] {
	v := &view[T]{layout: layout, rows: rows, cols: cols, src: src, ld: ld}
	if f, ok := any(src).([]float64); ok && layout == RowMajor {
		v.data, v.stride, v.shared = f, ld, true
		return v
	}
	v.stride = max(1, cols)
	v.data = make([]float64, rows*v.stride)
	if load {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v.data[i*v.stride+j] = float64(src[v.index(i, j)])
			}
		}
	}
	return v
}

func (v *view[T]) index(i, j int) int {
	if v.layout == RowMajor {
		return i*v.ld + j
	}
	return j*v.ld + i
}

func (v *view[T]) at(i, j int) float64 {
	return v.data[i*v.stride+j]
}

func (v *view[T]) flush() {
	if v.shared {
		return
	}
	for i := 0; i < v.rows; i++ {
		for j := 0; j < v.cols; j++ {
			v.src[v.index(i, j)] = T(v.data[i*v.stride+j])
		}
	}
}

// firstZeroDiag returns the 1-based index of the first exactly zero element
// on the leading k diagonal entries, or 0 if there is none.
func firstZeroDiag[T Float](v *view[T], k int) int {
	for i := 0; i < k; i++ {
		if v.at(i, i) == 0 {
			return i + 1
		}
	}
	return 0
}

func validLayout(layout Layout) bool {
	return layout == RowMajor || layout == ColMajor
}

// minLd returns the smallest legal leading dimension of a rows×cols matrix.
func minLd(layout Layout, rows, cols int) int {
	if layout == RowMajor {
		return max(1, cols)
	}
	return max(1, rows)
}

// fits reports whether a holds a rows×cols matrix with leading dimension ld.
func fits[T Float](layout Layout, rows, cols int, a []T, ld int) bool {
	if rows == 0 || cols == 0 {
		return true
	}
	if layout == RowMajor {
		return len(a) >= (rows-1)*ld+cols
	}
	return len(a) >= (cols-1)*ld+rows
}

// zeroBasedPivots converts LAPACK pivots to the form gonum expects.
func zeroBasedPivots(ipiv []int32, n int) ([]int, bool) {
	piv := make([]int, n)
	for i := 0; i < n; i++ {
		if ipiv[i] < 1 || int(ipiv[i]) > n {
			return nil, false
		}
		piv[i] = int(ipiv[i]) - 1
	}
	return piv, true
}

func (trans Transpose) blas() (blas.Transpose, bool) {
	switch trans {
	case NoTrans:
		return blas.NoTrans, true
	case Trans, 'C':
		return blas.Trans, true
	default:
		return 0, false
	}
}

func (job Job) valid() bool {
	switch job {
	case JobAll, JobSome, JobOverwrite, JobNone:
		return true
	default:
		return false
	}
}
