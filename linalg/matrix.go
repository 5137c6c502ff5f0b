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

// Package linalg provides dense matrix decompositions and solvers on top of
// the LAPACK and cuSOLVER bindings. Matrices always live in host memory in
// row-major order; the device of a matrix selects where routines execute.
package linalg

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gorse-io/linalg/common/lapack"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Float is the set of supported element types.
type Float = lapack.Float

// Matrix is a dense row-major matrix.
type Matrix[T Float] struct {
	Rows   int
	Cols   int
	Data   []T
	Device Device
}

// NewMatrix creates a zero matrix on the CPU.
func NewMatrix[T Float](rows, cols int) *Matrix[T] {
	return &Matrix[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}
}

// NewMatrixFromSlice wraps data without copying.
func NewMatrixFromSlice[T Float](rows, cols int, data []T) (*Matrix[T], error) {
	if rows < 0 || cols < 0 {
		return nil, errors.NotValidf("shape (%d, %d)", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, errors.NotValidf("%d elements for shape (%d, %d)", len(data), rows, cols)
	}
	return &Matrix[T]{Rows: rows, Cols: cols, Data: data}, nil
}

// NewMatrixFromRows copies a slice of equally long rows.
func NewMatrixFromRows[T Float](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return NewMatrix[T](0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix[T](len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.NotValidf("row %d with %d columns, expect %d", i, len(row), cols)
		}
		copy(m.Data[i*cols:], row)
	}
	return m, nil
}

// Identity creates an n×n identity matrix.
func Identity[T Float](n int) *Matrix[T] {
	m := NewMatrix[T](n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

func (m *Matrix[T]) At(i, j int) T {
	return m.Data[i*m.Cols+j]
}

func (m *Matrix[T]) Set(i, j int, v T) {
	m.Data[i*m.Cols+j] = v
}

// Row returns row i, sharing memory with m.
func (m *Matrix[T]) Row(i int) []T {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m *Matrix[T]) Shape() (int, int) {
	return m.Rows, m.Cols
}

func (m *Matrix[T]) IsSquare() bool {
	return m.Rows == m.Cols
}

func (m *Matrix[T]) Clone() *Matrix[T] {
	return &Matrix[T]{Rows: m.Rows, Cols: m.Cols, Data: append([]T(nil), m.Data...), Device: m.Device}
}

// To returns a copy of m assigned to device.
func (m *Matrix[T]) To(device Device) *Matrix[T] {
	c := m.Clone()
	c.Device = device
	return c
}

// T returns the transpose of m.
func (m *Matrix[T]) T() *Matrix[T] {
	t := &Matrix[T]{Rows: m.Cols, Cols: m.Rows, Data: make([]T, len(m.Data)), Device: m.Device}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			t.Data[j*m.Rows+i] = m.Data[i*m.Cols+j]
		}
	}
	return t
}

// Mul returns m×b.
func (m *Matrix[T]) Mul(b *Matrix[T]) (*Matrix[T], error) {
	if m.Cols != b.Rows {
		return nil, errors.NotValidf("product of (%d, %d) and (%d, %d)", m.Rows, m.Cols, b.Rows, b.Cols)
	}
	c := NewMatrix[T](m.Rows, b.Cols)
	c.Device = m.Device
	for i := 0; i < m.Rows; i++ {
		// zeros are not skipped so that 0*Inf and 0*NaN reach the product
		for k := 0; k < m.Cols; k++ {
			a := m.Data[i*m.Cols+k]
			for j := 0; j < b.Cols; j++ {
				c.Data[i*b.Cols+j] += a * b.Data[k*b.Cols+j]
			}
		}
	}
	return c, nil
}

// AllClose reports whether m and b have the same shape and every pair of
// elements satisfies |x - y| <= atol + rtol*|y|.
func (m *Matrix[T]) AllClose(b *Matrix[T], rtol, atol float64) bool {
	if m.Rows != b.Rows || m.Cols != b.Cols {
		return false
	}
	for i, x := range m.Data {
		y := b.Data[i]
		if float64(abs(x-y)) > atol+rtol*float64(abs(y)) {
			return false
		}
	}
	return true
}

// MaxAbs returns the largest absolute value of the elements.
func (m *Matrix[T]) MaxAbs() T {
	return lo.Reduce(m.Data, func(agg T, x T, _ int) T {
		return max(agg, abs(x))
	}, 0)
}

func (m *Matrix[T]) String() string {
	var builder strings.Builder
	builder.WriteString("[")
	for i := 0; i < m.Rows; i++ {
		if i > 0 {
			builder.WriteString("\n ")
		}
		builder.WriteString(fmt.Sprint(m.Row(i)))
	}
	builder.WriteString("]")
	return builder.String()
}

// colMajor returns a column-major copy of the elements.
func (m *Matrix[T]) colMajor() []T {
	return m.T().Data
}

// fromColMajor builds a rows×cols matrix from column-major data with leading
// dimension ld.
func fromColMajor[T Float](rows, cols int, data []T, ld int, device Device) *Matrix[T] {
	m := NewMatrix[T](rows, cols)
	m.Device = device
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.Data[i*cols+j] = data[j*ld+i]
		}
	}
	return m
}

func abs[T Float](x T) T {
	switch x := any(x).(type) {
	case float32:
		return T(math32.Abs(x))
	case float64:
		return T(math.Abs(x))
	}
	panic("linalg: unsupported element type")
}

func precision[T Float]() string {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return "float32"
	}
	return "float64"
}
