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
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pack stores a row-major matrix in the given layout with a tight leading
// dimension.
func pack[T Float](layout Layout, rows, cols int, data []float64) ([]T, int) {
	a := make([]T, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if layout == RowMajor {
				a[i*cols+j] = T(data[i*cols+j])
			} else {
				a[j*rows+i] = T(data[i*cols+j])
			}
		}
	}
	if layout == RowMajor {
		return a, max(1, cols)
	}
	return a, max(1, rows)
}

// unpack converts a matrix back to row-major float64.
func unpack[T Float](layout Layout, rows, cols int, a []T, ld int) []float64 {
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if layout == RowMajor {
				data[i*cols+j] = float64(a[i*ld+j])
			} else {
				data[i*cols+j] = float64(a[j*ld+i])
			}
		}
	}
	return data
}

func matMul(m, k, n int, a, b []float64) []float64 {
	c := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for l := 0; l < k; l++ {
				c[i*n+j] += a[i*k+l] * b[l*n+j]
			}
		}
	}
	return c
}

func assertMatrixNear(t *testing.T, expected, actual []float64, delta float64) {
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "element %d", i)
	}
}

func eps[T Float]() float64 {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return 1e-4
	}
	return 1e-10
}

var layouts = []Layout{RowMajor, ColMajor}

var wellConditioned = []float64{
	4, 1, 2,
	1, 5, 3,
	2, 3, 6,
}

func testGetrfSingular[T Float](t *testing.T, layout Layout) {
	a, lda := pack[T](layout, 2, 2, []float64{1, 2, 2, 4})
	ipiv := make([]int32, 2)
	assert.Equal(t, 2, Getrf(layout, 2, 2, a, lda, ipiv))
	assert.Equal(t, []int32{2, 2}, ipiv)

	z, ldz := pack[T](layout, 3, 3, make([]float64, 9))
	assert.Equal(t, 1, Getrf(layout, 3, 3, z, ldz, make([]int32, 3)))
}

func TestGetrfSingular(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGetrfSingular[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGetrfSingular[float64](t, layout) })
	}
}

func testGetrfGetri[T Float](t *testing.T, layout Layout) {
	a, lda := pack[T](layout, 3, 3, wellConditioned)
	ipiv := make([]int32, 3)
	require.Zero(t, Getrf(layout, 3, 3, a, lda, ipiv))
	for _, p := range ipiv {
		assert.GreaterOrEqual(t, p, int32(1))
		assert.LessOrEqual(t, p, int32(3))
	}
	require.Zero(t, Getri(layout, 3, a, lda, ipiv))
	inv := unpack(layout, 3, 3, a, lda)
	assertMatrixNear(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, matMul(3, 3, 3, wellConditioned, inv), eps[T]())
}

func TestGetrfGetri(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGetrfGetri[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGetrfGetri[float64](t, layout) })
	}
}

func TestGetriSingular(t *testing.T) {
	// U(2,2) of an LU factorization is zero, A must not be touched
	a := []float64{2, 1, 0, 0}
	info := Getri(RowMajor, 2, a, 2, []int32{1, 2})
	assert.Equal(t, 2, info)
	assert.Equal(t, []float64{2, 1, 0, 0}, a)
}

func testGetrs[T Float](t *testing.T, layout Layout) {
	a, lda := pack[T](layout, 3, 3, wellConditioned)
	x := []float64{1, -2, 3, 0.5, 0, -1}
	rhs := matMul(3, 3, 2, wellConditioned, x)
	b, ldb := pack[T](layout, 3, 2, rhs)
	ipiv := make([]int32, 3)
	require.Zero(t, Getrf(layout, 3, 3, a, lda, ipiv))
	require.Zero(t, Getrs(layout, NoTrans, 3, 2, a, lda, ipiv, b, ldb))
	assertMatrixNear(t, x, unpack(layout, 3, 2, b, ldb), eps[T]())
}

func TestGetrs(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGetrs[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGetrs[float64](t, layout) })
	}
}

func TestGetrsTranspose(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	// A^T x = b with x = (1, 1)
	b := []float64{4, 6}
	ipiv := make([]int32, 2)
	require.Zero(t, Getrf(RowMajor, 2, 2, a, 2, ipiv))
	require.Zero(t, Getrs(RowMajor, Trans, 2, 1, a, 2, ipiv, b, 1))
	assert.InDelta(t, 1, b[0], 1e-12)
	assert.InDelta(t, 1, b[1], 1e-12)
}

func testGesvd[T Float](t *testing.T, layout Layout) {
	// singular values of this matrix are 5 and 3
	data := []float64{3, 2, 2, 2, 3, -2}
	a, lda := pack[T](layout, 2, 3, data)
	s := make([]T, 2)
	u, ldu := pack[T](layout, 2, 2, make([]float64, 4))
	vt, ldvt := pack[T](layout, 3, 3, make([]float64, 9))
	superb := make([]T, 1)
	require.Zero(t, Gesvd(layout, JobAll, JobAll, 2, 3, a, lda, s, u, ldu, vt, ldvt, superb))
	assert.InDelta(t, 5, float64(s[0]), eps[T]())
	assert.InDelta(t, 3, float64(s[1]), eps[T]())

	// U * diag(s) * VT[:2, :] reproduces A
	uu := unpack(layout, 2, 2, u, ldu)
	vv := unpack(layout, 3, 3, vt, ldvt)
	us := make([]float64, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			us[i*2+j] = uu[i*2+j] * float64(s[j])
		}
	}
	assertMatrixNear(t, data, matMul(2, 2, 3, us, vv[:6]), 10*eps[T]())
}

func TestGesvd(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGesvd[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGesvd[float64](t, layout) })
	}
}

func TestGesvdValuesOnly(t *testing.T) {
	a := []float64{
		2, 0,
		0, -3,
		0, 0,
	}
	s := make([]float64, 2)
	superb := make([]float64, 1)
	require.Zero(t, Gesvd(RowMajor, JobNone, JobNone, 3, 2, a, 2, s, nil, 1, nil, 1, superb))
	assert.InDelta(t, 3, s[0], 1e-12)
	assert.InDelta(t, 2, s[1], 1e-12)
}

func testGels[T Float](t *testing.T, layout Layout) {
	data := []float64{1, 1, 1, 2, 1, 3}
	a, lda := pack[T](layout, 3, 2, data)
	b, ldb := pack[T](layout, 3, 1, []float64{3, 5, 7})
	require.Zero(t, Gels(layout, NoTrans, 3, 2, 1, a, lda, b, ldb))
	x := unpack(layout, 3, 1, b, ldb)
	assert.InDelta(t, 1, x[0], eps[T]())
	assert.InDelta(t, 2, x[1], eps[T]())
	// residual of an exact system
	assert.InDelta(t, 0, x[2], 10*eps[T]())
}

func TestGels(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGels[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGels[float64](t, layout) })
	}
}

func TestGelsRankDeficient(t *testing.T) {
	a := []float64{
		1, 0,
		2, 0,
		3, 0,
	}
	b := []float64{1, 2, 3}
	assert.Equal(t, 2, Gels(RowMajor, NoTrans, 3, 2, 1, a, 2, b, 1))
}

func TestGelsEmpty(t *testing.T) {
	b := []float32{1, 2, 3}
	assert.Zero(t, Gels(RowMajor, NoTrans, 3, 0, 1, []float32{}, 1, b, 1))
	assert.Equal(t, []float32{0, 0, 0}, b)
}

func testGeqrfOrmqr[T Float](t *testing.T, layout Layout) {
	data := []float64{
		12, -51,
		6, 167,
		-4, 24,
	}
	a, lda := pack[T](layout, 3, 2, data)
	tau := make([]T, 2)
	require.Zero(t, Geqrf(layout, 3, 2, a, lda, tau))
	qr := unpack(layout, 3, 2, a, lda)
	// |R(0,0)| equals the norm of the first column
	assert.InDelta(t, 14, math.Abs(qr[0]), 1e-3)
	r := []float64{
		qr[0], qr[1],
		0, qr[3],
		0, 0,
	}
	c, ldc := pack[T](layout, 3, 2, r)
	require.Zero(t, Ormqr(layout, Left, NoTrans, 3, 2, 2, a, lda, tau, c, ldc))
	assertMatrixNear(t, data, unpack(layout, 3, 2, c, ldc), 1e4*eps[T]())
}

func TestGeqrfOrmqr(t *testing.T) {
	for _, layout := range layouts {
		t.Run(fmt.Sprintf("float32/%v", layout), func(t *testing.T) { testGeqrfOrmqr[float32](t, layout) })
		t.Run(fmt.Sprintf("float64/%v", layout), func(t *testing.T) { testGeqrfOrmqr[float64](t, layout) })
	}
}

func TestIllegalArguments(t *testing.T) {
	a := make([]float64, 9)
	b := make([]float64, 3)
	s := make([]float64, 3)
	ipiv := make([]int32, 3)
	assert.Equal(t, -1, Getrf(Layout(0), 3, 3, a, 3, ipiv))
	assert.Equal(t, -5, Getrf(RowMajor, 3, 3, a, 2, ipiv))
	assert.Equal(t, -1, Gesvd(Layout(0), JobNone, JobNone, 3, 3, a, 3, s, nil, 1, nil, 1, s))
	assert.Equal(t, -7, Gels(RowMajor, NoTrans, 3, 3, 1, a, 2, b, 1))
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "RowMajor", RowMajor.String())
	assert.Equal(t, "ColMajor", ColMajor.String())
	assert.Equal(t, "Unknown", Layout(0).String())
}

func TestBackend(t *testing.T) {
	assert.Contains(t, []string{"gonum", "lapacke", "mkl"}, Backend())
}
