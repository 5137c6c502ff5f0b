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
	"context"
	"math"
	"testing"

	"github.com/gorse-io/linalg/common/cusolver"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMatrix(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	rows, cols := m.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.False(t, m.IsSquare())
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, m.colMajor())
	assert.Equal(t, m, fromColMajor(2, 3, m.colMajor(), 2, CPU))
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, m.T().Data)
	assert.Equal(t, 6.0, m.MaxAbs())
	assert.Equal(t, "[[1 2 3]\n [4 5 6]]", m.String())

	c := m.To(CUDA)
	c.Set(0, 0, -7)
	assert.Equal(t, CUDA, c.Device)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, float64(7), c.MaxAbs())

	p, err := m.Mul(m.T())
	require.NoError(t, err)
	assert.Equal(t, []float64{14, 32, 32, 77}, p.Data)
	_, err = m.Mul(m)
	assert.True(t, errors.IsNotValid(err))

	_, err = NewMatrixFromRows([][]float32{{1, 2}, {3}})
	assert.True(t, errors.IsNotValid(err))
	_, err = NewMatrixFromSlice(2, 2, []float32{1, 2, 3})
	assert.True(t, errors.IsNotValid(err))
	assert.Equal(t, []float32{1, 0, 0, 1}, Identity[float32](2).Data)
}

func TestMulNonFinite(t *testing.T) {
	a, _ := NewMatrixFromRows([][]float64{{0, 1}, {1, 0}})
	b, _ := NewMatrixFromRows([][]float64{{math.Inf(1)}, {2}})
	c, err := a.Mul(b)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(c.Data[0]))
	assert.True(t, math.IsInf(c.Data[1], 1))
	assert.True(t, math.IsNaN(c.MaxAbs()))
}

func TestAllClose(t *testing.T) {
	a, _ := NewMatrixFromSlice(1, 2, []float32{1, 100})
	b, _ := NewMatrixFromSlice(1, 2, []float32{1.001, 100.1})
	assert.True(t, a.AllClose(b, 1e-2, 0))
	assert.False(t, a.AllClose(b, 1e-4, 0))
	assert.False(t, a.AllClose(NewMatrix[float32](2, 1), 1, 1))
}

func TestDevice(t *testing.T) {
	d, err := ParseDevice("CUDA")
	assert.NoError(t, err)
	assert.Equal(t, CUDA, d)
	d, err = ParseDevice("cpu")
	assert.NoError(t, err)
	assert.Equal(t, CPU, d)
	_, err = ParseDevice("tpu")
	assert.True(t, errors.IsNotValid(err))
	assert.Equal(t, "unknown", Device(5).String())
	assert.True(t, CPU.Available())
	assert.Equal(t, cusolver.Available(), CUDA.Available())
}

func TestCheckInfo(t *testing.T) {
	assert.NoError(t, checkInfo("getrf", 0))
	assert.True(t, errors.IsNotValid(checkInfo("gesvd", -4)))
	assert.ErrorIs(t, checkInfo("getri", 3), ErrSingular)
	assert.ErrorIs(t, checkInfo("gesvd", 1), ErrNotConverged)
	assert.ErrorIs(t, checkInfo("gels", 2), ErrRankDeficient)
	assert.EqualError(t, checkInfo("getrs", 1), "getrs: matrix is singular (info = 1)")
	assert.Error(t, checkInfo("ormqr", 1))
}

func TestSolveUpper(t *testing.T) {
	r := []float64{
		2, 1, -1,
		0, 3, 2,
		0, 0, 4,
	}
	b := []float64{
		1, 3,
		7, 8,
		8, 4,
	}
	solveUpper(3, 2, r, b)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 2, 2, 1}, b, 1e-12)

	r32 := []float32{2, 1, 0, 4}
	b32 := []float32{4, 8}
	solveUpper(2, 1, r32, b32)
	assert.InDeltaSlice(t, []float32{1, 2}, b32, 1e-6)
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)

	a, _ := NewMatrixFromRows([][]float64{{1, 2}, {2, 4}})
	_, err := Inverse(context.Background(), a)
	assert.ErrorIs(t, err, ErrSingular)
	_, err = Det(context.Background(), a)
	assert.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "Inverse", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Det", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestMetrics(t *testing.T) {
	counter := OperationTotalVec.WithLabelValues("QR", "cpu", "float32", "ok")
	before := testutil.ToFloat64(counter)
	a, _ := NewMatrixFromRows([][]float32{{1, 0}, {0, 1}})
	_, _, err := QR(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestCUDANotAvailable(t *testing.T) {
	if cusolver.Available() {
		t.Skip("CUDA device present")
	}
	a, _ := NewMatrixFromRows([][]float64{{1, 0}, {0, 1}})
	_, err := Inverse(context.Background(), a.To(CUDA))
	assert.Error(t, err)
	assert.Equal(t, cusolver.StatusNotSupported, errors.Cause(err))
}
