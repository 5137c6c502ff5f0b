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

package main

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/linalg/common/lapack"
	"github.com/gorse-io/linalg/linalg"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, command string, args ...string) (string, error) {
	buf := bytes.NewBuffer(nil)
	rootCommand.SetOut(buf)
	rootCommand.SetArgs(append([]string{command, "--device", "cpu", "--precision", "float64"}, args...))
	err := rootCommand.Execute()
	return buf.String(), err
}

func writeMatrix(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestReadMatrix(t *testing.T) {
	m, err := readMatrix[float32](strings.NewReader("# A\n1, 2\n3,4\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, []float32{1, 2, 3, 4}, m.Data)

	_, err = readMatrix[float64](strings.NewReader("1,2\n3,x\n"))
	assert.ErrorContains(t, err, "line 2 column 2")
	_, err = readMatrix[float64](strings.NewReader("1,2\n3\n"))
	assert.True(t, errors.IsNotValid(err))
}

func TestLoadMatrixStdin(t *testing.T) {
	m, err := loadMatrix[float64]("-", strings.NewReader("5,6\n"), linalg.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, m.Data)
	_, err = loadMatrix[float64](filepath.Join(t.TempDir(), "missing.csv"), nil, linalg.CPU)
	assert.Error(t, err)
}

func TestPrintMatrix(t *testing.T) {
	m, _ := linalg.NewMatrixFromRows([][]float64{{1.5, -2}, {0, 4}})
	buf := bytes.NewBuffer(nil)
	require.NoError(t, printMatrix(buf, "A", m))
	assert.Contains(t, buf.String(), "A (2×2)")
	assert.Contains(t, buf.String(), "1.5")
	assert.Contains(t, buf.String(), "-2")
}

func TestDet(t *testing.T) {
	out, err := execute(t, "det", writeMatrix(t, "4,7\n2,6\n"))
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	out, err = execute(t, "det", writeMatrix(t, "4,7\n2,6\n"), "--precision", "float32")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestInverse(t *testing.T) {
	out, err := execute(t, "inv", writeMatrix(t, "2,0\n0,4\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "inverse (2×2)")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "0.25")

	_, err = execute(t, "inv", writeMatrix(t, "1,2\n2,4\n"))
	assert.ErrorIs(t, err, linalg.ErrSingular)
}

func TestSolve(t *testing.T) {
	out, err := execute(t, "solve", writeMatrix(t, "2,0\n0,4\n"), writeMatrix(t, "2\n8\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "X (2×1)")
	_, err = execute(t, "solve", writeMatrix(t, "2,0\n0,4\n"))
	assert.Error(t, err)
}

func TestDecompositions(t *testing.T) {
	path := writeMatrix(t, "1,1\n1,2\n1,3\n")
	out, err := execute(t, "qr", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Q (3×2)")
	assert.Contains(t, out, "R (2×2)")

	out, err = execute(t, "lu", path)
	require.NoError(t, err)
	assert.Contains(t, out, "P (3×3)")
	assert.Contains(t, out, "L (3×2)")
	assert.Contains(t, out, "U (2×2)")

	out, err = execute(t, "svd", path, "--values")
	require.NoError(t, err)
	assert.Contains(t, out, "S (1×2)")
	assert.NotContains(t, out, "VT")

	out, err = execute(t, "lstsq", path, writeMatrix(t, "1\n2\n2\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "X (2×1)")
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, "det", writeMatrix(t, "1\n"), "--device", "tpu")
	assert.True(t, errors.IsNotValid(err))
	_, err = execute(t, "det", writeMatrix(t, "1\n"), "--precision", "float16")
	assert.True(t, errors.IsNotValid(err))
}

func TestVersionAndInfo(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")

	out, err = execute(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, lapack.Backend())
	assert.Contains(t, out, "float64")
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--size", "8", "--count", "4", "--operations", "lu,inv,svd,lstsq", "-q", "--jobs", "2")
	require.NoError(t, err)
	for _, op := range []string{"lu", "inv", "svd", "lstsq"} {
		assert.Contains(t, out, op)
	}

	_, err = execute(t, "bench", "--operations", "eig", "-q")
	assert.True(t, errors.IsNotValid(err))
}

func TestResidual(t *testing.T) {
	a, _ := linalg.NewMatrixFromRows([][]float64{{2, 0}, {0, 4}})
	inv, _ := linalg.NewMatrixFromRows([][]float64{{0.5, 0}, {0, 0.25}})
	assert.Zero(t, residual(linalg.Identity[float64](2), a, inv))
	// a non-finite factor is not hidden by zero entries
	inv.Data[1] = math.Inf(1)
	assert.True(t, math.IsNaN(residual(linalg.Identity[float64](2), a, inv)))
}

func TestRandomSystems(t *testing.T) {
	serial, err := randomSystems[float64](context.Background(), 5, 4, 42, 1)
	require.NoError(t, err)
	concurrent, err := randomSystems[float64](context.Background(), 5, 4, 42, 3)
	require.NoError(t, err)
	require.Len(t, concurrent, 5)
	for i := range serial {
		assert.Equal(t, serial[i][0].Data, concurrent[i][0].Data)
		assert.Equal(t, serial[i][1].Data, concurrent[i][1].Data)
	}
	assert.NotEqual(t, serial[0][0].Data, serial[1][0].Data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = randomSystems[float64](ctx, 5, 4, 42, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTracingExportedOnExit(t *testing.T) {
	bodies := make(chan string, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`[tracing]
enable_tracing = true
exporter = "zipkin"
collector_endpoint = "`+server.URL+`"
sampler = "always"
`), 0644))
	t.Cleanup(func() {
		_ = rootCommand.PersistentFlags().Set("config", "")
	})

	_, err := execute(t, "det", writeMatrix(t, "4,7\n2,6\n"), "--config", configPath)
	require.NoError(t, err)
	assert.Nil(t, tracerProvider)
	require.Len(t, bodies, 1)
	assert.Contains(t, strings.ToLower(<-bodies), "det")

	// failed commands are flushed by shutdownTracing
	_, err = execute(t, "inv", writeMatrix(t, "1,2\n2,4\n"), "--config", configPath)
	assert.ErrorIs(t, err, linalg.ErrSingular)
	assert.NotNil(t, tracerProvider)
	require.NoError(t, shutdownTracing(t.Context()))
	require.Len(t, bodies, 1)
	assert.Contains(t, strings.ToLower(<-bodies), "inverse")
}
