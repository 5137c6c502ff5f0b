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
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
)

// solveUpper overwrites the row-major n×k matrix b with R^-1 b, where r holds
// a row-major n×n upper triangular matrix with a non-zero diagonal.
func solveUpper[T Float](n, k int, r, b []T) {
	switch r := any(r).(type) {
	case []float32:
		blas32.Trsm(blas.Left, blas.NoTrans, 1,
			blas32.Triangular{Uplo: blas.Upper, Diag: blas.NonUnit, N: n, Stride: n, Data: r},
			blas32.General{Rows: n, Cols: k, Stride: k, Data: any(b).([]float32)})
	case []float64:
		blas64.Trsm(blas.Left, blas.NoTrans, 1,
			blas64.Triangular{Uplo: blas.Upper, Diag: blas.NonUnit, N: n, Stride: n, Data: r},
			blas64.General{Rows: n, Cols: k, Stride: k, Data: any(b).([]float64)})
	default:
		panic("linalg: unsupported element type")
	}
}
