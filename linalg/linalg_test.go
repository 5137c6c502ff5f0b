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
	"testing"

	"github.com/gorse-io/linalg/common/cusolver"
	"github.com/juju/errors"
	"github.com/stretchr/testify/suite"
)

type LinalgTestSuite[T Float] struct {
	suite.Suite
	device Device
}

func (s *LinalgTestSuite[T]) tolerance() float64 {
	if precision[T]() == "float32" {
		return 1e-4
	}
	return 1e-10
}

func (s *LinalgTestSuite[T]) matrix(rows [][]T) *Matrix[T] {
	m, err := NewMatrixFromRows(rows)
	s.Require().NoError(err)
	m.Device = s.device
	return m
}

func (s *LinalgTestSuite[T]) assertClose(expected, actual *Matrix[T]) {
	s.Require().NotNil(actual)
	s.Equal(expected.Rows, actual.Rows)
	s.Equal(expected.Cols, actual.Cols)
	s.True(actual.AllClose(expected, s.tolerance(), s.tolerance()), "expected %v\nactual %v", expected, actual)
}

func (s *LinalgTestSuite[T]) mul(a, b *Matrix[T]) *Matrix[T] {
	c, err := a.Mul(b)
	s.Require().NoError(err)
	return c
}

func (s *LinalgTestSuite[T]) diag(v []T) *Matrix[T] {
	d := NewMatrix[T](len(v), len(v))
	for i, x := range v {
		d.Set(i, i, x)
	}
	return d
}

func (s *LinalgTestSuite[T]) wellConditioned() *Matrix[T] {
	return s.matrix([][]T{{4, 1, 2}, {1, 5, 3}, {2, 3, 6}})
}

func (s *LinalgTestSuite[T]) singular() *Matrix[T] {
	return s.matrix([][]T{{1, 2}, {2, 4}})
}

func (s *LinalgTestSuite[T]) TestInverse() {
	a := s.wellConditioned()
	inv, err := Inverse(context.Background(), a)
	s.NoError(err)
	s.Equal(s.device, inv.Device)
	s.assertClose(Identity[T](3), s.mul(a, inv))
	s.assertClose(Identity[T](3), s.mul(inv, a))
}

func (s *LinalgTestSuite[T]) TestInverseSingular() {
	_, err := Inverse(context.Background(), s.singular())
	s.ErrorIs(err, ErrSingular)
	var statusErr *StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal("getrf", statusErr.Routine)
	s.Equal(2, statusErr.Info)
}

func (s *LinalgTestSuite[T]) TestSolve() {
	a := s.wellConditioned()
	x := s.matrix([][]T{{1, -1}, {2, 0}, {-3, 1}})
	b := s.mul(a, x)
	solution, err := Solve(context.Background(), a, b)
	s.NoError(err)
	s.assertClose(x, solution)

	_, err = Solve(context.Background(), s.singular(), s.matrix([][]T{{1}, {2}}))
	s.ErrorIs(err, ErrSingular)
	_, err = Solve(context.Background(), a, s.matrix([][]T{{1}, {2}}))
	s.True(errors.IsNotValid(err))
}

func (s *LinalgTestSuite[T]) TestSVD() {
	for _, a := range []*Matrix[T]{
		s.matrix([][]T{{3, 2, 2}, {2, 3, -2}}),
		s.matrix([][]T{{3, 2}, {2, 3}, {2, -2}}),
	} {
		u, sv, vt, err := SVD(context.Background(), a)
		s.Require().NoError(err)
		s.InDelta(5, float64(sv[0]), s.tolerance()*10)
		s.InDelta(3, float64(sv[1]), s.tolerance()*10)
		s.Equal(a.Rows, u.Rows)
		s.Equal(2, u.Cols)
		s.Equal(2, vt.Rows)
		s.Equal(a.Cols, vt.Cols)
		s.assertClose(a, s.mul(s.mul(u, s.diag(sv)), vt))
		s.assertClose(Identity[T](2), s.mul(u.T(), u))
		s.assertClose(Identity[T](2), s.mul(vt, vt.T()))
	}
}

func (s *LinalgTestSuite[T]) TestLeastSquares() {
	a := s.matrix([][]T{{1, 1}, {1, 2}, {1, 3}})
	b := s.matrix([][]T{{1, 2}, {2, 4}, {2, 6}})
	x, err := LeastSquares(context.Background(), a, b)
	s.NoError(err)
	s.assertClose(s.matrix([][]T{{T(2) / 3, 0}, {0.5, 2}}), x)

	_, err = LeastSquares(context.Background(), s.matrix([][]T{{1, 0}, {1, 0}, {1, 0}}), b)
	s.ErrorIs(err, ErrRankDeficient)
	_, err = LeastSquares(context.Background(), a.T(), s.matrix([][]T{{1}, {2}}))
	s.True(errors.IsNotValid(err))
}

func (s *LinalgTestSuite[T]) TestQR() {
	for _, a := range []*Matrix[T]{
		s.matrix([][]T{{1, 1}, {1, 2}, {1, 3}}),
		s.matrix([][]T{{2, -1, 0}, {1, 3, 4}}),
		s.wellConditioned(),
	} {
		q, r, err := QR(context.Background(), a)
		s.Require().NoError(err)
		k := min(a.Rows, a.Cols)
		s.Equal(a.Rows, q.Rows)
		s.Equal(k, q.Cols)
		s.Equal(k, r.Rows)
		s.Equal(a.Cols, r.Cols)
		for i := 0; i < r.Rows; i++ {
			for j := 0; j < i; j++ {
				s.Zero(r.At(i, j))
			}
		}
		s.assertClose(a, s.mul(q, r))
		s.assertClose(Identity[T](k), s.mul(q.T(), q))
	}
}

func (s *LinalgTestSuite[T]) TestLU() {
	for _, a := range []*Matrix[T]{
		s.wellConditioned(),
		s.singular(),
		s.matrix([][]T{{1, 2}, {3, 4}, {5, 6}}),
		s.matrix([][]T{{0, 1, 2}, {3, 4, 5}}),
	} {
		p, l, u, err := LU(context.Background(), a)
		s.Require().NoError(err)
		s.assertClose(a, s.mul(s.mul(p, l), u))
		for i := 0; i < l.Rows && i < l.Cols; i++ {
			s.Equal(T(1), l.At(i, i))
			for j := i + 1; j < l.Cols; j++ {
				s.Zero(l.At(i, j))
			}
		}
		for i := 0; i < u.Rows; i++ {
			for j := 0; j < i; j++ {
				s.Zero(u.At(i, j))
			}
		}
	}
}

func (s *LinalgTestSuite[T]) TestDet() {
	det, err := Det(context.Background(), s.wellConditioned())
	s.NoError(err)
	s.InDelta(70, float64(det), s.tolerance()*100)
	det, err = Det(context.Background(), s.singular())
	s.NoError(err)
	s.Zero(det)
	det, err = Det(context.Background(), s.matrix([][]T{{0, 1}, {1, 0}}))
	s.NoError(err)
	s.InDelta(-1, float64(det), s.tolerance())
	_, err = Det(context.Background(), s.matrix([][]T{{1, 2}}))
	s.True(errors.IsNotValid(err))
}

func (s *LinalgTestSuite[T]) TestInverseBatch() {
	batch := []*Matrix[T]{
		s.wellConditioned(),
		s.matrix([][]T{{2}}),
		s.matrix([][]T{{0, 1}, {1, 0}}),
	}
	results, err := InverseBatch(context.Background(), batch, 2)
	s.NoError(err)
	s.Require().Len(results, 3)
	for i, a := range batch {
		s.assertClose(Identity[T](a.Rows), s.mul(a, results[i]))
	}

	batch = append(batch, s.singular())
	_, err = InverseBatch(context.Background(), batch, 2)
	s.ErrorIs(err, ErrSingular)
}

func (s *LinalgTestSuite[T]) TestSolveBatch() {
	a := s.wellConditioned()
	bs := []*Matrix[T]{
		s.matrix([][]T{{1}, {0}, {0}}),
		s.matrix([][]T{{0}, {1}, {0}}),
		s.matrix([][]T{{0}, {0}, {1}}),
	}
	results, err := SolveBatch(context.Background(), []*Matrix[T]{a, a, a}, bs, 3)
	s.NoError(err)
	for i, x := range results {
		s.assertClose(bs[i], s.mul(a, x))
	}
	_, err = SolveBatch(context.Background(), []*Matrix[T]{a}, bs, 3)
	s.True(errors.IsNotValid(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SolveBatch(ctx, []*Matrix[T]{a, a, a}, bs, 1)
	s.ErrorIs(err, context.Canceled)
}

func (s *LinalgTestSuite[T]) TestInvalidShape() {
	_, err := Inverse(context.Background(), s.matrix([][]T{{1, 2, 3}, {4, 5, 6}}))
	s.True(errors.IsNotValid(err))
	_, err = Inverse[T](context.Background(), nil)
	s.True(errors.IsNotValid(err))
	_, _, _, err = SVD(context.Background(), NewMatrix[T](0, 3))
	s.True(errors.IsNotValid(err))
	b := s.matrix([][]T{{1}, {2}, {3}})
	b.Device = Device(7)
	_, err = Solve(context.Background(), s.wellConditioned(), b)
	s.True(errors.IsNotValid(err))
}

func TestCPU(t *testing.T) {
	suite.Run(t, &LinalgTestSuite[float32]{device: CPU})
	suite.Run(t, &LinalgTestSuite[float64]{device: CPU})
}

func TestCUDA(t *testing.T) {
	if !cusolver.Available() {
		t.Skip("no CUDA device")
	}
	suite.Run(t, &LinalgTestSuite[float32]{device: CUDA})
	suite.Run(t, &LinalgTestSuite[float64]{device: CUDA})
}
