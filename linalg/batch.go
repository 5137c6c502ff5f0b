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

	"github.com/gorse-io/linalg/common/parallel"
	"github.com/juju/errors"
)

// InverseBatch inverts independent matrices on nWorkers goroutines. Results
// keep the order of the batch. The first failure cancels the remaining work.
func InverseBatch[T Float](ctx context.Context, batch []*Matrix[T], nWorkers int) ([]*Matrix[T], error) {
	BatchSizeVec.WithLabelValues("Inverse").Observe(float64(len(batch)))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := make([]*Matrix[T], len(batch))
	err := parallel.Parallel(ctx, len(batch), nWorkers, func(_, jobId int) error {
		inv, err := Inverse(ctx, batch[jobId])
		if err != nil {
			cancel()
			return errors.Annotatef(err, "matrix %d", jobId)
		}
		results[jobId] = inv
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}

// SolveBatch solves as[i] X = bs[i] for every i on nWorkers goroutines.
func SolveBatch[T Float](ctx context.Context, as, bs []*Matrix[T], nWorkers int) ([]*Matrix[T], error) {
	if len(as) != len(bs) {
		return nil, errors.NotValidf("%d matrices with %d right-hand sides", len(as), len(bs))
	}
	BatchSizeVec.WithLabelValues("Solve").Observe(float64(len(as)))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := make([]*Matrix[T], len(as))
	err := parallel.Parallel(ctx, len(as), nWorkers, func(_, jobId int) error {
		x, err := Solve(ctx, as[jobId], bs[jobId])
		if err != nil {
			cancel()
			return errors.Annotatef(err, "system %d", jobId)
		}
		results[jobId] = x
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return results, nil
}
