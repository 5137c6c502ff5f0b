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
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorse-io/linalg/common/log"
	"github.com/gorse-io/linalg/common/parallel"
	"github.com/gorse-io/linalg/config"
	"github.com/gorse-io/linalg/linalg"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var benchCommand = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark decompositions and solvers on random matrices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		conf := globalConfig.Bench
		if flags.Changed("size") {
			conf.Size, _ = flags.GetInt("size")
		}
		if flags.Changed("count") {
			conf.Count, _ = flags.GetInt("count")
		}
		if flags.Changed("rate") {
			conf.Rate, _ = flags.GetInt("rate")
		}
		if flags.Changed("operations") {
			conf.Operations, _ = flags.GetStringSlice("operations")
		}
		if flags.Changed("seed") {
			conf.Seed, _ = flags.GetInt64("seed")
		}
		if err := (&config.Config{Linalg: globalConfig.Linalg, Bench: conf, Tracing: globalConfig.Tracing}).Validate(); err != nil {
			return errors.Trace(err)
		}
		if addr, _ := flags.GetString("metrics-addr"); addr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(addr, mux); err != nil {
					log.Logger().Error("failed to serve metrics", zap.Error(err))
				}
			}()
		}
		ctx := cmd.Context()
		if conf.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, conf.Timeout)
			defer cancel()
		}
		quiet, _ := flags.GetBool("quiet")
		var (
			results []benchResult
			err     error
		)
		if globalConfig.Linalg.Precision == "float32" {
			results, err = bench[float32](ctx, conf, quiet)
		} else {
			results, err = bench[float64](ctx, conf, quiet)
		}
		if err != nil {
			return errors.Trace(err)
		}
		return printBenchResults(cmd, results)
	},
}

type benchResult struct {
	Operation   string
	Count       int
	Mean        time.Duration
	P50         time.Duration
	P99         time.Duration
	MaxResidual float64
	Failures    int
}

// benchOperation runs one operation and returns the residual of its result.
type benchOperation[T linalg.Float] func(ctx context.Context, a, b *linalg.Matrix[T]) (float64, error)

func benchOperations[T linalg.Float]() map[string]benchOperation[T] {
	return map[string]benchOperation[T]{
		"lu": func(ctx context.Context, a, _ *linalg.Matrix[T]) (float64, error) {
			p, l, u, err := linalg.LU(ctx, a)
			if err != nil {
				return 0, err
			}
			return residual(a, p, l, u), nil
		},
		"det": func(ctx context.Context, a, _ *linalg.Matrix[T]) (float64, error) {
			_, err := linalg.Det(ctx, a)
			return 0, err
		},
		"inv": func(ctx context.Context, a, _ *linalg.Matrix[T]) (float64, error) {
			inv, err := linalg.Inverse(ctx, a)
			if err != nil {
				return 0, err
			}
			return residual(linalg.Identity[T](a.Rows), a, inv), nil
		},
		"solve": func(ctx context.Context, a, b *linalg.Matrix[T]) (float64, error) {
			x, err := linalg.Solve(ctx, a, b)
			if err != nil {
				return 0, err
			}
			return residual(b, a, x), nil
		},
		"svd": func(ctx context.Context, a, _ *linalg.Matrix[T]) (float64, error) {
			u, s, vt, err := linalg.SVD(ctx, a)
			if err != nil {
				return 0, err
			}
			us := u.Clone()
			for i := 0; i < us.Rows; i++ {
				for j := range s {
					us.Set(i, j, us.At(i, j)*s[j])
				}
			}
			return residual(a, us, vt), nil
		},
		"lstsq": func(ctx context.Context, a, b *linalg.Matrix[T]) (float64, error) {
			x, err := linalg.LeastSquares(ctx, a, b)
			if err != nil {
				return 0, err
			}
			return residual(b, a, x), nil
		},
		"qr": func(ctx context.Context, a, _ *linalg.Matrix[T]) (float64, error) {
			q, r, err := linalg.QR(ctx, a)
			if err != nil {
				return 0, err
			}
			return residual(a, q, r), nil
		},
	}
}

// residual returns max|expected - f1 f2 ... fn| / max(1, max|expected|).
func residual[T linalg.Float](expected *linalg.Matrix[T], factors ...*linalg.Matrix[T]) float64 {
	product := factors[0]
	for _, f := range factors[1:] {
		var err error
		if product, err = product.Mul(f); err != nil {
			return 0
		}
	}
	diff := product.Clone()
	for i := range diff.Data {
		diff.Data[i] -= expected.Data[i]
	}
	return float64(diff.MaxAbs()) / max(1, float64(expected.MaxAbs()))
}

// randomSystem creates a diagonally dominant n×n matrix and an n×1 right-hand side.
func randomSystem[T linalg.Float](rng *rand.Rand, n int) (*linalg.Matrix[T], *linalg.Matrix[T]) {
	a := linalg.NewMatrix[T](n, n)
	for i := range a.Data {
		a.Data[i] = T(rng.Float64()*2 - 1)
	}
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+T(n))
	}
	b := linalg.NewMatrix[T](n, 1)
	for i := range b.Data {
		b.Data[i] = T(rng.Float64()*2 - 1)
	}
	a.Device, b.Device = device, device
	return a, b
}

// randomSystems generates count systems on nJobs goroutines. System i only
// depends on seed + i.
func randomSystems[T linalg.Float](ctx context.Context, count, size int, seed int64, nJobs int) ([][2]*linalg.Matrix[T], error) {
	systems := make([][2]*linalg.Matrix[T], count)
	err := parallel.For(ctx, count, nJobs, func(i int) {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		systems[i][0], systems[i][1] = randomSystem[T](rng, size)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return systems, nil
}

func bench[T linalg.Float](ctx context.Context, conf config.BenchConfig, quiet bool) ([]benchResult, error) {
	runId := uuid.New().String()
	log.Logger().Info("start benchmark", zap.String("run_id", runId), zap.Stringer("device", device),
		zap.Int("size", conf.Size), zap.Int("count", conf.Count), zap.Strings("operations", conf.Operations))
	operations := benchOperations[T]()
	inputs, err := randomSystems[T](ctx, conf.Count, conf.Size, conf.Seed, globalConfig.Linalg.NumJobs)
	if err != nil {
		return nil, errors.Annotate(err, "generate random systems")
	}
	limiter := parallel.NewRateLimiter(conf.Rate)
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.Default(int64(len(conf.Operations)*conf.Count), "benchmark")
		defer bar.Finish()
	}

	results := make([]benchResult, 0, len(conf.Operations))
	for _, name := range conf.Operations {
		op, ok := operations[name]
		if !ok {
			return nil, errors.NotSupportedf("operation %s", name)
		}
		var (
			mu          sync.Mutex
			maxResidual float64
			failures    = atomic.NewInt32(0)
		)
		elapsed := make([]time.Duration, conf.Count)
		err := parallel.Parallel(ctx, conf.Count, globalConfig.Linalg.NumJobs, func(_, jobId int) error {
			limiter.Take(1)
			start := time.Now()
			r, err := op(ctx, inputs[jobId][0], inputs[jobId][1])
			elapsed[jobId] = time.Since(start)
			if err != nil {
				failures.Inc()
				log.Logger().Warn("benchmark operation failed", zap.String("run_id", runId),
					zap.String("operation", name), zap.Int("job", jobId), zap.Error(err))
			} else {
				// NaN residuals fail too
				if !(r <= globalConfig.Linalg.Tolerance*float64(conf.Size)) {
					failures.Inc()
				}
				mu.Lock()
				maxResidual = max(maxResidual, r)
				mu.Unlock()
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Annotatef(err, "benchmark %s", name)
		}
		slices.Sort(elapsed)
		result := benchResult{Operation: name, Count: conf.Count, MaxResidual: maxResidual, Failures: int(failures.Load())}
		result.Mean = lo.Sum(elapsed) / time.Duration(len(elapsed))
		result.P50 = elapsed[len(elapsed)/2]
		result.P99 = elapsed[min(len(elapsed)-1, len(elapsed)*99/100)]
		results = append(results, result)
		log.Logger().Info("finish benchmark", zap.String("run_id", runId), zap.String("operation", name),
			zap.Duration("mean", result.Mean), zap.Int("failures", result.Failures))
	}
	return results, nil
}

func printBenchResults(cmd *cobra.Command, results []benchResult) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"operation", "count", "mean", "p50", "p99", "max residual", "failures"})
	for _, r := range results {
		if err := table.Append([]string{
			r.Operation,
			fmt.Sprint(r.Count),
			r.Mean.String(),
			r.P50.String(),
			r.P99.String(),
			fmt.Sprintf("%.3g", r.MaxResidual),
			fmt.Sprint(r.Failures),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func init() {
	benchCommand.Flags().Int("size", 64, "size of random square matrices")
	benchCommand.Flags().Int("count", 100, "number of runs per operation")
	benchCommand.Flags().Int("rate", 0, "maximum number of runs per second (0 means unlimited)")
	benchCommand.Flags().StringSlice("operations", nil, "operations to benchmark (lu, det, inv, solve, svd, lstsq, qr)")
	benchCommand.Flags().Int64("seed", 0, "seed of random matrices")
	benchCommand.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address during the benchmark")
	benchCommand.Flags().BoolP("quiet", "q", false, "hide the progress bar")
}
