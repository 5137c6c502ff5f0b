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

	"github.com/gorse-io/linalg/cmd/version"
	"github.com/gorse-io/linalg/common/log"
	"github.com/gorse-io/linalg/config"
	"github.com/gorse-io/linalg/linalg"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var (
	globalConfig   *config.Config
	device         linalg.Device
	tracerProvider config.TracerProvider
)

var rootCommand = &cobra.Command{
	Use:           "gorse-linalg",
	Short:         "Dense matrix decompositions and solvers on LAPACK and cuSOLVER.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		// setup logger
		debug, _ := flags.GetBool("debug")
		log.SetLogger(flags, debug)
		// load config
		configPath, _ := flags.GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			return errors.Trace(err)
		}
		if flags.Changed("device") {
			conf.Linalg.Device, _ = flags.GetString("device")
		}
		if flags.Changed("precision") {
			conf.Linalg.Precision, _ = flags.GetString("precision")
		}
		if flags.Changed("jobs") {
			conf.Linalg.NumJobs, _ = flags.GetInt("jobs")
		}
		if err = conf.Validate(); err != nil {
			return errors.Trace(err)
		}
		if device, err = linalg.ParseDevice(conf.Linalg.Device); err != nil {
			return errors.Trace(err)
		}
		if !device.Available() {
			return errors.NotSupportedf("device %v in this build or machine", device)
		}
		globalConfig = conf
		// setup tracing
		if err = shutdownTracing(cmd.Context()); err != nil {
			return errors.Trace(err)
		}
		if tracerProvider, err = conf.Tracing.NewTracerProvider(); err != nil {
			return errors.Trace(err)
		}
		otel.SetTracerProvider(tracerProvider)
		otel.SetErrorHandler(log.GetErrorHandler())
		log.Logger().Debug("load config", zap.String("config", configPath), zap.Any("linalg", conf.Linalg))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdownTracing(cmd.Context())
	},
}

// shutdownTracing exports batched spans and stops the tracer provider.
func shutdownTracing(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	return errors.Trace(err)
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
	},
}

func newMatrixCommand(use, short string, nArgs int, fn32, fn64 func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if globalConfig.Linalg.Precision == "float32" {
				return fn32(cmd, args)
			}
			return fn64(cmd, args)
		},
	}
}

func luCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	p, l, u, err := linalg.LU(ctx, a)
	if err != nil {
		return errors.Trace(err)
	}
	for _, factor := range []struct {
		name string
		m    *linalg.Matrix[T]
	}{{"P", p}, {"L", l}, {"U", u}} {
		if err = printMatrix(w, factor.name, factor.m); err != nil {
			return err
		}
	}
	return nil
}

func detCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	det, err := linalg.Det(ctx, a)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = fmt.Fprintln(w, det)
	return errors.Trace(err)
}

func inverseCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	inv, err := linalg.Inverse(ctx, a)
	if err != nil {
		return errors.Trace(err)
	}
	return printMatrix(w, "inverse", inv)
}

func solveCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	b, err := loadMatrix[T](args[1], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	x, err := linalg.Solve(ctx, a, b)
	if err != nil {
		return errors.Trace(err)
	}
	return printMatrix(w, "X", x)
}

func svdCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	u, s, vt, err := linalg.SVD(ctx, a)
	if err != nil {
		return errors.Trace(err)
	}
	if valuesOnly, _ := cmd.Flags().GetBool("values"); valuesOnly {
		return printVector(w, "S", s)
	}
	if err = printMatrix(w, "U", u); err != nil {
		return err
	}
	if err = printVector(w, "S", s); err != nil {
		return err
	}
	return printMatrix(w, "VT", vt)
}

func leastSquaresCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	b, err := loadMatrix[T](args[1], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	x, err := linalg.LeastSquares(ctx, a, b)
	if err != nil {
		return errors.Trace(err)
	}
	return printMatrix(w, "X", x)
}

func qrCommand[T linalg.Float](cmd *cobra.Command, args []string) error {
	ctx, w := cmd.Context(), cmd.OutOrStdout()
	a, err := loadMatrix[T](args[0], cmd.InOrStdin(), device)
	if err != nil {
		return err
	}
	q, r, err := linalg.QR(ctx, a)
	if err != nil {
		return errors.Trace(err)
	}
	if err = printMatrix(w, "Q", q); err != nil {
		return err
	}
	return printMatrix(w, "R", r)
}

func init() {
	svd := newMatrixCommand("svd FILE", "Singular value decomposition A = U diag(S) VT", 1, svdCommand[float32], svdCommand[float64])
	svd.Flags().Bool("values", false, "print singular values only")
	rootCommand.AddCommand(
		newMatrixCommand("lu FILE", "LU decomposition A = P L U", 1, luCommand[float32], luCommand[float64]),
		newMatrixCommand("det FILE", "Determinant of a square matrix", 1, detCommand[float32], detCommand[float64]),
		newMatrixCommand("inv FILE", "Inverse of a square matrix", 1, inverseCommand[float32], inverseCommand[float64]),
		newMatrixCommand("solve A B", "Solve A X = B for square A", 2, solveCommand[float32], solveCommand[float64]),
		svd,
		newMatrixCommand("lstsq A B", "Least squares solution of A X = B", 2, leastSquaresCommand[float32], leastSquaresCommand[float64]),
		newMatrixCommand("qr FILE", "QR decomposition A = Q R", 1, qrCommand[float32], qrCommand[float64]),
		benchCommand,
		infoCommand,
		versionCommand,
	)
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().StringP("device", "d", "cpu", "device to run on (cpu or cuda)")
	rootCommand.PersistentFlags().StringP("precision", "p", "float64", "element type (float32 or float64)")
	rootCommand.PersistentFlags().IntP("jobs", "j", 1, "number of workers for batched operations")
}

func main() {
	err := rootCommand.Execute()
	// commands that fail skip PersistentPostRunE
	if shutdownErr := shutdownTracing(context.Background()); shutdownErr != nil {
		log.Logger().Error("failed to export traces", zap.Error(shutdownErr))
	}
	if err != nil {
		log.Logger().Fatal("failed to run gorse-linalg", zap.Error(err))
	}
}
