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
	"fmt"
	"runtime"
	"strings"

	"github.com/gorse-io/linalg/cmd/version"
	"github.com/gorse-io/linalg/common/cusolver"
	"github.com/gorse-io/linalg/common/lapack"
	"github.com/juju/errors"
	"github.com/klauspost/cpuid/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var infoFeatures = []cpuid.FeatureID{cpuid.SSE4, cpuid.AVX, cpuid.AVX2, cpuid.FMA3, cpuid.AVX512F, cpuid.ASIMD}

var infoCommand = &cobra.Command{
	Use:   "info",
	Short: "Show backends and hardware",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		features := lo.FilterMap(infoFeatures, func(f cpuid.FeatureID, _ int) (string, bool) {
			return f.String(), cpuid.CPU.Supports(f)
		})
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"item", "value"})
		for _, row := range [][]string{
			{"version", version.Version},
			{"lapack", lapack.Backend()},
			{"cuda", fmt.Sprint(cusolver.Available())},
			{"device", device.String()},
			{"precision", globalConfig.Linalg.Precision},
			{"jobs", fmt.Sprint(globalConfig.Linalg.NumJobs)},
			{"cpu", strings.TrimSpace(cpuid.CPU.BrandName)},
			{"cores", fmt.Sprintf("%d physical, %d logical", cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)},
			{"features", strings.Join(features, " ")},
			{"os/arch", runtime.GOOS + "/" + runtime.GOARCH},
		} {
			if err := table.Append(row); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}
