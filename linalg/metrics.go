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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelOperation = "operation"
	LabelDevice    = "device"
	LabelPrecision = "precision"
	LabelStatus    = "status"
)

var (
	OperationTotalVec = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gorse",
		Subsystem: "linalg",
		Name:      "operation_total",
	}, []string{LabelOperation, LabelDevice, LabelPrecision, LabelStatus})
	OperationSecondsVec = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gorse",
		Subsystem: "linalg",
		Name:      "operation_seconds",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{LabelOperation, LabelDevice, LabelPrecision})
	BatchSizeVec = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gorse",
		Subsystem: "linalg",
		Name:      "batch_size",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{LabelOperation})
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
