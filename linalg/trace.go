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
	"time"

	"github.com/gorse-io/linalg/common/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/gorse-io/linalg"

// operation records a span, metrics and a debug log entry for one call.
type operation struct {
	name      string
	device    Device
	precision string
	start     time.Time
	span      trace.Span
}

func startOperation[T Float](ctx context.Context, name string, device Device, shapes ...*Matrix[T]) (context.Context, *operation) {
	attrs := []attribute.KeyValue{
		attribute.String(LabelDevice, device.String()),
		attribute.String(LabelPrecision, precision[T]()),
	}
	for i, m := range shapes {
		attrs = append(attrs, attribute.IntSlice(operandKey(i), []int{m.Rows, m.Cols}))
	}
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &operation{
		name:      name,
		device:    device,
		precision: precision[T](),
		start:     time.Now(),
		span:      span,
	}
}

func operandKey(i int) string {
	return string(rune('a'+i)) + ".shape"
}

func (op *operation) end(err error) {
	elapsed := time.Since(op.start)
	OperationTotalVec.WithLabelValues(op.name, op.device.String(), op.precision, statusLabel(err)).Inc()
	OperationSecondsVec.WithLabelValues(op.name, op.device.String(), op.precision).Observe(elapsed.Seconds())
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		log.Logger().Debug("linalg operation failed", zap.String("operation", op.name),
			zap.Stringer("device", op.device), zap.Error(err))
	} else {
		log.Logger().Debug("linalg operation", zap.String("operation", op.name),
			zap.Stringer("device", op.device), zap.String("precision", op.precision), zap.Duration("elapsed", elapsed))
	}
	op.span.End()
}
