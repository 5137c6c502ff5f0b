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

package config

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const EnvPrefix = "GORSE_LINALG"

// Config is the configuration of gorse-linalg.
type Config struct {
	Linalg  LinalgConfig  `mapstructure:"linalg"`
	Bench   BenchConfig   `mapstructure:"bench"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// LinalgConfig is the configuration of decompositions and solvers.
type LinalgConfig struct {
	Device    string  `mapstructure:"device" validate:"oneof=cpu cuda"`
	Precision string  `mapstructure:"precision" validate:"oneof=float32 float64"`
	NumJobs   int     `mapstructure:"num_jobs" validate:"gt=0"`
	Tolerance float64 `mapstructure:"tolerance" validate:"gt=0"`
}

// BenchConfig is the configuration of the benchmark command.
type BenchConfig struct {
	Size       int           `mapstructure:"size" validate:"gt=0"`
	Count      int           `mapstructure:"count" validate:"gt=0"`
	Rate       int           `mapstructure:"rate" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Operations []string      `mapstructure:"operations" validate:"required,dive,oneof=lu det inv solve svd lstsq qr"`
	Seed       int64         `mapstructure:"seed"`
}

// TracingConfig is the configuration of OpenTelemetry tracing.
type TracingConfig struct {
	EnableTracing     bool    `mapstructure:"enable_tracing"`
	Exporter          string  `mapstructure:"exporter" validate:"oneof=zipkin otlp otlphttp"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	Sampler           string  `mapstructure:"sampler" validate:"oneof=always never ratio"`
	Ratio             float64 `mapstructure:"ratio" validate:"gte=0,lte=1"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Linalg: LinalgConfig{
			Device:    "cpu",
			Precision: "float64",
			NumJobs:   runtime.NumCPU(),
			Tolerance: 1e-6,
		},
		Bench: BenchConfig{
			Size:       64,
			Count:      100,
			Operations: []string{"lu", "inv", "svd", "qr"},
			Seed:       0,
		},
		Tracing: TracingConfig{
			Exporter: "otlp",
			Sampler:  "always",
			Ratio:    1,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [linalg]
	v.SetDefault("linalg.device", defaultConfig.Linalg.Device)
	v.SetDefault("linalg.precision", defaultConfig.Linalg.Precision)
	v.SetDefault("linalg.num_jobs", defaultConfig.Linalg.NumJobs)
	v.SetDefault("linalg.tolerance", defaultConfig.Linalg.Tolerance)
	// [bench]
	v.SetDefault("bench.size", defaultConfig.Bench.Size)
	v.SetDefault("bench.count", defaultConfig.Bench.Count)
	v.SetDefault("bench.rate", defaultConfig.Bench.Rate)
	v.SetDefault("bench.timeout", defaultConfig.Bench.Timeout)
	v.SetDefault("bench.operations", defaultConfig.Bench.Operations)
	v.SetDefault("bench.seed", defaultConfig.Bench.Seed)
	// [tracing]
	v.SetDefault("tracing.enable_tracing", defaultConfig.Tracing.EnableTracing)
	v.SetDefault("tracing.exporter", defaultConfig.Tracing.Exporter)
	v.SetDefault("tracing.collector_endpoint", defaultConfig.Tracing.CollectorEndpoint)
	v.SetDefault("tracing.sampler", defaultConfig.Tracing.Sampler)
	v.SetDefault("tracing.ratio", defaultConfig.Tracing.Ratio)
}

// LoadConfig loads configuration from a TOML file and GORSE_LINALG_* environment
// variables. Keys map to variables by replacing dots with underscores, e.g.
// GORSE_LINALG_LINALG_DEVICE overrides linalg.device. An empty path loads
// defaults and environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}

// TracerProvider is a trace.TracerProvider that flushes pending spans on Shutdown.
type TracerProvider interface {
	trace.TracerProvider
	Shutdown(ctx context.Context) error
}

type noopTracerProvider struct {
	noop.TracerProvider
}

func (noopTracerProvider) Shutdown(context.Context) error {
	return nil
}

func (config *TracingConfig) NewTracerProvider() (TracerProvider, error) {
	if !config.EnableTracing {
		return noopTracerProvider{noop.NewTracerProvider()}, nil
	}

	var exporter tracesdk.SpanExporter
	var err error
	switch config.Exporter {
	case "zipkin":
		exporter, err = zipkin.New(config.CollectorEndpoint)
	case "otlp":
		client := otlptracegrpc.NewClient(otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	case "otlphttp":
		client := otlptracehttp.NewClient(otlptracehttp.WithInsecure(), otlptracehttp.WithEndpoint(config.CollectorEndpoint))
		exporter, err = otlptrace.New(context.TODO(), client)
	default:
		return nil, errors.NotSupportedf("exporter %s", config.Exporter)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	var sampler tracesdk.Sampler
	switch config.Sampler {
	case "always":
		sampler = tracesdk.AlwaysSample()
	case "never":
		sampler = tracesdk.NeverSample()
	case "ratio":
		sampler = tracesdk.TraceIDRatioBased(config.Ratio)
	default:
		return nil, errors.NotSupportedf("sampler %s", config.Sampler)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithSampler(sampler),
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewSchemaless(attribute.String("service.name", "gorse-linalg"))),
	), nil
}
