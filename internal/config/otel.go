package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
)

// OTELConfig holds the trace-export settings, read from the standard
// OTEL environment variables. Export is off unless --otel is given on
// the command line; these only shape where the spans go.
type OTELConfig struct {
	ServiceName        string `env:"OTEL_SERVICE_NAME" envDefault:"stack-tracer"`
	ResourceAttributes string `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:""`
	ExporterEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	TracesEndpoint     string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" envDefault:""`
}

// ParseOTELConfig parses the export settings from the environment.
func ParseOTELConfig() (*OTELConfig, error) {
	var cfg OTELConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}
	return &cfg, nil
}

// GetEndpoint returns the collector endpoint for traces. The
// traces-specific variable wins over the generic one; with neither set,
// a collector on localhost is assumed.
func (c *OTELConfig) GetEndpoint() string {
	if c.TracesEndpoint != "" {
		return c.TracesEndpoint
	}
	if c.ExporterEndpoint != "" {
		return c.ExporterEndpoint
	}
	return "localhost:4318"
}

// TargetAttributes returns the resource attributes describing one traced
// run: the target binary and the full command under trace, followed by
// any custom attributes from OTEL_RESOURCE_ATTRIBUTES
// (key1=value1,key2=value2; malformed pairs are skipped).
func (c *OTELConfig) TargetAttributes(binary, command string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("target.binary", binary),
		attribute.String("target.command", command),
	}
	for _, pair := range strings.Split(c.ResourceAttributes, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}
		attrs = append(attrs, attribute.String(key, strings.TrimSpace(kv[1])))
	}
	return attrs
}
