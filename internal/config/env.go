package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ToolConfig holds the external tool locations from environment variables
type ToolConfig struct {
	// GDB is the debugger executable name or path
	GDB string `env:"STACK_TRACER_GDB" envDefault:"gdb"`
	// NM is the symbol extractor executable name or path
	NM string `env:"STACK_TRACER_NM" envDefault:"nm"`
}

// ParseToolConfig parses external tool configuration from environment variables
func ParseToolConfig() (*ToolConfig, error) {
	var cfg ToolConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tool config: %w", err)
	}
	return &cfg, nil
}
