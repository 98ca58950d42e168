package config

import (
	"fmt"
)

// Config holds the parsed command-line configuration
type Config struct {
	// Binary is the target executable to trace
	Binary string
	// Args are the arguments passed verbatim to the target at run time
	Args []string
	// StripPrefix is removed from reported source file paths when it
	// matches as a literal prefix
	StripPrefix string
	// Format selects the report renderer: text, html or dot
	Format string
	// Output is the report destination path; empty means stdout
	Output string
	// TargetStdout is where the target's own stdout is redirected;
	// empty means discarded
	TargetStdout string
	// Filter is an optional expr predicate over {name, addr} selecting
	// which function symbols get breakpoints
	Filter string
	// BaseURL, when set, is used by the HTML renderer to hyperlink
	// source files
	BaseURL string
	// OTELExport enables exporting assembled dumps as OTLP spans
	OTELExport bool
}

var formats = map[string]bool{"text": true, "html": true, "dot": true}

// ParseArgs parses command-line arguments and returns a Config.
// Expected format: program_name [flags] -- <binary> [args...]
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	programName := args[0]
	cfg := &Config{Format: "text"}

	// Find the "--" separator, consuming flags along the way
	cmdStart := -1
	for i := 1; i < len(args); i++ {
		if args[i] == "--" {
			cmdStart = i + 1
			break
		}

		takeValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", args[i])
			}
			i++
			return args[i], nil
		}

		var err error
		switch args[i] {
		case "--strip-prefix":
			cfg.StripPrefix, err = takeValue()
		case "--format":
			cfg.Format, err = takeValue()
		case "--output", "-o":
			cfg.Output, err = takeValue()
		case "--target-stdout":
			cfg.TargetStdout, err = takeValue()
		case "--filter":
			cfg.Filter, err = takeValue()
		case "--base-url":
			cfg.BaseURL, err = takeValue()
		case "--otel":
			cfg.OTELExport = true
		default:
			err = fmt.Errorf("unknown flag %q", args[i])
		}
		if err != nil {
			return nil, err
		}
	}

	if cmdStart == -1 || cmdStart >= len(args) {
		return nil, fmt.Errorf("Usage: %s [flags] -- <binary> [args...]\nExample: %s --format html -o report.html -- ./a.out input.txt",
			programName, programName)
	}

	if !formats[cfg.Format] {
		return nil, fmt.Errorf("unknown format %q (want text, html or dot)", cfg.Format)
	}

	cfg.Binary = args[cmdStart]
	cfg.Args = args[cmdStart+1:]
	return cfg, nil
}

// FullCommand returns the target binary and all its arguments as a slice
func (c *Config) FullCommand() []string {
	return append([]string{c.Binary}, c.Args...)
}
