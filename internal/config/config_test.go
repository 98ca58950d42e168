package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_BasicCommand(t *testing.T) {
	args := []string{"stack-tracer", "--", "./a.out", "input.txt"}
	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Equal(t, "./a.out", cfg.Binary)
	assert.Equal(t, []string{"input.txt"}, cfg.Args)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.StripPrefix)
	assert.False(t, cfg.OTELExport)
}

func TestParseArgs_AllFlags(t *testing.T) {
	args := []string{"stack-tracer",
		"--strip-prefix", "/src/",
		"--format", "html",
		"-o", "report.html",
		"--target-stdout", "target.log",
		"--filter", `name startsWith "handle_"`,
		"--base-url", "https://example.com/src",
		"--otel",
		"--", "./a.out"}

	cfg, err := ParseArgs(args)
	require.NoError(t, err)
	assert.Equal(t, "/src/", cfg.StripPrefix)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, "report.html", cfg.Output)
	assert.Equal(t, "target.log", cfg.TargetStdout)
	assert.Equal(t, `name startsWith "handle_"`, cfg.Filter)
	assert.Equal(t, "https://example.com/src", cfg.BaseURL)
	assert.True(t, cfg.OTELExport)
	assert.Equal(t, "./a.out", cfg.Binary)
	assert.Empty(t, cfg.Args)
}

func TestParseArgs_MissingSeparator(t *testing.T) {
	_, err := ParseArgs([]string{"stack-tracer", "./a.out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usage:")
}

func TestParseArgs_MissingBinary(t *testing.T) {
	_, err := ParseArgs([]string{"stack-tracer", "--"})
	require.Error(t, err)
}

func TestParseArgs_UnknownFormat(t *testing.T) {
	_, err := ParseArgs([]string{"stack-tracer", "--format", "pdf", "--", "./a.out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestParseArgs_FlagNeedsValue(t *testing.T) {
	_, err := ParseArgs([]string{"stack-tracer", "--strip-prefix"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a value")
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	_, err := ParseArgs([]string{"stack-tracer", "--bogus", "--", "./a.out"})
	require.Error(t, err)
}

func TestFullCommand(t *testing.T) {
	cfg := &Config{Binary: "./a.out", Args: []string{"x", "y"}}
	assert.Equal(t, []string{"./a.out", "x", "y"}, cfg.FullCommand())
}

func TestParseToolConfig_Defaults(t *testing.T) {
	cfg, err := ParseToolConfig()
	require.NoError(t, err)
	assert.Equal(t, "gdb", cfg.GDB)
	assert.Equal(t, "nm", cfg.NM)
}

func TestParseToolConfig_Overrides(t *testing.T) {
	t.Setenv("STACK_TRACER_GDB", "/opt/gdb/bin/gdb")
	t.Setenv("STACK_TRACER_NM", "llvm-nm")

	cfg, err := ParseToolConfig()
	require.NoError(t, err)
	assert.Equal(t, "/opt/gdb/bin/gdb", cfg.GDB)
	assert.Equal(t, "llvm-nm", cfg.NM)
}

func TestOTELConfig_EndpointPriority(t *testing.T) {
	cfg := &OTELConfig{}
	assert.Equal(t, "localhost:4318", cfg.GetEndpoint())

	cfg.ExporterEndpoint = "collector:4318"
	assert.Equal(t, "collector:4318", cfg.GetEndpoint())

	cfg.TracesEndpoint = "traces:4318"
	assert.Equal(t, "traces:4318", cfg.GetEndpoint())
}

func TestOTELConfig_TargetAttributes(t *testing.T) {
	cfg := &OTELConfig{ResourceAttributes: "team=debug, region = eu , malformed"}
	attrs := cfg.TargetAttributes("./a.out", "./a.out input.txt")

	require.Len(t, attrs, 4)
	assert.Equal(t, "target.binary", string(attrs[0].Key))
	assert.Equal(t, "./a.out", attrs[0].Value.AsString())
	assert.Equal(t, "target.command", string(attrs[1].Key))
	assert.Equal(t, "./a.out input.txt", attrs[1].Value.AsString())
	assert.Equal(t, "team", string(attrs[2].Key))
	assert.Equal(t, "debug", attrs[2].Value.AsString())
	assert.Equal(t, "eu", attrs[3].Value.AsString())
}

func TestOTELConfig_TargetAttributesWithoutCustom(t *testing.T) {
	cfg := &OTELConfig{}
	attrs := cfg.TargetAttributes("./a.out", "./a.out")
	require.Len(t, attrs, 2)
}
