package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfigFromArgs(t *testing.T) {
	type cfg struct {
		Port int `env:"AETURNIS_ENTRYPOINT_TEST_PORT" envDefault:"9000"`
	}

	var c cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := ParseConfig(&c); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	fs.IntVar(&c.Port, "port", c.Port, "port")
	if err := ParseArgs(fs, []string{"-port", "9001"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if c.Port != 9001 {
		t.Fatalf("port = %d, want 9001", c.Port)
	}
}

func TestParseArgsNilFlagSet(t *testing.T) {
	t.Parallel()

	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	t.Parallel()

	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryRunsLoop(t *testing.T) {
	want := errors.New("loop done")
	err := RunWithTelemetry(context.Background(), "game", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
