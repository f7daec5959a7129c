// Package game parses game command flags and starts the game server.
package game

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/aeturnis/aeturnis-online/internal/platform/cmd"
	platformgrpc "github.com/aeturnis/aeturnis-online/internal/platform/grpc"
	"github.com/aeturnis/aeturnis-online/internal/platform/timeouts"
	server "github.com/aeturnis/aeturnis-online/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port       int    `env:"AETURNIS_GAME_PORT" envDefault:"8080"`
	Addr       string `env:"AETURNIS_GAME_ADDR"`
	HealthPort int    `env:"AETURNIS_GAME_HEALTH_PORT" envDefault:"8081"`
	HealthAddr string `env:"AETURNIS_GAME_HEALTH_ADDR"`
	DBPath     string `env:"AETURNIS_GAME_DB_PATH"`
	TuningPath string `env:"AETURNIS_GAME_TUNING_PATH"`
	Check      bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game API port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game API listen address (overrides -port)")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The gRPC health port")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "The gRPC health listen address (overrides -health-port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "The Lua tuning script path (empty uses embedded defaults)")
	fs.BoolVar(&cfg.Check, "check", false, "Probe the health listener and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server, or probes it when -check is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Check {
		return runCheck(ctx, cfg)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:       listenAddr(cfg.Addr, cfg.Port),
			HealthAddr: listenAddr(cfg.HealthAddr, cfg.HealthPort),
			DBPath:     cfg.DBPath,
			TuningPath: cfg.TuningPath,
		})
	})
}

// runCheck dials the health listener and reports readiness through the exit
// code.
func runCheck(ctx context.Context, cfg Config) error {
	addr := cfg.HealthAddr
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", cfg.HealthPort)
	}
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, timeouts.GRPCDial, log.Printf, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		return fmt.Errorf("health check %s: %w", addr, err)
	}
	defer conn.Close()
	log.Printf("game server at %s is serving", addr)
	return nil
}

func listenAddr(addr string, port int) string {
	if addr != "" {
		return addr
	}
	return fmt.Sprintf(":%d", port)
}
