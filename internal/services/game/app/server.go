// Package server hosts the Aeturnis Online game server: the JSON API
// listener and the gRPC health listener used for readiness probes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/aeturnis/aeturnis-online/internal/platform/timeouts"
	httpapi "github.com/aeturnis/aeturnis-online/internal/services/game/api/http"
	"github.com/aeturnis/aeturnis-online/internal/services/game/auth"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/combat"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pvp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
	storagesqlite "github.com/aeturnis/aeturnis-online/internal/services/game/storage/sqlite"
	"github.com/aeturnis/aeturnis-online/internal/services/game/tuning"
)

// HealthServiceName is the name readiness probes check against the health
// listener.
const HealthServiceName = "game"

// Config defines the inputs for the game server.
type Config struct {
	// Addr is the JSON API listen address.
	Addr string
	// HealthAddr is the gRPC health listen address.
	HealthAddr string
	// DBPath locates the SQLite database file.
	DBPath string
	// TuningPath locates the Lua tuning script. Empty loads the embedded
	// defaults.
	TuningPath string
}

// Server hosts the game HTTP API and health listeners.
type Server struct {
	httpListener   net.Listener
	healthListener net.Listener
	httpServer     *http.Server
	grpcServer     *grpc.Server
	health         *health.Server
	store          storage.Store
}

// New creates a configured game server.
func New(cfg Config) (*Server, error) {
	balance, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return nil, err
	}
	authConfig, err := auth.LoadConfigFromEnv(nil)
	if err != nil {
		return nil, err
	}

	store, err := openGameStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	emitter := event.NewEmitter(store)
	pvpService := pvp.NewService(store, emitter, balance.PK, balance.Penalty, balance.Curve, log.Default())
	combatService := combat.NewService(store, emitter, balance.Penalty, balance.Curve, log.Default())
	handler := httpapi.NewHandler(pvpService, combatService, store, authConfig, log.Default())

	httpListener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	healthListener, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HealthAddr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener:   httpListener,
		healthListener: healthListener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// Addr returns the JSON API listener address.
func (s *Server) Addr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// HealthAddr returns the health listener address.
func (s *Server) HealthAddr() string {
	if s == nil || s.healthListener == nil {
		return ""
	}
	return s.healthListener.Addr().String()
}

// Run creates and serves a game server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts both listeners and blocks until one fails or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	log.Printf("game API listening at %v", s.httpListener.Addr())
	log.Printf("game health listening at %v", s.healthListener.Addr())

	serveErr := make(chan error, 2)
	go func() {
		err := s.httpServer.Serve(s.httpListener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()
	go func() {
		err := s.grpcServer.Serve(s.healthListener)
		if errors.Is(err, grpc.ErrServerStopped) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case <-ctx.Done():
		s.shutdown()
		<-serveErr
		<-serveErr
		return nil
	case err := <-serveErr:
		s.shutdown()
		<-serveErr
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

func (s *Server) shutdown() {
	if s.health != nil {
		s.health.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown http server: %v", err)
	}
	s.grpcServer.GracefulStop()
}

func openGameStore(path string) (storage.Store, error) {
	if path == "" {
		path = filepath.Join("data", "game.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := storagesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
