package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goPresale/internal/config"
	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/LeJamon/goPresale/internal/core/tx"
	_ "github.com/LeJamon/goPresale/internal/core/tx/all"
	"github.com/LeJamon/goPresale/internal/custody"
	presalegrpc "github.com/LeJamon/goPresale/internal/grpc"
	"github.com/LeJamon/goPresale/internal/log"
	"github.com/LeJamon/goPresale/internal/metrics"
	"github.com/LeJamon/goPresale/internal/server/api/jsonrpc"
	"github.com/LeJamon/goPresale/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful HTTP shutdown
const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the presale daemon",
	Long: `Start the presaled server which provides:
- HTTP JSON-RPC 2.0 API
- gRPC presale service (when enabled)
- Prometheus metrics endpoint
- Health check endpoint

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}
}

// node holds everything an opened ledger needs to be served or inspected
type node struct {
	log     *logrus.Logger
	service *service.Service
	closer  func()
}

// openNode opens storage and builds the engine described by cfg. observer
// may be nil.
func openNode(ctx context.Context, cfg *config.Config, observer tx.Observer) (*node, error) {
	logger, logCloser, err := log.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.Storage.Options())
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	store, err := ledger.NewStore(db, cfg.Storage.SaleCache)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	clock := tx.SystemClock{}
	engine := tx.NewEngine(store, custody.NewMemoryLedger(logger), clock, tx.EngineConfig{
		Limits:   cfg.Engine.Limits(),
		Logger:   logger,
		Observer: observer,
	})

	return &node{
		log:     logger,
		service: service.New(engine, clock, logger),
		closer: func() {
			if err := db.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close storage")
			}
			_ = logCloser.Close()
		},
	}, nil
}

func (n *node) Close() {
	n.closer()
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	n, err := openNode(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer n.Close()

	mux := http.NewServeMux()
	rpcServer := jsonrpc.NewServer(n.service, n.log, jsonrpc.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      Version,
		Backend:      cfg.Storage.Backend,
	})
	mux.Handle("/", rpcServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"presaled"}`))
	})
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddress(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Starting presaled")
		fmt.Fprintln(cmd.OutOrStdout(), "=================")
		fmt.Fprintf(cmd.OutOrStdout(), "  - Storage:        %s\n", cfg.Storage.Backend)
		fmt.Fprintf(cmd.OutOrStdout(), "  - HTTP JSON-RPC:  http://%s/\n", httpServer.Addr)
		if cfg.Metrics.Enabled {
			fmt.Fprintf(cmd.OutOrStdout(), "  - Metrics:        http://%s%s\n", httpServer.Addr, cfg.Metrics.Path)
		}
		if cfg.GRPC.Enabled {
			fmt.Fprintf(cmd.OutOrStdout(), "  - gRPC:           %s\n", cfg.GRPC.Address)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n.log.WithField("address", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Enabled {
		grpcServer, err := presalegrpc.NewServer(presalegrpc.ServerConfigFrom(cfg.GRPC), n.service, n.log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := grpcServer.Start(); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.Stop()
			return nil
		})
	}

	err = g.Wait()
	n.log.Info("Server stopped")
	return err
}
