package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/grpcserver"
	"jobmate/recruiter-service/internal/httpapi"
	"jobmate/recruiter-service/internal/logger"
	"jobmate/recruiter-service/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers and the digest scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("http-port", "", "HTTP listen port (default 8085)")
	serveCmd.Flags().String("grpc-port", "", "gRPC listen port (default 9085)")
	serveCmd.Flags().String("transition-policy", "", "job status policy: permissive or strict")

	v.BindPFlag("http-port", serveCmd.Flags().Lookup("http-port"))
	v.BindPFlag("grpc-port", serveCmd.Flags().Lookup("grpc-port"))
	v.BindPFlag("transition-policy", serveCmd.Flags().Lookup("transition-policy"))
}

func serve(parent context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, cfg, access.NewCapabilityAuthorizer(), log)
	if err != nil {
		return err
	}
	defer svc.Close()

	// ── HTTP server ──────────────────────────────────────────────────────────
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := httpapi.NewHandler(httpapi.Deps{
		Dashboard:   svc.dashboard,
		Lifecycle:   svc.controller,
		Corrections: svc.ledger,
		Spend:       svc.billing,
		Dismissals:  svc.dismissals,
		Auth:        access.NewCapabilityAuthorizer(),
		Log:         logger.Component(log, "http"),
	})
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpapi.NewRouter(h, version),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	gs := grpc.NewServer()
	grpcserver.NewServer(svc.dashboard, svc.controller, svc.ledger, svc.billing).Register(gs)

	// ── Digest scheduler ─────────────────────────────────────────────────────
	// The digest runs as the service itself, not as a Gateway caller.
	digestSvc := scheduler.New(
		digestAggregator(svc),
		svc.publisher,
		cfg.DigestSpec,
		cfg.Location(),
		logger.Component(log, "scheduler"),
	)
	if err := digestSvc.Start(ctx); err != nil {
		return err
	}
	defer digestSvc.Stop()

	errc := make(chan error, 2)
	go func() {
		log.Info("http listening", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		if err := gs.Serve(lis); err != nil {
			errc <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errc:
		log.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http shutdown", zap.Error(serr))
	}
	gs.GracefulStop()
	log.Info("stopped")
	return err
}
