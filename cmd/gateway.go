// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/LeeDigitalWorks/filegate/pkg/debug"
	"github.com/LeeDigitalWorks/filegate/pkg/env"
	"github.com/LeeDigitalWorks/filegate/pkg/gateway"
	"github.com/LeeDigitalWorks/filegate/pkg/logger"
	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"
	"github.com/LeeDigitalWorks/filegate/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GatewayOpts holds all configuration for the gateway
type GatewayOpts struct {
	// Network binding
	BindAddr  string // Interface to listen on (e.g., "0.0.0.0")
	HTTPPort  int    // Public HTTP port
	DebugPort int    // Metrics/pprof port

	Store objectstore.Config

	CORSAllowedOrigins []string
	MaxMultipartMemory int64

	LogLevel        string
	ShutdownTimeout time.Duration
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the HTTP gateway",
	Long: `Start the FileGate HTTP gateway. Every request is translated into a
single call against the configured bucket.`,
	Run: runGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
	addGatewayFlags(gatewayCmd)
}

func addGatewayFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	// Network binding
	f.String("bind_addr", "0.0.0.0", "Interface to bind the HTTP and debug servers to")
	f.Int("http_port", 8080, "Public HTTP port. Env: HTTP_PORT or PORT")
	f.Int("debug_port", 8090, "Debug/metrics HTTP port")

	// Object store
	f.String("store_type", string(objectstore.StoreTypeS3), "Object store driver: "+strings.Join(objectstore.Types(), ", "))
	f.String("s3_endpoint", "", "Object store endpoint URL (empty uses AWS)")
	f.String("s3_region", "eu-central-1", "Object store region")
	f.String("s3_bucket_name", "", "Bucket served by the gateway. Required except for the memory store.")
	f.Bool("s3_force_path_style", true, "Use path-style addressing (required by most S3-compatible stores)")
	f.String("s3_access_key_id", "", "Static access key (empty uses the SDK credential chain)")
	f.String("s3_secret_access_key", "", "Static secret key (empty uses the SDK credential chain)")

	// HTTP
	f.StringSlice("cors_allowed_origins", []string{"*"}, "Origins allowed by CORS")
	f.String("max_multipart_memory", "32MiB", "Multipart upload bytes kept in memory before spilling to disk")
	f.Duration("shutdown_timeout", 30*time.Second, "Time allowed for in-flight requests on shutdown")

	f.String("log_level", "info", "Log level (trace, debug, info, warn, error)")

	viper.BindPFlags(f)
	viper.BindEnv("http_port", "HTTP_PORT", "PORT")
}

func runGateway(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration("filegate", false)
	utils.LoadDotEnv(utils.ConfigurationFileDirectory)
	env.Load()
	gin.SetMode(env.GinMode())

	opts, err := loadGatewayOpts(cmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid gateway configuration")
	}
	if err := logger.SetLevelString(opts.LogLevel); err != nil {
		logger.Warn().Err(err).Str("log_level", opts.LogLevel).Msg("Ignoring invalid log level")
	}

	debug.SetNotReady()

	store, err := objectstore.New(opts.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("store_type", string(opts.Store.Type)).Msg("failed to create object store")
	}
	store = objectstore.NewMetricsStore(store, objectstore.NewStoreMetrics(debug.Registry()))
	defer store.Close()
	debug.SetReadyCheck(store.Probe)

	logger.Info().Fields(VersionInfo()).Msg("Starting FileGate")
	logger.Info().
		Str("env", env.Env).
		Str("store_type", string(opts.Store.Type)).
		Str("endpoint", opts.Store.Endpoint).
		Str("region", opts.Store.Region).
		Str("bucket", opts.Store.Bucket).
		Bool("path_style", opts.Store.PathStyle).
		Strs("cors_allowed_origins", opts.CORSAllowedOrigins).
		Str("max_multipart_memory", humanize.IBytes(uint64(opts.MaxMultipartMemory))).
		Msg("Gateway configuration")

	server := gateway.NewServer(store, gateway.Options{
		CORSAllowedOrigins: opts.CORSAllowedOrigins,
		MaxMultipartMemory: opts.MaxMultipartMemory,
		Registerer:         debug.Registry(),
	})

	httpServer := startHTTPServer(server, opts.BindAddr, opts.HTTPPort)
	debugServer := startHTTPServer(debug.GetMux(), opts.BindAddr, opts.DebugPort)

	debug.SetReady()

	waitForShutdown()

	debug.SetNotReady()
	ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server did not shut down cleanly")
	}
	if err := debugServer.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("debug server did not shut down cleanly")
	}
	logger.Info().Msg("Gateway stopped")
}

func loadGatewayOpts(cmd *cobra.Command) (GatewayOpts, error) {
	f := NewFlagLoader(cmd)

	multipartMemory, err := f.Bytes("max_multipart_memory")
	if err != nil {
		return GatewayOpts{}, err
	}

	opts := GatewayOpts{
		BindAddr:  f.String("bind_addr"),
		HTTPPort:  f.Int("http_port"),
		DebugPort: f.Int("debug_port"),
		Store: objectstore.Config{
			Type:      objectstore.StoreType(strings.ToLower(f.String("store_type"))),
			Endpoint:  f.String("s3_endpoint"),
			Region:    f.String("s3_region"),
			Bucket:    f.String("s3_bucket_name"),
			AccessKey: f.String("s3_access_key_id"),
			SecretKey: f.String("s3_secret_access_key"),
			PathStyle: f.Bool("s3_force_path_style"),
		},
		CORSAllowedOrigins: f.StringSlice("cors_allowed_origins"),
		MaxMultipartMemory: multipartMemory,
		LogLevel:           f.String("log_level"),
		ShutdownTimeout:    f.Duration("shutdown_timeout"),
	}

	return opts, opts.validate()
}

func (o GatewayOpts) validate() error {
	if !slices.Contains(objectstore.Types(), string(o.Store.Type)) {
		return fmt.Errorf("unknown store_type %q, expected one of: %s", o.Store.Type, strings.Join(objectstore.Types(), ", "))
	}
	if o.Store.Bucket == "" && o.Store.Type != objectstore.StoreTypeMemory {
		return errors.New("s3_bucket_name is required. Set via flag, config, or S3_BUCKET_NAME env var")
	}
	if err := validPort("http_port", o.HTTPPort); err != nil {
		return err
	}
	if err := validPort("debug_port", o.DebugPort); err != nil {
		return err
	}
	if o.HTTPPort == o.DebugPort {
		return fmt.Errorf("http_port and debug_port must differ, both are %d", o.HTTPPort)
	}
	if o.MaxMultipartMemory <= 0 {
		return errors.New("max_multipart_memory must be positive")
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s %d out of range", name, port)
	}
	return nil
}

func startHTTPServer(handler http.Handler, ip string, port int) *http.Server {
	addr := utils.JoinHostPort(ip, port)
	listener, err := utils.NewListener(addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to create HTTP listener")
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("http_addr", addr).Msg("Starting HTTP server")
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()
	return httpServer
}

func waitForShutdown() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM)
	sig := <-stopChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down")
}
