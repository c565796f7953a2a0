package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vrischmann/envconfig"

	"github.com/Sh00ty/leader-geo/internal/geo"
	"github.com/Sh00ty/leader-geo/internal/georesolver"
	"github.com/Sh00ty/leader-geo/internal/metrics"
	"github.com/Sh00ty/leader-geo/internal/procedure"
	"github.com/Sh00ty/leader-geo/internal/solanarpc"
	"github.com/Sh00ty/leader-geo/internal/storage/inmemory"
)

func loggerLevelFromString(level string) zerolog.Level {
	level = strings.ToLower(level)
	switch level {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

type Config struct {
	LoggerLevel string `envconfig:"LOGGER_LEVEL,default=warn"`

	RPC     solanarpc.Config `envconfig:"-"`
	Metrics metrics.Config   `envconfig:"-"`

	ClusterNodesTTL   time.Duration `envconfig:"CLUSTER_NODES_TTL,default=60s"`
	MissWarnThreshold uint64        `envconfig:"MISS_WARN_THRESHOLD,default=10"`

	ServerAddr string `envconfig:"SERVER_ADDR,default=0.0.0.0:8080"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	appCfg := Config{}
	err := envconfig.Init(&appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read app config")
	}
	err = envconfig.Init(&appCfg.RPC)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read rpc config")
	}
	err = envconfig.Init(&appCfg.Metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read metrics config")
	}
	log.Logger = log.Level(loggerLevelFromString(appCfg.LoggerLevel))
	gin.SetMode(gin.ReleaseMode)

	appMetrics, closeMetrics := metrics.New(appCfg.Metrics)
	defer func() {
		if err := closeMetrics(); err != nil {
			log.Error().Err(err).Msg("failed to flush metrics")
		}
	}()

	rpcClient, err := solanarpc.NewClient(appCfg.RPC)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create rpc client")
	}

	table := geo.Embedded()
	log.Info().Msgf("loaded geo table with %d entries", table.Len())

	clusterIPs := inmemory.NewClusterIPCache(
		rpcClient,
		inmemory.WithTTL(appCfg.ClusterNodesTTL),
		inmemory.WithMetrics(appMetrics),
	)
	resolver := georesolver.NewResolver(
		rpcClient,
		clusterIPs,
		table,
		&georesolver.MissCounter{},
		georesolver.WithMissWarnThreshold(appCfg.MissWarnThreshold),
		georesolver.WithMetrics(appMetrics),
	)

	log.Warn().Msgf("running leader-geo against %s", appCfg.RPC.Endpoint)

	srv := procedure.NewServer(resolver)
	err = srv.ListenAndServe(ctx, appCfg.ServerAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to serve procedure")
	}
}
