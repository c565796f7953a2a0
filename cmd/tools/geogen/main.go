package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sh00ty/leader-geo/internal/geogen"
	"github.com/Sh00ty/leader-geo/internal/models"
	"github.com/Sh00ty/leader-geo/internal/solanarpc"
)

type flags struct {
	endpoint     string
	dbPath       string
	output       string
	attempts     uint
	timeout      time.Duration
	keepExisting bool
	verbose      bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)

	err := rootCmd().ExecuteContext(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("geogen failed")
	}
}

func rootCmd() *cobra.Command {
	f := flags{}
	cmd := &cobra.Command{
		Use:           "geogen",
		Short:         "Regenerate the embedded ip to geo table from live cluster nodes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.verbose {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			}
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.endpoint, "rpc", "https://api.mainnet-beta.solana.com", "cluster json-rpc endpoint")
	cmd.Flags().StringVar(&f.dbPath, "db", os.Getenv("GEOLITE2_CITY_DB"), "path to GeoLite2-City database")
	cmd.Flags().StringVarP(&f.output, "output", "o", "internal/geo/data/ip_geo.json", "table file to write")
	cmd.Flags().UintVar(&f.attempts, "attempts", 5, "getClusterNodes attempts")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "rpc request timeout")
	cmd.Flags().BoolVar(&f.keepExisting, "keep-existing", true, "keep entries of ips missing from this run")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(ctx context.Context, f flags) error {
	client, err := solanarpc.NewClient(solanarpc.Config{
		Endpoint: f.endpoint,
		Timeout:  f.timeout,
	})
	if err != nil {
		return err
	}

	db, err := geoip2.Open(f.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open geoip database: %w", err)
	}
	defer db.Close()

	nodes, err := retry.DoWithData(
		func() ([]models.ClusterNode, error) {
			return client.GetClusterNodes(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Msgf("getClusterNodes attempt %d failed", n+1)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to get cluster nodes: %w", err)
	}

	entries, stats := geogen.Build(nodes, db)
	log.Info().Msgf("geolocated cluster nodes: %s", stats)

	if f.keepExisting {
		old, err := geogen.ReadTable(f.output)
		if err != nil {
			return err
		}
		entries = geogen.Merge(old, entries)
	}

	err = geogen.WriteTable(f.output, entries)
	if err != nil {
		return err
	}
	log.Info().Msgf("wrote %d entries to %s", len(entries), f.output)
	return nil
}
