// cmd/shopctl/root.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/easyretail/shop-backend/internal/config"
	"github.com/easyretail/shop-backend/internal/database"
	"github.com/easyretail/shop-backend/internal/posstore"
)

type options struct {
	backend  string
	file     string
	redis    config.RedisConfig
	redisKey string

	client *redis.Client
	store  *posstore.Store
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Manage the point-of-sale product catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("redis") {
				opts.backend = config.POSBackendRedis
			}
			return opts.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
	}

	defaults := &config.Config{
		POS:   config.POSConfig{Backend: config.POSBackendFile, File: "pos-products.json", RedisKey: "pos-products"},
		Redis: config.RedisConfig{Addr: "localhost:6379"},
	}
	if cfg, err := config.Load(); err == nil {
		defaults = cfg
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.backend, "store", defaults.POS.Backend, "snapshot backend: file or redis")
	flags.StringVar(&opts.file, "file", defaults.POS.File, "snapshot file")
	flags.StringVar(&opts.redis.Addr, "redis", defaults.Redis.Addr, "redis address; implies --store redis")
	flags.StringVar(&opts.redis.Password, "redis-password", defaults.Redis.Password, "redis password")
	flags.IntVar(&opts.redis.DB, "redis-db", defaults.Redis.DB, "redis database number")
	flags.StringVar(&opts.redisKey, "key", defaults.POS.RedisKey, "redis key holding the snapshot")

	cmd.AddCommand(
		newListCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newToggleCommand(opts),
		newSaleCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
		newResetDemoCommand(opts),
		newStatsCommand(opts),
		newClearCommand(opts),
	)
	return cmd
}

func (o *options) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var persister posstore.Persister
	switch strings.ToLower(o.backend) {
	case "", config.POSBackendFile:
		persister = posstore.NewFilePersister(o.file)
	case config.POSBackendRedis:
		client, err := database.NewRedisClient(ctx, o.redis)
		if err != nil {
			return err
		}
		o.client = client
		persister = posstore.NewRedisPersister(client, o.redisKey)
	default:
		return fmt.Errorf("unknown store %q, want file or redis", o.backend)
	}

	store, err := posstore.Open(ctx, persister)
	if err != nil {
		return err
	}
	o.store = store
	return nil
}

func (o *options) close() {
	if o.client != nil {
		o.client.Close()
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
