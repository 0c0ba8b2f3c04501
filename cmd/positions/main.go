package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"positionScope/internal/chain"
	"positionScope/internal/config"
	"positionScope/internal/model"
	"positionScope/internal/platform"
	"positionScope/internal/platform/uniswapv3"
	"positionScope/internal/storage"
	"positionScope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "positions",
		Short:        "Concentrated liquidity position inspector",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's positions with fees, amounts, and prices",
		RunE:  runList,
	}

	listCmd.Flags().String("rpc", "", "chain RPC URL")
	listCmd.Flags().String("owner", "", "position owner address")
	listCmd.Flags().Uint64("chain-id", 1, "chain id")
	listCmd.Flags().StringSlice("platform", nil, "platforms to inspect (comma-separated, default all configured)")
	listCmd.Flags().String("out", "", "optional JSONL output path")
	listCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshot persistence")
	listCmd.Flags().Int("max-retries", 5, "maximum retry attempts per RPC call")
	listCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	listCmd.Flags().Duration("timeout", 30*time.Second, "overall fetch timeout")
	listCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(listCmd)

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Prepare a fee collection transaction for one position",
		RunE:  runCollect,
	}

	collectCmd.Flags().String("rpc", "", "chain RPC URL")
	collectCmd.Flags().Uint64("chain-id", 1, "chain id")
	collectCmd.Flags().String("platform", "uniswap-v3", "platform identifier")
	collectCmd.Flags().String("token-id", "", "position NFT token id")
	collectCmd.Flags().String("recipient", "", "fee recipient address")
	collectCmd.Flags().Int("max-retries", 5, "maximum retry attempts per RPC call")
	collectCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	collectCmd.Flags().Duration("timeout", 30*time.Second, "overall fetch timeout")
	collectCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(collectCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Owner) {
		return fmt.Errorf("owner address %q is invalid", cfg.Owner)
	}
	owner := common.HexToAddress(cfg.Owner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("%w: %v", platform.ErrProviderUnavailable, err)
	}
	defer chainClient.Close()
	caller := chain.NewRetryingCaller(chainClient, cfg.MaxRetries, cfg.RetryBackoff)

	registry, err := buildRegistry(cfg.ChainID, cfg.Platforms, caller, logger)
	if err != nil {
		return err
	}

	logger.Info("position inspection start",
		zap.String("owner", owner.Hex()),
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Strings("platforms", cfg.Platforms),
	)

	report := model.Report{
		Positions: []model.PositionView{},
		PoolData:  make(map[string]model.PoolView),
		TokenData: make(map[string]model.TokenView),
	}
	for _, adapter := range registry.AdaptersForChain(cfg.ChainID) {
		snaps, err := adapter.GetPositions(ctx, owner, cfg.ChainID)
		if err != nil {
			return fmt.Errorf("fetch %s positions: %w", adapter.Platform(), err)
		}
		mergeReport(&report, platform.BuildReport(adapter, snaps, logger))
	}

	logger.Info("position inspection done",
		zap.Int("positions", len(report.Positions)),
		zap.Bool("partial", report.HasPartialData),
	)

	if cfg.Out != "" {
		if err := storage.NewJsonlStorage(cfg.Out).PutPositionBatch(report.Positions); err != nil {
			return err
		}
	}
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.UpsertPositions(ctx, report.Positions); err != nil {
			return fmt.Errorf("persist positions: %w", err)
		}
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// buildRegistry constructs one adapter per requested platform. An empty
// platform list means every platform configured for the chain.
func buildRegistry(chainID uint64, platforms []string, caller chain.Caller, logger *zap.Logger) (*platform.Registry, error) {
	if len(platforms) == 0 {
		platforms = platform.PlatformsForChain(chainID)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms configured for chain %d", chainID)
	}

	registry := platform.NewRegistry()
	for _, id := range platforms {
		adapter, err := buildAdapter(chainID, id, caller, logger)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildAdapter(chainID uint64, platformID string, caller chain.Caller, logger *zap.Logger) (platform.Adapter, error) {
	switch platformID {
	case platform.PlatformUniswapV3:
		addrs, ok := platform.PlatformAddresses(chainID, platformID)
		if !ok {
			return nil, fmt.Errorf("platform %q is not deployed on chain %d", platformID, chainID)
		}
		return uniswapv3.New(chainID, caller, addrs, logger)
	default:
		return nil, platform.UnknownPlatformError{Platform: platformID}
	}
}

func mergeReport(dst *model.Report, src model.Report) {
	dst.Positions = append(dst.Positions, src.Positions...)
	for addr, pool := range src.PoolData {
		dst.PoolData[addr] = pool
	}
	for addr, token := range src.TokenData {
		dst.TokenData[addr] = token
	}
	dst.HasPartialData = dst.HasPartialData || src.HasPartialData
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
