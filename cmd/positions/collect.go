package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/chain"
	"positionScope/internal/config"
	"positionScope/internal/platform"
	"positionScope/internal/platform/uniswapv3"
)

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadCollect(cmd.Flags())
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
	tokenID, ok := new(big.Int).SetString(cfg.TokenID, 10)
	if !ok {
		return fmt.Errorf("token id %q is invalid", cfg.TokenID)
	}
	if !common.IsHexAddress(cfg.Recipient) {
		return fmt.Errorf("recipient address %q is invalid", cfg.Recipient)
	}
	recipient := common.HexToAddress(cfg.Recipient)

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

	if cfg.Platform != platform.PlatformUniswapV3 {
		return platform.UnknownPlatformError{Platform: cfg.Platform}
	}
	addrs, ok := platform.PlatformAddresses(cfg.ChainID, cfg.Platform)
	if !ok {
		return fmt.Errorf("platform %q is not deployed on chain %d", cfg.Platform, cfg.ChainID)
	}
	adapter, err := uniswapv3.New(cfg.ChainID, caller, addrs, logger)
	if err != nil {
		return err
	}

	snaps, err := adapter.SnapshotPosition(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("snapshot position %s: %w", tokenID, err)
	}
	if len(snaps.Positions) == 0 {
		return fmt.Errorf("position %s not found", tokenID)
	}

	pos := &snaps.Positions[0]
	pool := snaps.Pools[pos.Pool]
	tx, err := adapter.BuildCollectFeesTransaction(pos, pool, snaps.Tokens[pool.Token0], snaps.Tokens[pool.Token1], recipient)
	if err != nil {
		return fmt.Errorf("build collect transaction: %w", err)
	}

	logger.Info("collect transaction prepared",
		zap.String("token_id", tokenID.String()),
		zap.String("to", tx.To.Hex()),
	)

	encoded, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
