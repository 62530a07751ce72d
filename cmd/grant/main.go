package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RenderBr/Banker/internal/bank"
	"github.com/RenderBr/Banker/internal/common"
	"github.com/RenderBr/Banker/internal/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	player := flag.String("player", "", "player account name (required)")
	set := flag.String("set", "", "set the balance to this amount")
	adjust := flag.String("adjust", "", "adjust the balance by this signed amount")
	reset := flag.Bool("reset", false, "reset the balance to zero")
	flag.Parse()

	if *player == "" {
		fmt.Fprintln(os.Stderr, "usage: grant -player <name> (-set <amount> | -adjust <delta> | -reset)")
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	st, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	ledger := bank.NewService(st)

	switch {
	case *reset:
		if err := ledger.ResetCurrency(ctx, *player); err != nil {
			logger.Fatal("Failed to reset balance", zap.Error(err))
		}
	case *set != "":
		amount, err := decimal.NewFromString(*set)
		if err != nil {
			logger.Fatal("Invalid amount", zap.String("amount", *set), zap.Error(err))
		}
		if err := ledger.SetCurrency(ctx, *player, amount); err != nil {
			logger.Fatal("Failed to set balance", zap.Error(err))
		}
	case *adjust != "":
		delta, err := decimal.NewFromString(*adjust)
		if err != nil {
			logger.Fatal("Invalid delta", zap.String("delta", *adjust), zap.Error(err))
		}
		if _, err := ledger.AdjustCurrency(ctx, *player, delta); err != nil {
			logger.Fatal("Failed to adjust balance", zap.Error(err))
		}
	default:
		fmt.Fprintln(os.Stderr, "one of -set, -adjust or -reset is required")
		os.Exit(2)
	}

	balance, err := ledger.GetCurrency(ctx, *player)
	if err != nil {
		logger.Fatal("Failed to read balance back", zap.Error(err))
	}

	fmt.Printf("%s now has %s %s\n", *player, balance.String(),
		common.CurrencyName(cfg.Currency, balance.Equal(decimal.NewFromInt(1))))
}
