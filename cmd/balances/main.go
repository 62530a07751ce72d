package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/RenderBr/Banker/internal/bank"
	"github.com/RenderBr/Banker/internal/common"
	"github.com/RenderBr/Banker/internal/config"
	"github.com/RenderBr/Banker/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printAccount(rank int, acct models.Account, cfg models.CurrencyConfig, isLast bool) {
	name := common.CurrencyName(cfg, acct.Currency.Equal(decimal.NewFromInt(1)))
	fmt.Printf("%s%2d. %-20s %15s %s\n",
		common.BoxPrefix(isLast), rank, acct.Name, acct.Currency.String(), name)
}

func main() {
	limit := flag.Int("limit", 10, "maximum number of accounts to show")
	showJoints := flag.Bool("joints", false, "also list joint accounts")
	flag.Parse()

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

	top, err := ledger.TopBalances(ctx, *limit)
	if err != nil {
		logger.Fatal("Failed to query top balances", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("Top %d accounts by balance", *limit), common.DefaultWidth)
	if len(top) == 0 {
		fmt.Println("No accounts yet")
	}
	for i, acct := range top {
		printAccount(i+1, acct, cfg.Currency, i == len(top)-1)
	}

	if *showJoints {
		joints, err := st.ListJointAccounts(ctx)
		if err != nil {
			logger.Fatal("Failed to list joint accounts", zap.Error(err))
		}

		common.PrintBoxSeparator(common.DefaultWidth - 2)
		for _, joint := range joints {
			fmt.Printf("┌─ Joint account: %s\n", joint.Name)
			fmt.Printf("│  Balance: %s %s\n", joint.Currency.String(),
				common.CurrencyName(cfg.Currency, joint.Currency.Equal(decimal.NewFromInt(1))))
			for i, member := range joint.Members {
				fmt.Printf("%s%s\n", common.BoxPrefix(i == len(joint.Members)-1), member)
			}
		}
	}

	common.PrintFooter("Done", common.DefaultWidth)
}
