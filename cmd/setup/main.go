package main

import (
	"context"
	"fmt"

	"github.com/RenderBr/Banker/internal/common"
	"github.com/RenderBr/Banker/internal/config"

	"go.uber.org/zap"
)

func main() {
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

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		logger.Fatal("Failed to list accounts", zap.Error(err))
	}

	joints, err := st.ListJointAccounts(ctx)
	if err != nil {
		logger.Fatal("Failed to list joint accounts", zap.Error(err))
	}

	common.PrintHeader("Banker setup", common.DefaultWidth)
	fmt.Printf("Backend:        %s\n", cfg.Store.Backend)
	fmt.Printf("Database:       %s\n", cfg.Database.Path)
	fmt.Printf("Accounts:       %d\n", len(accounts))
	fmt.Printf("Joint accounts: %d\n", len(joints))
	common.PrintFooter("Schema is ready", common.DefaultWidth)

	if cfg.Database.CreateDummyAccounts {
		fmt.Println("Dummy accounts were seeded (CREATE_DUMMY_ACCOUNTS=true)")
	}
}
