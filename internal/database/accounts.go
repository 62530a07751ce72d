package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func scanAccount(row interface {
	Scan(dest ...interface{}) error
}) (*models.Account, error) {
	var acct models.Account
	var currency string
	err := row.Scan(&acct.Id, &acct.Name, &currency, &acct.JointAccount, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return nil, err
	}

	acct.Currency, err = parseCurrency(currency)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *Service) GetAccount(ctx context.Context, name string) (*models.Account, error) {
	zap.L().Debug("Querying account", zap.String("name", name))

	acct, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccount, models.Key(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		zap.L().Error("Failed to query account", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	return acct, nil
}

func (s *Service) GetOrCreateAccount(ctx context.Context, name string) (*models.Account, error) {
	// INSERT OR IGNORE keeps this idempotent by canonical key; the display
	// name of whoever got there first wins.
	_, err := s.db.ExecContext(ctx, queryInsertAccount, uuid.New().String(), name, models.Key(name))
	if err != nil {
		zap.L().Error("Failed to insert account", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	return s.GetAccount(ctx, name)
}

func (s *Service) SaveAccount(ctx context.Context, acct *models.Account) error {
	result, err := s.db.ExecContext(ctx, queryUpdateAccount,
		acct.Name, acct.Currency.String(), acct.JointAccount, models.Key(acct.Name))
	if err != nil {
		zap.L().Error("Failed to save account", zap.String("name", acct.Name), zap.Error(err))
		return fmt.Errorf("unable to save account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}

	zap.L().Debug("Account saved",
		zap.String("name", acct.Name),
		zap.String("currency", acct.Currency.String()),
		zap.String("joint_account", acct.JointAccount))
	return nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.queryAccounts(ctx, queryListAccounts)
}

func (s *Service) TopAccounts(ctx context.Context, limit int) ([]models.Account, error) {
	if limit <= 0 {
		return nil, nil
	}

	accounts, err := s.queryAccounts(ctx, queryListAccounts)
	if err != nil {
		return nil, err
	}

	// Ordered here with exact decimal comparison; CAST(currency AS REAL) in
	// SQL loses precision past 2^53.
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Currency.GreaterThan(accounts[j].Currency)
	})
	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (s *Service) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query accounts", zap.Error(err))
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}
