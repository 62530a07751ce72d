package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) GetJointAccount(ctx context.Context, name string) (*models.JointAccount, error) {
	zap.L().Debug("Querying joint account", zap.String("name", name))

	var joint models.JointAccount
	var currency string
	err := s.db.QueryRowContext(ctx, queryGetJointAccount, models.Key(name)).Scan(
		&joint.Id, &joint.Name, &currency, &joint.CreatedAt, &joint.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		zap.L().Error("Failed to query joint account", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("unable to query joint account: %w", err)
	}

	joint.Currency, err = parseCurrency(currency)
	if err != nil {
		return nil, err
	}

	joint.Members, err = s.getJointMembers(ctx, models.Key(name))
	if err != nil {
		return nil, err
	}

	return &joint, nil
}

func (s *Service) CreateJointAccount(ctx context.Context, joint *models.JointAccount) error {
	if _, err := s.GetJointAccount(ctx, joint.Name); err == nil {
		return store.ErrDuplicateName
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	if joint.Id == "" {
		joint.Id = uuid.New().String()
	}
	_, err = tx.ExecContext(ctx, queryInsertJointAccount,
		joint.Id, joint.Name, models.Key(joint.Name), joint.Currency.String())
	if err != nil {
		return fmt.Errorf("unable to insert joint account: %w", err)
	}

	if err := insertJointMembers(ctx, tx, models.Key(joint.Name), joint.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit joint account: %w", err)
	}

	zap.L().Info("Joint account created",
		zap.String("name", joint.Name),
		zap.Strings("members", joint.Members))
	return nil
}

func (s *Service) SaveJointAccount(ctx context.Context, joint *models.JointAccount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	key := models.Key(joint.Name)
	result, err := tx.ExecContext(ctx, queryUpdateJointAccount, joint.Currency.String(), key)
	if err != nil {
		return fmt.Errorf("unable to save joint account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}

	// Reconcile the member set wholesale; positions re-number in join order.
	if _, err := tx.ExecContext(ctx, queryDeleteJointMembers, key); err != nil {
		return fmt.Errorf("unable to clear joint members: %w", err)
	}
	if err := insertJointMembers(ctx, tx, key, joint.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit joint account: %w", err)
	}

	zap.L().Debug("Joint account saved",
		zap.String("name", joint.Name),
		zap.String("currency", joint.Currency.String()),
		zap.Int("members", len(joint.Members)))
	return nil
}

func (s *Service) ListJointAccounts(ctx context.Context) ([]models.JointAccount, error) {
	rows, err := s.db.QueryContext(ctx, queryListJointAccounts)
	if err != nil {
		zap.L().Error("Failed to query joint accounts", zap.Error(err))
		return nil, fmt.Errorf("unable to query joint accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var joints []models.JointAccount
	for rows.Next() {
		var joint models.JointAccount
		var currency string
		err := rows.Scan(&joint.Id, &joint.Name, &currency, &joint.CreatedAt, &joint.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan joint account row: %w", err)
		}
		joint.Currency, err = parseCurrency(currency)
		if err != nil {
			return nil, err
		}
		joints = append(joints, joint)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating joint account rows: %w", err)
	}

	for i := range joints {
		joints[i].Members, err = s.getJointMembers(ctx, models.Key(joints[i].Name))
		if err != nil {
			return nil, err
		}
	}

	return joints, nil
}

func (s *Service) getJointMembers(ctx context.Context, jointKey string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, queryGetJointMembers, jointKey)
	if err != nil {
		return nil, fmt.Errorf("unable to query joint members: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("unable to scan joint member row: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating joint member rows: %w", err)
	}

	return members, nil
}

func insertJointMembers(ctx context.Context, tx *sql.Tx, jointKey string, members []string) error {
	for i, member := range members {
		_, err := tx.ExecContext(ctx, queryInsertJointMember, jointKey, models.Key(member), member, i)
		if err != nil {
			return fmt.Errorf("unable to insert joint member: %w", err)
		}
	}
	return nil
}
