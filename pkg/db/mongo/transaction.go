package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "zoo/pkg/errors"
	"zoo/pkg/logger"
)

type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	log    *logger.Logger
}

func NewTransactionManager(client *mongo.Client, log *logger.Logger) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		log:    log,
	}
}

// ExecuteTransaction runs fn inside a transaction. A standalone server has no
// transaction support, so there fn runs once without one.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil && transactionsUnsupported(err) {
		m.log.FromContext(ctx).Warn("Transactions unsupported by server, running without one")
		err = fn(ctx)
	}

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed on a replica set") ||
		strings.Contains(msg, "transactions are not supported")
}
