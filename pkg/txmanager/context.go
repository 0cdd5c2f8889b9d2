package txmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/PARK-RecurringService/pkg/dbmetrics"
)

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return dbmetrics.WithExecutor(ctx, tx)
}
