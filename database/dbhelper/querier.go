package dbhelper

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/ray-remotestate/restroadmin/models"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// foreign key constraint -> the entity that must exist
var referencedEntity = map[string]string{
	"orders_restaurant_id_fkey":     "restaurant",
	"order_items_order_id_fkey":     "order",
	"order_items_menu_item_id_fkey": "menu item",
	"menu_items_restaurant_id_fkey": "restaurant",
}

// classify turns a driver error into a *models.Error. entity names the row
// being acted on and is used for not-found messages.
func classify(entity string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &models.Error{Kind: models.KindNotFound, Message: entity + " not found", Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPQ(pqErr)
	}

	if isUnavailable(err) {
		return &models.Error{Kind: models.KindUnavailable, Message: "database unavailable", Err: err}
	}

	return &models.Error{Kind: models.KindInternal, Err: err}
}

func classifyPQ(e *pq.Error) error {
	switch e.Code {
	case "23502": // not_null_violation
		return &models.Error{Kind: models.KindValidation, Message: e.Column + " is required", Err: e}
	case "23514": // check_violation
		return &models.Error{Kind: models.KindValidation, Message: "invalid value for " + checkedColumn(e), Err: e}
	case "22P02", "22003", "22001": // invalid_text_representation, numeric_value_out_of_range, string_data_right_truncation
		return &models.Error{Kind: models.KindValidation, Message: "invalid input value", Err: e}
	case "23503": // foreign_key_violation
		entity, ok := referencedEntity[e.Constraint]
		if !ok {
			entity = "referenced row"
		}
		return &models.Error{Kind: models.KindReference, Message: entity + " does not exist", Err: e}
	case "23505": // unique_violation
		return &models.Error{Kind: models.KindConstraint, Message: "a record with the same unique value already exists", Err: e}
	}

	switch e.Code.Class() {
	case "23":
		return &models.Error{Kind: models.KindConstraint, Message: "constraint violation", Err: e}
	case "08", "53", "57":
		return &models.Error{Kind: models.KindUnavailable, Message: "database unavailable", Err: e}
	}
	return &models.Error{Kind: models.KindInternal, Err: e}
}

// checkedColumn derives the column from a postgres generated check constraint
// name such as orders_total_amount_check.
func checkedColumn(e *pq.Error) string {
	name := strings.TrimSuffix(e.Constraint, "_check")
	if e.Table != "" {
		name = strings.TrimPrefix(name, e.Table+"_")
	}
	if name == "" {
		return "field"
	}
	return name
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
