package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolationCode = "23505"

// sqliteUniqueColumns translates the postgres constraint names used at call
// sites into the column list sqlite prints in its violation message, since
// sqlite never reports the constraint name itself.
var sqliteUniqueColumns = map[string]string{
	"users_email_key":                   "users.email",
	"categories_name_key":               "categories.name",
	"ingredients_name_key":              "ingredients.name",
	"carts_user_id_key":                 "carts.user_id",
	"cart_items_cart_id_product_id_key": "cart_items.cart_id, cart_items.product_id",
	"orders_order_number_key":           "orders.order_number",
	"reviews_product_id_user_id_key":    "reviews.product_id, reviews.user_id",
}

// IsUniqueViolation reports whether the error is a unique constraint
// violation. When constraintName is provided, the violation must reference
// that constraint. Covers pgx, lib/pq and the sqlite fallback driver.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolationCode {
			return false
		}
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolationCode {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	// sqlite reports unique violations as plain text.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if constraintName == "" {
			return true
		}
		if columns, ok := sqliteUniqueColumns[constraintName]; ok {
			return strings.Contains(msg, columns)
		}
		return strings.Contains(msg, constraintName)
	}

	// Stringified postgres errors keep the constraint name in the message.
	if strings.Contains(msg, "duplicate key value") {
		return constraintName == "" || strings.Contains(msg, constraintName)
	}
	return false
}
