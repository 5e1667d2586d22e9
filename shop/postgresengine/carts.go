package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// LoadCartForUpdate implements shop.CartStore. The cart row is created on first access and locked until the
// transaction ends.
func (u *unitOfWork) LoadCartForUpdate(ctx context.Context, customerID uuid.UUID) (shop.Cart, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.Cart{}, err
	}

	builder := goqu.Dialect(dialectPostgres)

	insertStmt := builder.
		Insert(tableCarts).
		Rows(goqu.Record{colCustomerID: customerID.String(), colUpdatedAt: u.engine.clock().UTC()}).
		OnConflict(goqu.DoNothing())

	insertSQL, err := u.engine.toSQL(ctx, insertStmt)
	if err != nil {
		return shop.Cart{}, err
	}

	if _, err = u.engine.exec(ctx, u.tx, insertSQL, "create cart"); err != nil {
		return shop.Cart{}, err
	}

	lockStmt := builder.
		From(tableCarts).
		Select(colUpdatedAt).
		Where(goqu.C(colCustomerID).Eq(customerID.String())).
		ForUpdate(exp.Wait)

	updatedAt, err := u.lockCart(ctx, lockStmt)
	if err != nil {
		return shop.Cart{}, err
	}

	cart := shop.NewCart(customerID, updatedAt)

	linesStmt := builder.
		From(tableCartLines).
		Select(goqu.C(colItemID).Cast(castText), goqu.C(colQuantity)).
		Where(goqu.C(colCustomerID).Eq(customerID.String())).
		Order(goqu.C(colLineNo).Asc())

	cart.Lines, err = u.loadCartLines(ctx, linesStmt)
	if err != nil {
		return shop.Cart{}, err
	}

	return cart, nil
}

func (u *unitOfWork) lockCart(ctx context.Context, lockStmt *goqu.SelectDataset) (time.Time, error) {
	sqlQuery, err := u.engine.toSQL(ctx, lockStmt)
	if err != nil {
		return time.Time{}, err
	}

	rows, err := u.engine.query(ctx, u.tx, sqlQuery, "lock cart")
	if err != nil {
		return time.Time{}, err
	}
	defer u.engine.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return time.Time{}, errors.Join(shop.ErrQueryingFailed, rowsErr)
		}

		return time.Time{}, shop.NewNotFoundError("Cart not found for user")
	}

	var updatedAt time.Time
	if scanErr := rows.Scan(&updatedAt); scanErr != nil {
		u.engine.logError(ctx, logMsgScanRowFailed, scanErr)
		return time.Time{}, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
	}

	return updatedAt, nil
}

func (u *unitOfWork) loadCartLines(ctx context.Context, linesStmt *goqu.SelectDataset) ([]shop.CartLine, error) {
	sqlQuery, err := u.engine.toSQL(ctx, linesStmt)
	if err != nil {
		return nil, err
	}

	rows, err := u.engine.query(ctx, u.tx, sqlQuery, "load cart lines")
	if err != nil {
		return nil, err
	}
	defer u.engine.closeRows(ctx, rows)

	lines := make([]shop.CartLine, 0)

	for rows.Next() {
		var (
			rawItemID string
			line      shop.CartLine
		)

		if scanErr := rows.Scan(&rawItemID, &line.Quantity); scanErr != nil {
			u.engine.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
		}

		itemID, parseErr := uuid.Parse(rawItemID)
		if parseErr != nil {
			return nil, errors.Join(shop.ErrScanningDBRowFailed, parseErr)
		}

		line.ItemID = itemID
		lines = append(lines, line)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return lines, nil
}

// SaveCart implements shop.CartStore by replacing all lines of the locked cart.
func (u *unitOfWork) SaveCart(ctx context.Context, cart shop.Cart) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	builder := goqu.Dialect(dialectPostgres)
	customerID := cart.CustomerID.String()

	updateStmt := builder.
		Update(tableCarts).
		Set(goqu.Record{colUpdatedAt: cart.UpdatedAt.UTC()}).
		Where(goqu.C(colCustomerID).Eq(customerID))

	deleteStmt := builder.
		Delete(tableCartLines).
		Where(goqu.C(colCustomerID).Eq(customerID))

	statements := []sqlBuilder{updateStmt, deleteStmt}

	if len(cart.Lines) > 0 {
		rows := make([]any, 0, len(cart.Lines))
		for i, line := range cart.Lines {
			rows = append(rows, goqu.Record{
				colCustomerID: customerID,
				colLineNo:     i + 1,
				colItemID:     line.ItemID.String(),
				colQuantity:   line.Quantity,
			})
		}

		statements = append(statements, builder.Insert(tableCartLines).Rows(rows...))
	}

	for _, statement := range statements {
		sqlQuery, err := u.engine.toSQL(ctx, statement)
		if err != nil {
			return err
		}

		if _, err = u.engine.exec(ctx, u.tx, sqlQuery, "save cart"); err != nil {
			return err
		}
	}

	return nil
}
