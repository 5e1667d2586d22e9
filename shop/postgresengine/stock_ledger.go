package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Reserve implements shop.StockLedger.
func (u *unitOfWork) Reserve(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if err := u.ensureOpen(); err != nil {
		return 0, err
	}

	if err := shop.ValidateStockQuantity(quantity); err != nil {
		return 0, err
	}

	observer, ctx := u.engine.observeStockChange(ctx, spanNameReserve, operationReserve, itemID, quantity)

	var (
		newQuantity int
		err         error
	)

	switch u.engine.stockStrategy {
	case StockStrategyOptimistic:
		newQuantity, err = u.reserveWithCompareAndSwap(ctx, itemID, quantity)
	default:
		newQuantity, err = u.reserveWithRowLock(ctx, itemID, quantity)
	}

	observer.finish(err)

	return newQuantity, err
}

// Restore implements shop.StockLedger. It always takes the row lock, it cannot fail for lack of stock.
func (u *unitOfWork) Restore(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if err := u.ensureOpen(); err != nil {
		return 0, err
	}

	if err := shop.ValidateStockQuantity(quantity); err != nil {
		return 0, err
	}

	observer, ctx := u.engine.observeStockChange(ctx, spanNameRestore, operationRestore, itemID, quantity)

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(tableCatalogItems).
		Set(goqu.Record{
			colQuantityOnHand: goqu.L("? + ?", goqu.C(colQuantityOnHand), quantity),
			colVersion:        goqu.L("? + 1", goqu.C(colVersion)),
		}).
		Where(goqu.C(colID).Eq(itemID.String())).
		Returning(colQuantityOnHand)

	newQuantity, found, err := u.updateStock(ctx, updateStmt, "restore stock")
	if err == nil && !found {
		err = shop.NewNotFoundError("Item not found: %s", itemID)
	}

	observer.finish(err)

	return newQuantity, err
}

// reserveWithRowLock decrements only if enough stock is left. The UPDATE holds the row lock until the
// transaction ends, so a concurrent reservation of the same item waits and then sees the decremented row.
func (u *unitOfWork) reserveWithRowLock(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(tableCatalogItems).
		Set(goqu.Record{
			colQuantityOnHand: goqu.L("? - ?", goqu.C(colQuantityOnHand), quantity),
			colVersion:        goqu.L("? + 1", goqu.C(colVersion)),
		}).
		Where(
			goqu.C(colID).Eq(itemID.String()),
			goqu.C(colQuantityOnHand).Gte(quantity),
		).
		Returning(colQuantityOnHand)

	newQuantity, updated, err := u.updateStock(ctx, updateStmt, "reserve stock")
	if err != nil {
		return 0, err
	}

	if updated {
		return newQuantity, nil
	}

	item, _, err := u.engine.loadItem(ctx, u.tx, itemID)
	if err != nil {
		return 0, err
	}

	return 0, shop.NewInsufficientStockError(item, quantity)
}

// reserveWithCompareAndSwap reads the item with its version and swaps the quantity only if the version is
// unchanged. Losing the race more than maxStockRetries times is reported as insufficient stock.
func (u *unitOfWork) reserveWithCompareAndSwap(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	var lastSeen shop.CatalogItem

	for attempt := 1; attempt <= u.engine.maxStockRetries; attempt++ {
		item, version, err := u.engine.loadItem(ctx, u.tx, itemID)
		if err != nil {
			return 0, err
		}

		if !item.HasStockFor(quantity) {
			return 0, shop.NewInsufficientStockError(item, quantity)
		}

		lastSeen = item

		updateStmt := goqu.Dialect(dialectPostgres).
			Update(tableCatalogItems).
			Set(goqu.Record{
				colQuantityOnHand: item.QuantityOnHand - quantity,
				colVersion:        version + 1,
			}).
			Where(
				goqu.C(colID).Eq(itemID.String()),
				goqu.C(colVersion).Eq(version),
			).
			Returning(colQuantityOnHand)

		newQuantity, swapped, err := u.updateStock(ctx, updateStmt, "reserve stock cas")
		if err != nil {
			return 0, err
		}

		if swapped {
			return newQuantity, nil
		}

		u.engine.recordStockConflict(ctx, operationReserve)
		u.engine.logOperation(ctx, logMsgStockConflict, logAttrItemID, itemID.String(), logAttrAttempt, attempt)
	}

	return 0, shop.NewInsufficientStockError(lastSeen, quantity)
}

// updateStock runs an UPDATE ... RETURNING quantity_on_hand and reports whether a row was changed.
func (u *unitOfWork) updateStock(ctx context.Context, updateStmt *goqu.UpdateDataset, action string) (int, bool, error) {
	sqlQuery, err := u.engine.toSQL(ctx, updateStmt)
	if err != nil {
		return 0, false, err
	}

	rows, err := u.engine.query(ctx, u.tx, sqlQuery, action)
	if err != nil {
		return 0, false, err
	}
	defer u.engine.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return 0, false, errors.Join(shop.ErrWritingFailed, rowsErr)
		}

		return 0, false, nil
	}

	var newQuantity int
	if scanErr := rows.Scan(&newQuantity); scanErr != nil {
		u.engine.logError(ctx, logMsgScanRowFailed, scanErr)
		return 0, false, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
	}

	return newQuantity, true, nil
}
