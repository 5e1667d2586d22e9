package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// GetItem implements shop.Catalog. It reads the latest committed row, or this transaction's own changes.
func (u *unitOfWork) GetItem(ctx context.Context, itemID uuid.UUID) (shop.CatalogItem, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.CatalogItem{}, err
	}

	item, _, err := u.engine.loadItem(ctx, u.tx, itemID)

	return item, err
}

func (e *Engine) loadItem(ctx context.Context, db executor, itemID uuid.UUID) (shop.CatalogItem, int64, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableCatalogItems).
		Select(
			goqu.C(colTitle),
			goqu.C(colUnitPrice).Cast(castText),
			goqu.C(colQuantityOnHand),
			goqu.C(colVersion),
		).
		Where(goqu.C(colID).Eq(itemID.String()))

	sqlQuery, err := e.toSQL(ctx, selectStmt)
	if err != nil {
		return shop.CatalogItem{}, 0, err
	}

	rows, err := e.query(ctx, db, sqlQuery, "load item")
	if err != nil {
		return shop.CatalogItem{}, 0, err
	}
	defer e.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return shop.CatalogItem{}, 0, errors.Join(shop.ErrQueryingFailed, rowsErr)
		}

		return shop.CatalogItem{}, 0, shop.NewNotFoundError("Item not found: %s", itemID)
	}

	var (
		rawPrice string
		version  int64
	)

	item := shop.CatalogItem{ID: itemID}

	if scanErr := rows.Scan(&item.Title, &rawPrice, &item.QuantityOnHand, &version); scanErr != nil {
		e.logError(ctx, logMsgScanRowFailed, scanErr)
		return shop.CatalogItem{}, 0, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return shop.CatalogItem{}, 0, errors.Join(shop.ErrScanningDBRowFailed, err)
	}

	item.UnitPrice = price

	return item, version, nil
}
