package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// CreateOrder implements shop.OrderStore. A clash on the order ID or number is a concurrency conflict,
// the caller retries with a fresh number.
func (u *unitOfWork) CreateOrder(ctx context.Context, order shop.Order) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	builder := goqu.Dialect(dialectPostgres)

	insertStmt := builder.
		Insert(tableOrders).
		Rows(goqu.Record{
			colID:              order.ID.String(),
			colOrderNumber:     order.Number,
			colCustomerID:      order.CustomerID.String(),
			colStatus:          order.Status.String(),
			colSubtotal:        order.Totals.Subtotal.StringFixed(2),
			colTax:             order.Totals.Tax.StringFixed(2),
			colShipping:        order.Totals.Shipping.StringFixed(2),
			colTotal:           order.Totals.Total.StringFixed(2),
			colShippingAddress: order.ShippingAddress,
			colPaymentMethod:   order.PaymentMethod,
			colCarrier:         string(order.Carrier),
			colTrackingNumber:  order.TrackingNumber,
			colNotes:           order.Notes,
			colCreatedAt:       order.CreatedAt.UTC(),
			colUpdatedAt:       order.UpdatedAt.UTC(),
			colShippedAt:       nullableTime(order.ShippedAt),
			colDeliveredAt:     nullableTime(order.DeliveredAt),
			colVersion:         order.Version,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, err := u.engine.toSQL(ctx, insertStmt)
	if err != nil {
		return err
	}

	rowsAffected, err := u.engine.exec(ctx, u.tx, sqlQuery, "create order")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return shop.ErrConcurrencyConflict
	}

	if len(order.Lines) == 0 {
		return nil
	}

	lineRows := make([]any, 0, len(order.Lines))
	for i, line := range order.Lines {
		lineRows = append(lineRows, goqu.Record{
			colOrderID:   order.ID.String(),
			colLineNo:    i + 1,
			colItemID:    line.ItemID.String(),
			colTitle:     line.Title,
			colQuantity:  line.Quantity,
			colUnitPrice: line.UnitPrice.StringFixed(2),
		})
	}

	linesSQL, err := u.engine.toSQL(ctx, builder.Insert(tableOrderLines).Rows(lineRows...))
	if err != nil {
		return err
	}

	_, err = u.engine.exec(ctx, u.tx, linesSQL, "create order lines")

	return err
}

// LoadOrder implements shop.OrderStore.
func (u *unitOfWork) LoadOrder(ctx context.Context, orderID uuid.UUID) (shop.Order, error) {
	return u.loadSingleOrder(ctx, goqu.C(colID).Eq(orderID.String()))
}

// LoadOrderByNumber implements shop.OrderStore.
func (u *unitOfWork) LoadOrderByNumber(ctx context.Context, number string) (shop.Order, error) {
	return u.loadSingleOrder(ctx, goqu.C(colOrderNumber).Eq(number))
}

func (u *unitOfWork) loadSingleOrder(ctx context.Context, where goqu.Expression) (shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.Order{}, err
	}

	orders, err := u.selectOrders(ctx, selectOrderColumns().Where(where))
	if err != nil {
		return shop.Order{}, err
	}

	if len(orders) == 0 {
		return shop.Order{}, shop.NewNotFoundError("Order not found")
	}

	return orders[0], nil
}

// UpdateOrderEnvelope implements shop.OrderStore. The version check turns a lost race into
// shop.ErrConcurrencyConflict.
func (u *unitOfWork) UpdateOrderEnvelope(ctx context.Context, order shop.Order, expectedVersion uint) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(tableOrders).
		Set(goqu.Record{
			colStatus:         order.Status.String(),
			colCarrier:        string(order.Carrier),
			colTrackingNumber: order.TrackingNumber,
			colNotes:          order.Notes,
			colUpdatedAt:      order.UpdatedAt.UTC(),
			colShippedAt:      nullableTime(order.ShippedAt),
			colDeliveredAt:    nullableTime(order.DeliveredAt),
			colVersion:        order.Version,
		}).
		Where(
			goqu.C(colID).Eq(order.ID.String()),
			goqu.C(colVersion).Eq(expectedVersion),
		)

	sqlQuery, err := u.engine.toSQL(ctx, updateStmt)
	if err != nil {
		return err
	}

	rowsAffected, err := u.engine.exec(ctx, u.tx, sqlQuery, "update order envelope")
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return shop.ErrConcurrencyConflict
	}

	return nil
}

// ListOrdersByCustomer implements shop.OrderStore, newest first.
func (u *unitOfWork) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page shop.Page) ([]shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return nil, err
	}

	return u.selectOrders(ctx, paged(selectOrderColumns().Where(goqu.C(colCustomerID).Eq(customerID.String())), page))
}

// ListOrdersByStatus implements shop.OrderStore, newest first.
func (u *unitOfWork) ListOrdersByStatus(ctx context.Context, status shop.OrderStatus, page shop.Page) ([]shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return nil, err
	}

	return u.selectOrders(ctx, paged(selectOrderColumns().Where(goqu.C(colStatus).Eq(status.String())), page))
}

func selectOrderColumns() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableOrders).
		Select(
			goqu.C(colID).Cast(castText),
			goqu.C(colOrderNumber),
			goqu.C(colCustomerID).Cast(castText),
			goqu.C(colStatus),
			goqu.C(colSubtotal).Cast(castText),
			goqu.C(colTax).Cast(castText),
			goqu.C(colShipping).Cast(castText),
			goqu.C(colTotal).Cast(castText),
			goqu.C(colShippingAddress),
			goqu.C(colPaymentMethod),
			goqu.C(colCarrier),
			goqu.C(colTrackingNumber),
			goqu.C(colNotes),
			goqu.C(colCreatedAt),
			goqu.C(colUpdatedAt),
			goqu.C(colShippedAt),
			goqu.C(colDeliveredAt),
			goqu.C(colVersion),
		)
}

func paged(selectStmt *goqu.SelectDataset, page shop.Page) *goqu.SelectDataset {
	page = page.Normalized()

	return selectStmt.
		Order(goqu.C(colCreatedAt).Desc(), goqu.C(colOrderNumber).Desc()).
		Limit(uint(page.Limit)).
		Offset(uint(page.Offset))
}

// selectOrders loads the order rows first and their lines in a second statement.
func (u *unitOfWork) selectOrders(ctx context.Context, selectStmt *goqu.SelectDataset) ([]shop.Order, error) {
	sqlQuery, err := u.engine.toSQL(ctx, selectStmt)
	if err != nil {
		return nil, err
	}

	orders, err := u.scanOrders(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err = u.attachOrderLines(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

type orderRow struct {
	id, number, customerID, status string
	subtotal, tax, shipping, total string
	shippingAddress, paymentMethod string
	carrier, trackingNumber, notes string
	createdAt, updatedAt           time.Time
	shippedAt, deliveredAt         sql.NullTime
	version                        int64
}

func (u *unitOfWork) scanOrders(ctx context.Context, sqlQuery string) ([]shop.Order, error) {
	rows, err := u.engine.query(ctx, u.tx, sqlQuery, "load orders")
	if err != nil {
		return nil, err
	}
	defer u.engine.closeRows(ctx, rows)

	orders := make([]shop.Order, 0)

	for rows.Next() {
		var r orderRow

		scanErr := rows.Scan(
			&r.id, &r.number, &r.customerID, &r.status,
			&r.subtotal, &r.tax, &r.shipping, &r.total,
			&r.shippingAddress, &r.paymentMethod,
			&r.carrier, &r.trackingNumber, &r.notes,
			&r.createdAt, &r.updatedAt, &r.shippedAt, &r.deliveredAt,
			&r.version,
		)
		if scanErr != nil {
			u.engine.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
		}

		order, buildErr := r.toOrder()
		if buildErr != nil {
			return nil, errors.Join(shop.ErrScanningDBRowFailed, buildErr)
		}

		orders = append(orders, order)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return orders, nil
}

func (r orderRow) toOrder() (shop.Order, error) {
	orderID, err := uuid.Parse(r.id)
	if err != nil {
		return shop.Order{}, err
	}

	customerID, err := uuid.Parse(r.customerID)
	if err != nil {
		return shop.Order{}, err
	}

	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []string{r.subtotal, r.tax, r.shipping, r.total} {
		if amounts[i], err = decimal.NewFromString(raw); err != nil {
			return shop.Order{}, err
		}
	}

	return shop.Order{
		ID:              orderID,
		Number:          r.number,
		CustomerID:      customerID,
		Status:          shop.OrderStatus(r.status),
		Lines:           []shop.OrderLine{},
		Totals:          shop.Totals{Subtotal: amounts[0], Tax: amounts[1], Shipping: amounts[2], Total: amounts[3]},
		ShippingAddress: r.shippingAddress,
		PaymentMethod:   r.paymentMethod,
		Carrier:         shop.ShippingCarrier(r.carrier),
		TrackingNumber:  r.trackingNumber,
		Notes:           r.notes,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
		ShippedAt:       timeOrNil(r.shippedAt),
		DeliveredAt:     timeOrNil(r.deliveredAt),
		Version:         uint(r.version),
	}, nil
}

func (u *unitOfWork) attachOrderLines(ctx context.Context, orders []shop.Order) error {
	orderIDs := make([]string, 0, len(orders))
	indexByID := make(map[uuid.UUID]int, len(orders))

	for i, order := range orders {
		orderIDs = append(orderIDs, order.ID.String())
		indexByID[order.ID] = i
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableOrderLines).
		Select(
			goqu.C(colOrderID).Cast(castText),
			goqu.C(colItemID).Cast(castText),
			goqu.C(colTitle),
			goqu.C(colQuantity),
			goqu.C(colUnitPrice).Cast(castText),
		).
		Where(goqu.C(colOrderID).In(orderIDs)).
		Order(goqu.C(colOrderID).Asc(), goqu.C(colLineNo).Asc())

	sqlQuery, err := u.engine.toSQL(ctx, selectStmt)
	if err != nil {
		return err
	}

	rows, err := u.engine.query(ctx, u.tx, sqlQuery, "load order lines")
	if err != nil {
		return err
	}
	defer u.engine.closeRows(ctx, rows)

	for rows.Next() {
		var (
			rawOrderID, rawItemID, rawPrice string
			line                            shop.OrderLine
		)

		if scanErr := rows.Scan(&rawOrderID, &rawItemID, &line.Title, &line.Quantity, &rawPrice); scanErr != nil {
			u.engine.logError(ctx, logMsgScanRowFailed, scanErr)
			return errors.Join(shop.ErrScanningDBRowFailed, scanErr)
		}

		orderID, parseErr := uuid.Parse(rawOrderID)
		if parseErr != nil {
			return errors.Join(shop.ErrScanningDBRowFailed, parseErr)
		}

		if line.ItemID, parseErr = uuid.Parse(rawItemID); parseErr != nil {
			return errors.Join(shop.ErrScanningDBRowFailed, parseErr)
		}

		if line.UnitPrice, parseErr = decimal.NewFromString(rawPrice); parseErr != nil {
			return errors.Join(shop.ErrScanningDBRowFailed, parseErr)
		}

		idx := indexByID[orderID]
		orders[idx].Lines = append(orders[idx].Lines, line)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.UTC()
}

func timeOrNil(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time

	return &v
}
