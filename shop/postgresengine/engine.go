package postgresengine

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
	"github.com/AntonStoeckl/checkout-engine-go/shop/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed    = "failed to build sql query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitFailed        = "failed to commit transaction"
	logMsgRollbackFailed      = "failed to roll back transaction"
	logMsgUnitOfWorkCommitted = "unit of work committed"
	logMsgStockConflict       = "stock version conflict detected"
	logMsgSchemaMigrated      = "schema migrated"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "shop operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrDurationMS         = "duration_ms"
	logAttrItemID             = "item_id"
	logAttrAttempt            = "attempt"

	dialectPostgres = "postgres"
	castText        = "TEXT"

	tableUsers        = "app_users"
	tableCatalogItems = "catalog_items"
	tableCarts        = "carts"
	tableCartLines    = "cart_lines"
	tableOrders       = "orders"
	tableOrderLines   = "order_lines"

	colID              = "id"
	colRole            = "role"
	colTitle           = "title"
	colUnitPrice       = "unit_price"
	colQuantityOnHand  = "quantity_on_hand"
	colVersion         = "version"
	colCustomerID      = "customer_id"
	colUpdatedAt       = "updated_at"
	colLineNo          = "line_no"
	colItemID          = "item_id"
	colQuantity        = "quantity"
	colOrderID         = "order_id"
	colOrderNumber     = "order_number"
	colStatus          = "status"
	colSubtotal        = "subtotal"
	colTax             = "tax"
	colShipping        = "shipping"
	colTotal           = "total"
	colShippingAddress = "shipping_address"
	colPaymentMethod   = "payment_method"
	colCarrier         = "carrier"
	colTrackingNumber  = "tracking_number"
	colNotes           = "notes"
	colCreatedAt       = "created_at"
	colShippedAt       = "shipped_at"
	colDeliveredAt     = "delivered_at"
)

//go:embed schema.sql
var schemaDDL string

// executor is satisfied by both the adapter and an open transaction.
type executor interface {
	Query(ctx context.Context, query string) (adapters.DBRows, error)
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

// Engine is a shop.UnitOfWorkFactory and shop.IdentityResolver backed by PostgreSQL.
type Engine struct {
	db               adapters.DBAdapter
	logger           shop.Logger
	contextualLogger shop.ContextualLogger
	metricsCollector shop.MetricsCollector
	tracingCollector shop.TracingCollector
	stockStrategy    StockStrategy
	maxStockRetries  int
	clock            func() time.Time
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (*Engine, error) {
	e := &Engine{
		db:              db,
		stockStrategy:   StockStrategyRowLock,
		maxStockRetries: defaultMaxStockRetries,
		clock:           time.Now,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Migrate creates all tables and indexes if they do not exist yet.
func (e *Engine) Migrate(ctx context.Context) error {
	if _, err := e.exec(ctx, e.db, schemaDDL, "migrate"); err != nil {
		return err
	}

	e.logOperation(ctx, logMsgSchemaMigrated)

	return nil
}

// BeginUnitOfWork implements shop.UnitOfWorkFactory with a read-committed transaction.
func (e *Engine) BeginUnitOfWork(ctx context.Context) (shop.UnitOfWork, error) {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		e.logError(ctx, logMsgBeginTxFailed, err)
		return nil, errors.Join(shop.ErrBeginningTransactionFailed, err)
	}

	return &unitOfWork{engine: e, tx: tx, started: time.Now()}, nil
}

// PutCatalogItem inserts or replaces a catalog item, including its quantity on hand.
func (e *Engine) PutCatalogItem(ctx context.Context, item shop.CatalogItem) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableCatalogItems).
		Rows(goqu.Record{
			colID:             item.ID.String(),
			colTitle:          item.Title,
			colUnitPrice:      item.UnitPrice.StringFixed(2),
			colQuantityOnHand: item.QuantityOnHand,
		}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{
			colTitle:          goqu.I("excluded." + colTitle),
			colUnitPrice:      goqu.I("excluded." + colUnitPrice),
			colQuantityOnHand: goqu.I("excluded." + colQuantityOnHand),
			colVersion:        goqu.L(tableCatalogItems + "." + colVersion + " + 1"),
		}))

	sqlQuery, err := e.toSQL(ctx, insertStmt)
	if err != nil {
		return err
	}

	_, err = e.exec(ctx, e.db, sqlQuery, "put catalog item")

	return err
}

// QuantityOnHand returns the committed stock of an item.
func (e *Engine) QuantityOnHand(ctx context.Context, itemID uuid.UUID) (int, error) {
	item, _, err := e.loadItem(ctx, e.db, itemID)
	if err != nil {
		return 0, err
	}

	return item.QuantityOnHand, nil
}

// PutActor inserts or replaces a user with a role.
func (e *Engine) PutActor(ctx context.Context, actor shop.Actor) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableUsers).
		Rows(goqu.Record{colID: actor.UserID.String(), colRole: string(actor.Role)}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{colRole: goqu.I("excluded." + colRole)}))

	sqlQuery, err := e.toSQL(ctx, insertStmt)
	if err != nil {
		return err
	}

	_, err = e.exec(ctx, e.db, sqlQuery, "put actor")

	return err
}

// ResolveActor implements shop.IdentityResolver.
func (e *Engine) ResolveActor(ctx context.Context, userID uuid.UUID) (shop.Actor, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableUsers).
		Select(colRole).
		Where(goqu.C(colID).Eq(userID.String()))

	sqlQuery, err := e.toSQL(ctx, selectStmt)
	if err != nil {
		return shop.Actor{}, err
	}

	rows, err := e.query(ctx, e.db, sqlQuery, "resolve actor")
	if err != nil {
		return shop.Actor{}, err
	}
	defer e.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return shop.Actor{}, errors.Join(shop.ErrQueryingFailed, rowsErr)
		}

		return shop.Actor{}, shop.NewNotFoundError("User not found")
	}

	var rawRole string
	if scanErr := rows.Scan(&rawRole); scanErr != nil {
		e.logError(ctx, logMsgScanRowFailed, scanErr)
		return shop.Actor{}, errors.Join(shop.ErrScanningDBRowFailed, scanErr)
	}

	role, err := shop.ParseRole(rawRole)
	if err != nil {
		return shop.Actor{}, errors.Join(shop.ErrScanningDBRowFailed, err)
	}

	return shop.Actor{UserID: userID, Role: role}, nil
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// toSQL renders a goqu dataset with all values interpolated.
func (e *Engine) toSQL(ctx context.Context, builder sqlBuilder) (string, error) {
	sqlQuery, _, err := builder.ToSQL()
	if err != nil {
		e.logError(ctx, logMsgBuildQueryFailed, err)
		return "", errors.Join(shop.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// query runs a statement that returns rows and logs it with its duration.
func (e *Engine) query(ctx context.Context, db executor, sqlQuery, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, err := db.Query(ctx, sqlQuery)
	e.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if err != nil {
		e.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		e.recordDatabaseError(ctx, action, "query")

		return nil, errors.Join(shop.ErrQueryingFailed, err)
	}

	return rows, nil
}

// exec runs a statement without result rows and returns the number of affected rows.
func (e *Engine) exec(ctx context.Context, db executor, sqlQuery, action string) (int64, error) {
	start := time.Now()
	result, err := db.Exec(ctx, sqlQuery)
	e.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if err != nil {
		e.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		e.recordDatabaseError(ctx, action, "exec")

		return 0, errors.Join(shop.ErrWritingFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		e.logError(ctx, logMsgRowsAffectedFailed, err)
		return 0, errors.Join(shop.ErrGettingRowsAffectedFailed, err)
	}

	return rowsAffected, nil
}

// closeRows closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarning(ctx, logMsgCloseRowsFailed, closeErr)
	}
}
