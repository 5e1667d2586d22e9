package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell/config"
	"github.com/AntonStoeckl/checkout-engine-go/shop/postgresengine"
)

// Engine type constants, selected with the ADAPTER_TYPE environment variable.
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const truncateAll = "TRUNCATE TABLE order_lines, orders, cart_lines, carts, catalog_items, app_users"

// Wrapper abstracts over the three connection types the engine supports.
type Wrapper interface {
	GetEngine() *postgresengine.Engine
	Exec(ctx context.Context, query string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool   *pgxpool.Pool
	engine *postgresengine.Engine
}

func (w *PGXPoolWrapper) GetEngine() *postgresengine.Engine { return w.engine }

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) Close() { w.pool.Close() }

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db     *sql.DB
	engine *postgresengine.Engine
}

func (w *SQLDBWrapper) GetEngine() *postgresengine.Engine { return w.engine }

func (w *SQLDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) Close() { _ = w.db.Close() }

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db     *sqlx.DB
	engine *postgresengine.Engine
}

func (w *SQLXWrapper) GetEngine() *postgresengine.Engine { return w.engine }

func (w *SQLXWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) Close() { _ = w.db.Close() }

// CreateWrapperWithTestConfig connects to the test database with the adapter named in ADAPTER_TYPE,
// migrates the schema and empties all tables. The test is skipped when the database is unreachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := connect(ctx, t, options...)

	require.NoError(t, wrapper.GetEngine().Migrate(ctx), "error migrating the test schema")
	CleanUp(t, wrapper)

	return wrapper
}

func connect(ctx context.Context, t testing.TB, options ...postgresengine.Option) Wrapper {
	dsn := config.PostgresTestDSN()
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch engineTypeFromEnv {
	case typePGXPool, "":
		poolConfig, err := config.PostgresPGXPoolConfig(dsn, config.DefaultPoolSettings())
		require.NoError(t, err, "error parsing the test DSN")

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error creating the DB pool in test setup")

		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			t.Skipf("postgres is not reachable: %v", pingErr)
		}

		engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating the engine")

		return &PGXPoolWrapper{pool: pool, engine: engine}

	case typeSQLDB:
		db, err := config.OpenPostgresSQLDB(ctx, dsn, config.DefaultPoolSettings())
		if err != nil {
			t.Skipf("postgres is not reachable: %v", err)
		}

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the engine")

		return &SQLDBWrapper{db: db, engine: engine}

	case typeSQLXDB:
		db, err := config.OpenPostgresSQLX(ctx, dsn, config.DefaultPoolSettings())
		if err != nil {
			t.Skipf("postgres is not reachable: %v", err)
		}

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		require.NoError(t, err, "error creating the engine")

		return &SQLXWrapper{db: db, engine: engine}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}

// CleanUp empties all shop tables.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	require.NoError(t, wrapper.Exec(context.Background(), truncateAll), "error cleaning up the shop tables")
}
