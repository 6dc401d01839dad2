/*
Package sqlite implementa el libro de lotes sobre SQLite (mattn/go-sqlite3).

CONCURRENCIA:
  Una sola conexión abierta: las unidades de trabajo se ejecutan de a una.
  Las transacciones abren con BEGIN IMMEDIATE (_txlock=immediate), que toma el
  bloqueo de escritura al inicio; si otro proceso lo tiene, SQLite espera hasta
  busy_timeout y luego devuelve SQLITE_BUSY, que se mapea a domain.ErrContention.

ESQUEMA:
  Se crea al abrir (CREATE TABLE IF NOT EXISTS). Cantidades como TEXT decimal
  exacto, fechas como TEXT en UTC con ancho fijo (orden lexicográfico = temporal).
  La unicidad de nombres usa la columna name_key (entity.NameKey).
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
)

const driverName = "sqlite3_lotes"

// timeLayout ancho fijo para que el orden de texto coincida con el temporal.
const (
	timeLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout = "2006-01-02"
)

func init() {
	// fold: minúsculas Unicode (lower() de SQLite solo cubre ASCII).
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// Store almacenamiento SQLite; implementa inventory.TxRunner.
type Store struct {
	db *sql.DB
}

var _ inventory.TxRunner = (*Store)(nil)

// New abre (o crea) la base en path y aplica el esquema. Usar ":memory:" para una base efímera.
// busyTimeout acota la espera por el bloqueo de escritura de otro proceso.
func New(path string, busyTimeout time.Duration) (*Store, error) {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_txlock", "immediate")
	q.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	if path != ":memory:" {
		q.Set("_journal_mode", "WAL")
	}
	db, err := sql.Open(driverName, "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return s, nil
}

// Close cierra la conexión.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		name_key    TEXT NOT NULL UNIQUE,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS items (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		name_key     TEXT NOT NULL UNIQUE,
		category_id  TEXT NULL REFERENCES categories (id) ON DELETE SET NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ix_items_category ON items (category_id);

	CREATE TABLE IF NOT EXISTS lots (
		seq                 INTEGER PRIMARY KEY AUTOINCREMENT,
		id                  TEXT NOT NULL UNIQUE,
		item_id             TEXT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		quantity_received   TEXT NOT NULL,
		quantity_remaining  TEXT NOT NULL,
		expiry_date         TEXT NULL,
		received_at         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ix_lots_item ON lots (item_id);

	CREATE TABLE IF NOT EXISTS movements (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		item_id     TEXT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		kind        TEXT NOT NULL CHECK (kind IN ('receive', 'issue')),
		quantity    TEXT NOT NULL,
		lot_id      TEXT NOT NULL REFERENCES lots (id) ON DELETE CASCADE,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ix_movements_created ON movements (created_at DESC, seq DESC);
	CREATE INDEX IF NOT EXISTS ix_movements_item_kind ON movements (item_id, kind, created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Run ejecuta fn en una transacción BEGIN IMMEDIATE: Commit si fn devuelve nil, Rollback si no.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.inTx(ctx, fn)
}

// View ejecuta fn en una transacción; con una única conexión ninguna escritura se intercala.
func (s *Store) View(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.inTx(ctx, fn)
}

func (s *Store) inTx(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

func reposFor(tx *sql.Tx) inventory.TxRepos {
	return inventory.TxRepos{
		Items:      &itemRepo{tx: tx},
		Categories: &categoryRepo{tx: tx},
		Lots:       &lotRepo{tx: tx},
		Movements:  &movementRepo{tx: tx},
	}
}

func sqliteCode(err error) (sqlite3.Error, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se, true
	}
	return sqlite3.Error{}, false
}

func isUniqueViolation(err error) bool {
	se, ok := sqliteCode(err)
	return ok && (se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

func isForeignKeyViolation(err error) bool {
	se, ok := sqliteCode(err)
	return ok && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// classify envuelve SQLITE_BUSY y SQLITE_LOCKED en domain.ErrContention.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := sqliteCode(err); ok && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrContention, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
