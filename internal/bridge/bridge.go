package bridge

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"
)

var (
	// ErrWriterUnavailable reports that no native event writer capability
	// is present. The bridge type is unavailable without it, not degraded.
	ErrWriterUnavailable = errors.New("bridge: native event writer unavailable")
	// ErrPartialClear reports that one half of the coupled clear succeeded
	// and the other failed.
	ErrPartialClear = errors.New("bridge: partial clear")
	// ErrScheme reports a connection URI with the wrong scheme.
	ErrScheme = errors.New("bridge: connection URI must use the duckdb:// scheme")
)

// Persisted table names written by the native writer.
const (
	tableSimulatedShower    = "SimulatedShower"
	tableReconstructedEvent = "ReconstructedEvent"
	tableTelescope          = "Telescope"
)

// EventWriter is the external native writer boundary. The bridge forwards
// calls unchanged; it does not reimplement writing.
type EventWriter interface {
	// Write persists events from a source. The source is opaque to the
	// bridge.
	Write(source any, useTrue bool) error
	// Clear truncates the writer's backing tables.
	Clear() error
}

// NativeWriter resolves the native writer capability once at startup. This
// build links no native binding, so the capability is absent and New fails
// with ErrWriterUnavailable; embedders supply their own EventWriter.
func NativeWriter() (EventWriter, error) {
	return nil, ErrWriterUnavailable
}

// Bridge wraps the external writer and layers a cached read path over the
// persisted event store: two independent lazily-materialized joins.
//
// A bridge is single-caller state: the cached connection and frames are
// per-instance and unsynchronized. Callers sharing one bridge across
// goroutines must add their own locking around the first-access fill.
type Bridge struct {
	path string
	w    EventWriter

	db         *sql.DB
	eventFrame *Frame
	telFrame   *Frame
}

// ParsePath extracts the database path from a duckdb:// connection URI.
func ParsePath(uri string) (string, error) {
	path, ok := strings.CutPrefix(uri, "duckdb://")
	if !ok || path == "" {
		return "", fmt.Errorf("%w, got %q", ErrScheme, uri)
	}
	return path, nil
}

// New opens a bridge over a duckdb:// URI. A nil writer fails construction:
// the capability is mandatory, never a silent no-op. With overwrite set the
// database file is removed first.
func New(uri string, w EventWriter, overwrite bool) (*Bridge, error) {
	if w == nil {
		return nil, ErrWriterUnavailable
	}
	path, err := ParsePath(uri)
	if err != nil {
		return nil, err
	}
	if overwrite {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("overwrite %s: %w", path, err)
		}
	}
	return &Bridge{path: path, w: w}, nil
}

// Write delegates verbatim to the native writer's per-event primitive.
func (b *Bridge) Write(source any, useTrue bool) error {
	return b.w.Write(source, useTrue)
}

// connect opens the connection on first use and caches it for the bridge's
// lifetime.
func (b *Bridge) connect() (*sql.DB, error) {
	if b.db != nil {
		return b.db, nil
	}
	db, err := sql.Open("duckdb", b.path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", b.path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect duckdb %s: %w", b.path, err)
	}
	b.db = db
	return db, nil
}

// EventFrame returns the event-level join, SimulatedShower with
// ReconstructedEvent on event_id, materialized on first access and cached.
func (b *Bridge) EventFrame() (*Frame, error) {
	if b.eventFrame != nil {
		return b.eventFrame, nil
	}
	f, err := b.join(tableSimulatedShower, tableReconstructedEvent)
	if err != nil {
		return nil, err
	}
	b.eventFrame = f
	return f, nil
}

// TelescopeFrame returns the telescope-level join, Telescope with
// SimulatedShower on event_id, materialized on first access and cached.
func (b *Bridge) TelescopeFrame() (*Frame, error) {
	if b.telFrame != nil {
		return b.telFrame, nil
	}
	f, err := b.join(tableTelescope, tableSimulatedShower)
	if err != nil {
		return nil, err
	}
	b.telFrame = f
	return f, nil
}

func (b *Bridge) join(left, right string) (*Frame, error) {
	db, err := b.connect()
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT * FROM %s INNER JOIN %s USING (event_id)`, left, right)
	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("join %s with %s: %w", left, right, err)
	}
	return readFrame(rows)
}

// Clear drops the cached frames and truncates the writer's tables. The two
// clears are coupled: when the truncate fails after the caches were
// dropped, the result is a partial failure, surfaced distinctly from total
// success.
func (b *Bridge) Clear() error {
	b.eventFrame = nil
	b.telFrame = nil
	if err := b.w.Clear(); err != nil {
		return fmt.Errorf("%w: caches dropped but writer truncate failed: %v", ErrPartialClear, err)
	}
	return nil
}

// Close releases the cached connection.
func (b *Bridge) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
