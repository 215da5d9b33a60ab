package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fibremap/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository stores topology snapshots in SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases alive and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS splice_closures (
		seq INTEGER PRIMARY KEY,
		label TEXT NOT NULL,
		enc_type TEXT,
		olt_name TEXT,
		attributes JSON
	);

	CREATE TABLE IF NOT EXISTS feeder_cables (
		seq INTEGER PRIMARY KEY,
		label TEXT NOT NULL,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		attributes JSON
	);

	CREATE TABLE IF NOT EXISTS optical_taps (
		seq INTEGER PRIMARY KEY,
		label TEXT NOT NULL,
		attributes JSON
	);

	CREATE TABLE IF NOT EXISTS fibre_cables (
		seq INTEGER PRIMARY KEY,
		label TEXT NOT NULL,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		attributes JSON
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fibre_cables_from ON fibre_cables(from_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ImportTopology replaces the stored snapshot with t
func (r *Repository) ImportTopology(ctx context.Context, t *domain.Topology, source string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"splice_closures", "feeder_cables", "optical_taps", "fibre_cables"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	closureStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO splice_closures (seq, label, enc_type, olt_name, attributes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare closure statement: %w", err)
	}
	defer closureStmt.Close()

	for i, c := range t.SpliceClosures {
		attrs, err := marshalAttributes(c.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal closure %s: %w", c.Label, err)
		}
		if _, err := closureStmt.ExecContext(ctx, i, c.Label, stringToNull(c.EncType), stringToNull(c.OLTName), attrs); err != nil {
			return fmt.Errorf("failed to insert closure %s: %w", c.Label, err)
		}
	}

	feederStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feeder_cables (seq, label, from_id, to_id, attributes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare feeder statement: %w", err)
	}
	defer feederStmt.Close()

	for i, f := range t.FeederCables {
		attrs, err := marshalAttributes(f.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal feeder %s: %w", f.Label, err)
		}
		if _, err := feederStmt.ExecContext(ctx, i, f.Label, f.From, f.To, attrs); err != nil {
			return fmt.Errorf("failed to insert feeder %s: %w", f.Label, err)
		}
	}

	tapStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO optical_taps (seq, label, attributes) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare tap statement: %w", err)
	}
	defer tapStmt.Close()

	for i, tap := range t.OpticalTaps {
		attrs, err := marshalAttributes(tap.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal tap %s: %w", tap.Label, err)
		}
		if _, err := tapStmt.ExecContext(ctx, i, tap.Label, attrs); err != nil {
			return fmt.Errorf("failed to insert tap %s: %w", tap.Label, err)
		}
	}

	fibreStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fibre_cables (seq, label, from_id, to_id, attributes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fibre statement: %w", err)
	}
	defer fibreStmt.Close()

	for i, f := range t.FibreCables {
		attrs, err := marshalAttributes(f.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal fibre %s: %w", f.Label, err)
		}
		if _, err := fibreStmt.ExecContext(ctx, i, f.Label, f.From, f.To, attrs); err != nil {
			return fmt.Errorf("failed to insert fibre %s: %w", f.Label, err)
		}
	}

	if err := setMetadata(ctx, tx, "source", source); err != nil {
		return err
	}
	if err := setMetadata(ctx, tx, "last_import", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func setMetadata(ctx context.Context, tx *sql.Tx, key, value string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// LoadTopology reads the stored snapshot. Returns nil, nil if nothing has
// been imported yet.
func (r *Repository) LoadTopology(ctx context.Context) (*domain.Topology, error) {
	info, err := r.LastImport(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	t := domain.NewTopology()

	if err := r.loadClosures(ctx, t); err != nil {
		return nil, err
	}
	if err := r.loadFeeders(ctx, t); err != nil {
		return nil, err
	}
	if err := r.loadTaps(ctx, t); err != nil {
		return nil, err
	}
	if err := r.loadFibres(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (r *Repository) loadClosures(ctx context.Context, t *domain.Topology) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, enc_type, olt_name, attributes FROM splice_closures ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("failed to query closures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label            string
			encType, oltName sql.NullString
			attrs            sql.NullString
		)
		if err := rows.Scan(&label, &encType, &oltName, &attrs); err != nil {
			return fmt.Errorf("failed to scan closure: %w", err)
		}
		attributes, err := unmarshalAttributes(attrs)
		if err != nil {
			return fmt.Errorf("failed to unmarshal closure %s attributes: %w", label, err)
		}
		t.SpliceClosures = append(t.SpliceClosures, domain.Closure{
			Label:      label,
			EncType:    nullToString(encType),
			OLTName:    nullToString(oltName),
			Attributes: attributes,
		})
	}
	return rows.Err()
}

func (r *Repository) loadFeeders(ctx context.Context, t *domain.Topology) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, from_id, to_id, attributes FROM feeder_cables ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("failed to query feeders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label, from, to string
			attrs           sql.NullString
		)
		if err := rows.Scan(&label, &from, &to, &attrs); err != nil {
			return fmt.Errorf("failed to scan feeder: %w", err)
		}
		attributes, err := unmarshalAttributes(attrs)
		if err != nil {
			return fmt.Errorf("failed to unmarshal feeder %s attributes: %w", label, err)
		}
		t.FeederCables = append(t.FeederCables, domain.FeederCable{
			From:       from,
			To:         to,
			Label:      label,
			Attributes: attributes,
		})
	}
	return rows.Err()
}

func (r *Repository) loadTaps(ctx context.Context, t *domain.Topology) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, attributes FROM optical_taps ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("failed to query taps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label string
			attrs sql.NullString
		)
		if err := rows.Scan(&label, &attrs); err != nil {
			return fmt.Errorf("failed to scan tap: %w", err)
		}
		attributes, err := unmarshalAttributes(attrs)
		if err != nil {
			return fmt.Errorf("failed to unmarshal tap %s attributes: %w", label, err)
		}
		t.OpticalTaps = append(t.OpticalTaps, domain.OpticalTap{
			Label:      label,
			Attributes: attributes,
		})
	}
	return rows.Err()
}

func (r *Repository) loadFibres(ctx context.Context, t *domain.Topology) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, from_id, to_id, attributes FROM fibre_cables ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("failed to query fibres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label, from, to string
			attrs           sql.NullString
		)
		if err := rows.Scan(&label, &from, &to, &attrs); err != nil {
			return fmt.Errorf("failed to scan fibre: %w", err)
		}
		attributes, err := unmarshalAttributes(attrs)
		if err != nil {
			return fmt.Errorf("failed to unmarshal fibre %s attributes: %w", label, err)
		}
		t.FibreCables = append(t.FibreCables, domain.FibreCable{
			From:       from,
			To:         to,
			Label:      label,
			Attributes: attributes,
		})
	}
	return rows.Err()
}

// ImportInfo describes the stored snapshot
type ImportInfo struct {
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"imported_at"`
}

// LastImport returns when and from where the snapshot was imported, or nil
// if nothing has been imported
func (r *Repository) LastImport(ctx context.Context) (*ImportInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value FROM metadata WHERE key IN ('source', 'last_import')
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	var (
		info  ImportInfo
		found bool
	)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		switch key {
		case "source":
			info.Source = value
		case "last_import":
			at, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, fmt.Errorf("invalid import timestamp %q: %w", value, err)
			}
			info.ImportedAt = at
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}
	return &info, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
