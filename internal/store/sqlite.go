package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/sells-group/boundary-cli/internal/extract"
)

// SRID of stored geometries (WGS 84 longitude/latitude).
const SRID = 4326

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	municipalities INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS municipalities (
	relation_id    TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	admin_level    TEXT NOT NULL,
	border_type    TEXT,
	wikidata       TEXT,
	wikipedia      TEXT,
	area_sq_meters REAL NOT NULL,
	area_sq_miles  REAL,
	geom           BLOB,
	run_id         TEXT NOT NULL REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_municipalities_name ON municipalities(name);
CREATE INDEX IF NOT EXISTS idx_municipalities_run_id ON municipalities(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, source string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, RunStatusRunning, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:        id,
		Source:    source,
		Status:    RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		RunStatusFailed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, status, municipalities, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	).Scan(&r.ID, &r.Source, &r.Status, &r.Municipalities, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return &r, nil
}

const upsertMunicipality = `
INSERT INTO municipalities (
	relation_id, name, admin_level, border_type, wikidata, wikipedia,
	area_sq_meters, area_sq_miles, geom, run_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (relation_id) DO UPDATE SET
	name = excluded.name,
	admin_level = excluded.admin_level,
	border_type = excluded.border_type,
	wikidata = excluded.wikidata,
	wikipedia = excluded.wikipedia,
	area_sq_meters = excluded.area_sq_meters,
	area_sq_miles = excluded.area_sq_miles,
	geom = excluded.geom,
	run_id = excluded.run_id`

// SaveMunicipalities upserts ms in one transaction keyed by relation ID and
// marks the run complete.
func (s *SQLiteStore) SaveMunicipalities(ctx context.Context, runID string, ms []extract.Municipality) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertMunicipality)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, m := range ms {
		wkb, err := EncodeGeometry(m.Geometry)
		if err != nil {
			return eris.Wrapf(err, "sqlite: municipality %s", m.RelationID)
		}
		_, err = stmt.ExecContext(ctx,
			m.RelationID, m.Name, m.AdminLevel, m.BorderType, m.Wikidata, m.Wikipedia,
			m.AreaSqMeters, m.AreaSqMiles, wkb, runID,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert municipality %s", m.RelationID)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, municipalities = ?, updated_at = ? WHERE id = ?`,
		RunStatusComplete, len(ms), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	if err := checkRowsAffected(res, "run", runID); err != nil {
		return err
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

const selectMunicipality = `SELECT relation_id, name, admin_level, border_type, wikidata, wikipedia,
	area_sq_meters, area_sq_miles, geom, run_id FROM municipalities`

func (s *SQLiteStore) GetMunicipality(ctx context.Context, relationID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectMunicipality+` WHERE relation_id = ?`, relationID)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("municipality not found: %s", relationID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get municipality")
	}
	return r, nil
}

func (s *SQLiteStore) ListMunicipalities(ctx context.Context, filter Filter) ([]Record, error) {
	query := selectMunicipality + ` WHERE 1=1`
	var args []any

	if filter.AdminLevel != "" {
		query += ` AND admin_level = ?`
		args = append(args, filter.AdminLevel)
	}
	if filter.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, filter.RunID)
	}
	query += ` ORDER BY name, relation_id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list municipalities")
	}
	defer rows.Close() //nolint:errcheck

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan municipality")
		}
		out = append(out, *r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list municipalities iterate")
}

// EncodeGeometry returns g as little-endian EWKB tagged with SRID. A nil
// geometry encodes as nil.
func EncodeGeometry(g geom.T) ([]byte, error) {
	var tagged geom.T
	switch t := g.(type) {
	case nil:
		return nil, nil
	case *geom.Polygon:
		tagged = t.Clone().SetSRID(SRID)
	case *geom.MultiPolygon:
		tagged = t.Clone().SetSRID(SRID)
	default:
		return nil, eris.Errorf("sqlite: unsupported geometry %T", g)
	}

	data, err := ewkb.Marshal(tagged, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: encode EWKB")
	}
	return data, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*Record, error) {
	var (
		r                               Record
		borderType, wikidata, wikipedia sql.NullString
		miles                           sql.NullFloat64
	)
	err := row.Scan(&r.RelationID, &r.Name, &r.AdminLevel, &borderType, &wikidata, &wikipedia,
		&r.AreaSqMeters, &miles, &r.Geometry, &r.RunID)
	if err != nil {
		return nil, err
	}
	r.BorderType = nullString(borderType)
	r.Wikidata = nullString(wikidata)
	r.Wikipedia = nullString(wikipedia)
	if miles.Valid {
		r.AreaSqMiles = &miles.Float64
	}
	return &r, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
