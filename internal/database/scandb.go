package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/siteaudit/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "siteaudit.db"

// scannedAtFormat is fixed-width so that lexical order equals time order.
const scannedAtFormat = "2006-01-02 15:04:05.000000000"

// ScanDB provides SQLite-based storage for scan results.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB in dbDir.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the path of the database file.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

func (sdb *ScanDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		score INTEGER NOT NULL,
		scanned_at TEXT NOT NULL,
		result_json TEXT NOT NULL,
		digest TEXT NOT NULL,
		severity_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_results_url ON scan_results(url);
	CREATE INDEX IF NOT EXISTS idx_results_scanned_at ON scan_results(scanned_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex-encoded SHA3-256 digest of a stored document.
func Digest(resultJSON []byte) string {
	sum := sha3.Sum256(resultJSON)
	return hex.EncodeToString(sum[:])
}

// SaveScanResult stores a completed scan and returns its row ID.
func (sdb *ScanDB) SaveScanResult(ctx context.Context, result *model.ScanResult) (int64, error) {
	if result == nil {
		return 0, ErrNilResult
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize scan result: %w", err)
	}

	summary := model.NewSummary(result)
	severityJSON, _ := json.Marshal(summary.SeverityMap()) //nolint:errcheck,errchkjson // map[string]int always marshals

	scannedAt := result.CompletedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}

	query := `
	INSERT INTO scan_results (scan_id, url, domain, score, scanned_at, result_json, digest, severity_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := sdb.db.ExecContext(ctx, query,
		result.ID,
		result.Target.URL,
		result.Target.Domain(),
		result.Score,
		scannedAt.UTC().Format(scannedAtFormat),
		string(resultJSON),
		Digest(resultJSON),
		string(severityJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scan result: %w", err)
	}

	return res.LastInsertId()
}

// GetLatestScanResult retrieves the most recent scan of url.
// It returns nil without error when url has never been scanned.
func (sdb *ScanDB) GetLatestScanResult(ctx context.Context, url string) (*model.ScanResult, error) {
	query := `
	SELECT result_json, digest FROM scan_results
	WHERE url = ?
	ORDER BY scanned_at DESC, id DESC
	LIMIT 1
	`
	return sdb.queryOne(ctx, query, url)
}

// GetScanResultByID retrieves a scan result by its database ID.
// It returns nil without error when no row has that ID.
func (sdb *ScanDB) GetScanResultByID(ctx context.Context, id int64) (*model.ScanResult, error) {
	query := `
	SELECT result_json, digest FROM scan_results
	WHERE id = ?
	`
	return sdb.queryOne(ctx, query, id)
}

func (sdb *ScanDB) queryOne(ctx context.Context, query string, arg any) (*model.ScanResult, error) {
	var resultJSON, digest string
	err := sdb.db.QueryRowContext(ctx, query, arg).Scan(&resultJSON, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}
	return decodeResult(resultJSON, digest)
}

// GetScanHistory retrieves every scan of url, newest first.
// Rows that fail to decode or whose digest no longer matches are skipped.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, url string) ([]*model.ScanResult, error) {
	query := `
	SELECT result_json, digest FROM scan_results
	WHERE url = ?
	ORDER BY scanned_at DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []*model.ScanResult
	for rows.Next() {
		var resultJSON, digest string
		if err := rows.Scan(&resultJSON, &digest); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		result, err := decodeResult(resultJSON, digest)
		if err != nil {
			continue
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// ScanMetadata contains summary information about a stored scan.
// It is used for listing history without decoding full results.
type ScanMetadata struct {
	// ID is the row ID of the scan in the database.
	ID int64

	// ScanID is the UUID of the scan result.
	ScanID string

	// URL is the scanned website.
	URL string

	// Score is the health score of the scan.
	Score int

	// ScannedAt is when the scan completed.
	ScannedAt time.Time

	// SeveritySummary contains counts of insights by severity name.
	SeveritySummary map[string]int
}

// GetScanHistoryWithMetadata retrieves scan metadata for url, newest first.
func (sdb *ScanDB) GetScanHistoryWithMetadata(ctx context.Context, url string) ([]ScanMetadata, error) {
	query := `
	SELECT id, scan_id, url, score, scanned_at, severity_summary
	FROM scan_results
	WHERE url = ?
	ORDER BY scanned_at DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var scannedAt string
		var severityJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.ScanID, &meta.URL, &meta.Score, &scannedAt, &severityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.ScannedAt = parseTimestamp(scannedAt)
		meta.SeveritySummary = make(map[string]int)
		if severityJSON.Valid && severityJSON.String != "" {
			if err := json.Unmarshal([]byte(severityJSON.String), &meta.SeveritySummary); err != nil {
				meta.SeveritySummary = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListScannedTargets returns every URL with at least one stored scan.
func (sdb *ScanDB) ListScannedTargets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM scan_results
	ORDER BY url
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

func decodeResult(resultJSON, digest string) (*model.ScanResult, error) {
	if Digest([]byte(resultJSON)) != digest {
		return nil, ErrDigestMismatch
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse scan result: %w", err)
	}
	return &result, nil
}

// timestampFormats contains the timestamp formats the table may hold.
var timestampFormats = []string{
	scannedAtFormat,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp parses s with each known format and returns the zero time
// when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
