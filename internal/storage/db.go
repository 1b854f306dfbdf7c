package storage

import (
	"crypto/md5"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/renderinc/blog-search/internal/blog"
)

const dateLayout = "2006-01-02"

// DB wraps SQLite database operations
type DB struct {
	db *sql.DB
}

// ReplaceStats reports what a Replace changed
type ReplaceStats struct {
	Stored    int
	Changed   int // New, or content hash differs from the previous build
	Unchanged int
}

// Open opens or creates a SQLite database
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	storage := &DB{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return storage, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates tables if they don't exist
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		subtitle TEXT NOT NULL,
		banner TEXT NOT NULL,
		tags TEXT NOT NULL,
		authors TEXT NOT NULL,
		date_posted TEXT,
		date_updated TEXT,
		posted_str TEXT NOT NULL,
		updated_str TEXT NOT NULL,
		language TEXT NOT NULL,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		manifest_total INTEGER NOT NULL,
		built_at TIMESTAMP NOT NULL
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Replace stores a whole corpus in one transaction, dropping the previous one.
// total is the manifest length of the build.
func (d *DB) Replace(docs []blog.Document, total int) (*ReplaceStats, error) {
	previous, err := d.contentHashes()
	if err != nil {
		return nil, fmt.Errorf("load content hashes: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM documents"); err != nil {
		return nil, fmt.Errorf("clear documents: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO documents (
		id, url, title, subtitle, banner, tags, authors, date_posted, date_updated,
		posted_str, updated_str, language, content, content_hash
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	stats := &ReplaceStats{}
	for i := range docs {
		doc := &docs[i]

		tags, err := json.Marshal(doc.Tags)
		if err != nil {
			return nil, fmt.Errorf("marshal tags: %w", err)
		}
		authors, err := json.Marshal(doc.Authors)
		if err != nil {
			return nil, fmt.Errorf("marshal authors: %w", err)
		}
		language, err := json.Marshal(doc.Language)
		if err != nil {
			return nil, fmt.Errorf("marshal language: %w", err)
		}
		hash := contentHash(doc, tags, authors)

		_, err = stmt.Exec(
			doc.ID, doc.URL, doc.Title, doc.Subtitle, doc.Banner, string(tags), string(authors),
			formatDate(doc.DatePosted), formatDate(doc.DateUpdated),
			doc.PostedStr, doc.UpdatedStr, string(language), doc.Content, hash,
		)
		if err != nil {
			return nil, fmt.Errorf("insert document %d: %w", doc.ID, err)
		}

		stats.Stored++
		if previous[doc.URL] == hash {
			stats.Unchanged++
		} else {
			stats.Changed++
		}
	}

	_, err = tx.Exec(`
	INSERT INTO builds (id, manifest_total, built_at) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		manifest_total = excluded.manifest_total,
		built_at = excluded.built_at
	`, total, time.Now())
	if err != nil {
		return nil, fmt.Errorf("record build: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return stats, nil
}

// List retrieves all documents in id order, with the manifest length of
// the build that stored them
func (d *DB) List() ([]blog.Document, int, error) {
	rows, err := d.db.Query(selectDocuments + " ORDER BY id")
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []blog.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = d.db.QueryRow("SELECT manifest_total FROM builds WHERE id = 1").Scan(&total)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, fmt.Errorf("read build: %w", err)
	}

	return docs, total, nil
}

// Get retrieves a document by ID
func (d *DB) Get(id int) (*blog.Document, error) {
	doc, err := scanDocument(d.db.QueryRow(selectDocuments+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// Count returns the total number of documents
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count)
	return count, err
}

const selectDocuments = `
	SELECT id, url, title, subtitle, banner, tags, authors, date_posted, date_updated,
	       posted_str, updated_str, language, content
	FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*blog.Document, error) {
	doc := &blog.Document{}
	var tags, authors, language string
	var posted, updated sql.NullString

	err := row.Scan(
		&doc.ID, &doc.URL, &doc.Title, &doc.Subtitle, &doc.Banner, &tags, &authors,
		&posted, &updated, &doc.PostedStr, &doc.UpdatedStr, &language, &doc.Content,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %d: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(authors), &doc.Authors); err != nil {
		return nil, fmt.Errorf("decode authors of %d: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(language), &doc.Language); err != nil {
		return nil, fmt.Errorf("decode language of %d: %w", doc.ID, err)
	}
	doc.DatePosted = parseDate(posted)
	doc.DateUpdated = parseDate(updated)

	return doc, nil
}

func (d *DB) contentHashes() (map[string]string, error) {
	rows, err := d.db.Query("SELECT url, content_hash FROM documents")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var url, hash string
		if err := rows.Scan(&url, &hash); err != nil {
			return nil, err
		}
		hashes[url] = hash
	}
	return hashes, rows.Err()
}

func contentHash(doc *blog.Document, tags, authors []byte) string {
	h := md5.New()
	for _, part := range []string{doc.Title, doc.Subtitle, doc.Banner, doc.PostedStr, doc.UpdatedStr, doc.Language.Code, doc.Content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(tags)
	h.Write(authors)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s.String, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
