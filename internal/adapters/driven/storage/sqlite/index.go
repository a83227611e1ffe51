package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/bizassist/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.RecordIndex = (*Index)(nil)

// DBFileName is the database file created inside the index directory.
const DBFileName = "records.db"

// defaultTopK applies when Search is called with k <= 0.
const defaultTopK = domain.DefaultTopK

// Index is a SQLite-backed record index with cosine similarity search.
type Index struct {
	db         *sql.DB
	path       string
	collection string
	embedder   driven.EmbeddingService
}

// Option configures an Index.
type Option func(*Index)

// WithCollection overrides the collection name. Used by tests.
func WithCollection(name string) Option {
	return func(i *Index) {
		i.collection = name
	}
}

// NewIndex opens (or creates) the index in dir. Embeddings for upserts and
// queries are computed with embedder. Opening an existing collection built
// with a different embedding model fails with domain.ErrInvalidInput.
func NewIndex(dir string, embedder driven.EmbeddingService, opts ...Option) (*Index, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: index path", domain.ErrMissingConfig)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service", domain.ErrMissingConfig)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	idx := &Index{
		db:         db,
		path:       dbPath,
		collection: driven.CollectionName,
		embedder:   embedder,
	}
	for _, opt := range opts {
		opt(idx)
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := idx.ensureCollection(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
}

// Upsert embeds and inserts a batch in one transaction. An id that already
// exists in the collection is rejected by the primary key and the whole
// batch is rolled back.
func (i *Index) Upsert(ctx context.Context, ids, texts []string, metadatas []domain.Metadata) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: %d ids, %d texts, %d metadatas",
			domain.ErrInvalidInput, len(ids), len(texts), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	embeddings, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding batch: %w", domain.ErrIndexWrite, err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrIndexWrite, len(embeddings), len(texts))
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrIndexWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, text, metadata, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", domain.ErrIndexWrite, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for n := range ids {
		metaJSON, err := json.Marshal(metadatas[n])
		if err != nil {
			return fmt.Errorf("%w: marshalling metadata for %s: %w", domain.ErrIndexWrite, ids[n], err)
		}
		if _, err := stmt.ExecContext(ctx,
			i.collection, ids[n], texts[n], string(metaJSON), float32SliceToBytes(embeddings[n]), now,
		); err != nil {
			return fmt.Errorf("%w: inserting %s: %w", domain.ErrIndexWrite, ids[n], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrIndexWrite, err)
	}

	logger.Debug("Upserted %d records into %s", len(ids), i.collection)
	return nil
}

// Search embeds queryText and returns the k nearest records by cosine distance.
func (i *Index) Search(ctx context.Context, queryText string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		k = defaultTopK
	}

	query, err := i.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := i.db.QueryContext(ctx, `
		SELECT id, text, metadata, embedding
		FROM records
		WHERE collection = ?
	`, i.collection)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	results := make([]domain.RetrievalResult, 0, k)
	for rows.Next() {
		var (
			id, text, metaJSON string
			blob               []byte
		)
		if err := rows.Scan(&id, &text, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		var meta domain.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", id, err)
		}

		results = append(results, domain.RetrievalResult{
			Record: domain.Record{
				ID:       id,
				Text:     text,
				Metadata: meta,
			},
			Distance: domain.CosineDistance(query, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats reports the number of records in the collection.
func (i *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	var count int
	err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE collection = ?", i.collection,
	).Scan(&count)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("counting records: %w", err)
	}
	return domain.IndexStats{TotalDocuments: count}, nil
}

// ensureCollection registers the collection with the current embedding
// model, or checks the model matches an existing registration.
func (i *Index) ensureCollection(ctx context.Context) error {
	var model string
	err := i.db.QueryRowContext(ctx,
		"SELECT embedding_model FROM collections WHERE name = ?", i.collection,
	).Scan(&model)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = i.db.ExecContext(ctx, `
			INSERT INTO collections (name, embedding_model, dimensions, created_at)
			VALUES (?, ?, ?, ?)
		`, i.collection, i.embedder.ModelName(), i.embedder.Dimensions(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading collection: %w", err)
	case model != i.embedder.ModelName():
		return fmt.Errorf("%w: collection %q was built with embedding model %q, configured model is %q",
			domain.ErrInvalidInput, i.collection, model, i.embedder.ModelName())
	default:
		return nil
	}
}

// migrate runs all pending migrations.
func (i *Index) migrate(fsys embed.FS) error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_records.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := i.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
