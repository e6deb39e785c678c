package pg_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/astro-api/internal/adapters/secondary/storage/pg"
	"github.com/admin/astro-api/internal/ports/persistence"
)

func newStore(t *testing.T) (*pg.DocumentStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "pgx")
	return pg.NewDocumentStore(pg.NewDB(sqlxDB), "astro"), mock
}

func TestDocumentStore_CreateDocument(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "reading", `{"sign":"leo"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("6f1c0c3e-5d1e-4c55-9a1a-0d9e8f3b2a11"))

	id, err := store.CreateDocument(context.Background(), "reading", map[string]string{"sign": "leo"})
	require.NoError(t, err)
	assert.Equal(t, "6f1c0c3e-5d1e-4c55-9a1a-0d9e8f3b2a11", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_CreateDocument_DBError(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("INSERT INTO documents").WillReturnError(sql.ErrConnDone)

	_, err := store.CreateDocument(context.Background(), "reading", map[string]string{"sign": "leo"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_GetDocuments(t *testing.T) {
	store, mock := newStore(t)
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		filter     persistence.Filter
		wantFilter string
	}{
		{name: "empty filter matches everything", filter: nil, wantFilter: `{}`},
		{name: "filter by sign", filter: persistence.Filter{"sign": "leo"}, wantFilter: `{"sign":"leo"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := sqlmock.NewRows([]string{"id", "collection", "body", "created_at"}).
				AddRow("id-2", "reading", []byte(`{"sign":"leo","date":"2024-01-01","content":"b"}`), createdAt).
				AddRow("id-1", "reading", []byte(`{"sign":"leo","date":"2023-12-31","content":"a"}`), createdAt.Add(-time.Hour))
			mock.ExpectQuery("SELECT (.+) FROM documents").
				WithArgs("reading", tc.wantFilter, 50).
				WillReturnRows(rows)

			docs, err := store.GetDocuments(context.Background(), "reading", tc.filter, 50)
			require.NoError(t, err)
			require.Len(t, docs, 2)
			assert.Equal(t, "id-2", docs[0].ID)
			assert.JSONEq(t, `{"sign":"leo","date":"2024-01-01","content":"b"}`, string(docs[0].Body))
			assert.Equal(t, createdAt, docs[0].CreatedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_GetDocuments_DBError(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT (.+) FROM documents").WillReturnError(sql.ErrConnDone)

	docs, err := store.GetDocuments(context.Background(), "reading", nil, 10)
	assert.Error(t, err)
	assert.Nil(t, docs)
}

func TestDocumentStore_ListCollectionsAndPing(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT DISTINCT collection FROM documents").
		WillReturnRows(sqlmock.NewRows([]string{"collection"}).AddRow("reading"))
	mock.ExpectPing()

	collections, err := store.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"reading"}, collections)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "astro", store.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}
