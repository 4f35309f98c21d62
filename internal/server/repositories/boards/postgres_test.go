package boards

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
)

func newSQLMockDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock := newSQLMockDB(t)

	rows := sqlmock.NewRows([]string{"data"}).
		AddRow([]byte(`{"objects":[{"id":"a"}]}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM boards WHERE id = $1`)).
		WithArgs("b1").
		WillReturnRows(rows)

	doc, err := repo.Get(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "a", doc.Objects[0].ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_Absent(t *testing.T) {
	repo, mock := newSQLMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM boards WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgresGet_MalformedRowDecodesEmpty(t *testing.T) {
	repo, mock := newSQLMockDB(t)

	rows := sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{broken`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM boards WHERE id = $1`)).
		WithArgs("b1").
		WillReturnRows(rows)

	doc, err := repo.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Empty(t, doc.Objects)
}

func TestPostgresUpsert(t *testing.T) {
	repo, mock := newSQLMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO boards`)).
		WithArgs("b1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc := board.NewDocument()
	doc.Objects = append(doc.Objects, board.Object{"id": "a"})

	require.NoError(t, repo.Upsert(context.Background(), "b1", doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}
