package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeeper/read/internal/entities"
)

func TestOpen_CreatesFinalSchema(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := Open(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"books", "authors", "series", "book_authors", "schema_info"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestOpen_InMemory(t *testing.T) {
	db, err := Open("ignored.db", true)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Insert(db.DB, &entities.Book{Title: "Ephemeral"}))
	books, err := FetchSorted[entities.Book](db.DB, "title")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	// nothing was written next to the ignored path
	_, statErr := os.Stat("ignored.db")
	assert.True(t, os.IsNotExist(statErr))
}

func TestAdapter_DeleteWhere(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := Open(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Insert(db.DB, &entities.Book{Title: "Keep"}))
	require.NoError(t, Insert(db.DB, &entities.Book{Title: "Drop"}))
	require.NoError(t, DeleteWhere[entities.Book](db.DB, "title = ?", "Drop"))

	books, err := FetchSorted[entities.Book](db.DB, "title")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Keep", books[0].Title)

	// deleting an absent row is a no-op, not an error
	require.NoError(t, DeleteWhere[entities.Book](db.DB, "title = ?", "Drop"))
}
