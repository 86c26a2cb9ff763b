package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeeper/read/internal/database"
	"github.com/readkeeper/read/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := database.Open(dbPath, false)
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func TestRepository_EmptyStore(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	assert.Empty(t, books)

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	assert.Empty(t, authors)

	series, err := repo.SeriesByName()
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestRepository_CreateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))
	assert.NotZero(t, book.ID)
	assert.False(t, book.AddedAt.IsZero())

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A Test Book", books[0].Title)
}

func TestRepository_CreateAuthor_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.CreateAuthor(&entities.Author{FirstName: "First"})
	var validation *database.ValidationError
	require.ErrorAs(t, err, &validation)

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestRepository_CreateSeries_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.CreateSeries(&entities.Series{})
	var validation *database.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestRepository_BooksSortedByTitle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, title := range []string{"Zebra", "Alpha", "Middle"} {
		require.NoError(t, repo.CreateBook(entities.NewBook(title)))
	}

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Alpha", books[0].Title)
	assert.Equal(t, "Middle", books[1].Title)
	assert.Equal(t, "Zebra", books[2].Title)
}

func TestRepository_AuthorsSortedByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateAuthor(entities.NewAuthor("Roe", "Mary")))
	require.NoError(t, repo.CreateAuthor(entities.NewAuthor("Doe", "John")))
	require.NoError(t, repo.CreateAuthor(entities.NewAuthor("Doe", "Jane")))

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Jane Doe", authors[0].DisplayName())
	assert.Equal(t, "John Doe", authors[1].DisplayName())
	assert.Equal(t, "Mary Roe", authors[2].DisplayName())
}

func TestRepository_UpdateBookTitle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))
	require.NoError(t, repo.UpdateBookTitle(book, "A Changed Title"))
	assert.Equal(t, "A Changed Title", book.Title)

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A Changed Title", books[0].Title)
}

func TestRepository_UpdateBookAuthors_Symmetry(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))

	author := entities.NewAuthor("Last", "First")
	require.NoError(t, repo.CreateAuthor(author))
	require.NoError(t, repo.UpdateBookAuthors(book, []entities.Author{*author}))

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books[0].Authors, 1)
	assert.Equal(t, author.ID, books[0].Authors[0].ID)

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	require.Len(t, authors, 1)
	require.Len(t, authors[0].Books, 1)
	assert.Equal(t, book.ID, authors[0].Books[0].ID)
}

func TestRepository_UpdateBookAuthors_KeepsOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("Duet")
	require.NoError(t, repo.CreateBook(book))

	zeta := entities.NewAuthor("Zeta", "Anna")
	abel := entities.NewAuthor("Abel", "Bruno")
	require.NoError(t, repo.CreateAuthor(zeta))
	require.NoError(t, repo.CreateAuthor(abel))

	// attribution order, not alphabetical order
	require.NoError(t, repo.UpdateBookAuthors(book, []entities.Author{*zeta, *abel}))

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books[0].Authors, 2)
	assert.Equal(t, "Zeta", books[0].Authors[0].LastName)
	assert.Equal(t, "Abel", books[0].Authors[1].LastName)
}

func TestRepository_UpdateBookSeries(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))

	series := entities.NewSeries("A Series")
	order := 1
	require.NoError(t, repo.UpdateBookSeries(book, series, &order))
	assert.NotZero(t, series.ID)
	require.NotNil(t, book.SeriesID)
	assert.Equal(t, series.ID, *book.SeriesID)
	assert.Equal(t, 1, *book.SeriesOrder)

	all, err := repo.SeriesByName()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Books, 1)
	assert.Equal(t, book.ID, all[0].Books[0].ID)

	// removing the series clears the order too
	require.NoError(t, repo.UpdateBookSeries(book, nil, &order))
	assert.Nil(t, book.SeriesID)
	assert.Nil(t, book.SeriesOrder)
}

func TestRepository_UpdateBookOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))
	one, two := 1, 2
	require.NoError(t, repo.UpdateBookSeries(book, entities.NewSeries("A Series"), &one))
	require.NoError(t, repo.UpdateBookOrder(book, &two))
	assert.Equal(t, 2, *book.SeriesOrder)

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	assert.Equal(t, 2, *books[0].SeriesOrder)
}

func TestRepository_UpdateAuthorName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := entities.NewAuthor("Last", "First")
	require.NoError(t, repo.CreateAuthor(author))
	require.NoError(t, repo.UpdateAuthorName(author, "John", "Doe"))
	assert.Equal(t, "John Doe", author.DisplayName())

	err := repo.UpdateAuthorName(author, "John", "")
	var validation *database.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Doe", author.LastName)
}

func TestRepository_UpdateSeriesName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	series := entities.NewSeries("Series One")
	require.NoError(t, repo.CreateSeries(series))
	require.NoError(t, repo.UpdateSeriesName(series, "Changed Name of Series"))

	all, err := repo.SeriesByName()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Changed Name of Series", all[0].Name)
}

func TestRepository_GetOrCreateSeries(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreateSeries("Saga")
	require.NoError(t, err)
	again, err := repo.GetOrCreateSeries("Saga")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// exact name match: a different casing is a different series
	other, err := repo.GetOrCreateSeries("saga")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))
	author := entities.NewAuthor("Doe", "John")
	require.NoError(t, repo.CreateAuthor(author))
	require.NoError(t, repo.UpdateBookAuthors(book, []entities.Author{*author}))

	require.NoError(t, repo.DeleteBook(book))

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	assert.Empty(t, books)

	// the author survives with an empty book set
	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Empty(t, authors[0].Books)
}

func TestRepository_DeleteAuthor_CascadeNullify(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.NewBook("A Test Book")
	require.NoError(t, repo.CreateBook(book))
	author := entities.NewAuthor("Doe", "John")
	require.NoError(t, repo.CreateAuthor(author))
	require.NoError(t, repo.UpdateBookAuthors(book, []entities.Author{*author}))

	require.NoError(t, repo.DeleteAuthor(author))

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Empty(t, books[0].Authors)

	// deleting again is a no-op
	require.NoError(t, repo.DeleteAuthor(author))
}

func TestRepository_DeleteSeries_CascadeNullify(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := entities.NewBook("First")
	second := entities.NewBook("Second")
	require.NoError(t, repo.CreateBook(first))
	require.NoError(t, repo.CreateBook(second))

	series := entities.NewSeries("Saga")
	one, two := 1, 2
	require.NoError(t, repo.UpdateBookSeries(first, series, &one))
	require.NoError(t, repo.UpdateBookSeries(second, series, &two))

	require.NoError(t, repo.DeleteSeries(series))

	all, err := repo.SeriesByName()
	require.NoError(t, err)
	assert.Empty(t, all)

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	for _, b := range books {
		assert.Nil(t, b.SeriesID)
		assert.Nil(t, b.SeriesOrder)
	}

	require.NoError(t, repo.DeleteSeries(series))
}

func TestRepository_SeedTestData(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedTestData())

	books, err := repo.BooksByTitle()
	require.NoError(t, err)
	assert.Len(t, books, 4)

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	assert.Len(t, authors, 4)

	series, err := repo.SeriesByName()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Test Series", series[0].Name)
	assert.Len(t, series[0].Books, 2)

	// seeding twice does not duplicate the catalog
	require.NoError(t, repo.SeedTestData())
	books, err = repo.BooksByTitle()
	require.NoError(t, err)
	assert.Len(t, books, 4)
}

func TestRepository_ExpandedFlags(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := entities.NewAuthor("Doe", "John")
	require.NoError(t, repo.CreateAuthor(author))
	series := entities.NewSeries("Saga")
	require.NoError(t, repo.CreateSeries(series))

	require.NoError(t, repo.SetAuthorExpanded(author, true))
	require.NoError(t, repo.SetSeriesExpanded(series, true))

	authors, err := repo.AuthorsByName()
	require.NoError(t, err)
	assert.True(t, authors[0].Expanded)

	all, err := repo.SeriesByName()
	require.NoError(t, err)
	assert.True(t, all[0].Expanded)
}

func TestRepository_BooksBySeries(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SeedTestData())

	books, err := repo.BooksBySeries()
	require.NoError(t, err)
	require.Len(t, books, 4)

	// within the series the most recent entry comes first
	var inSeries []entities.Book
	for _, b := range books {
		if b.SeriesID != nil {
			inSeries = append(inSeries, b)
		}
	}
	require.Len(t, inSeries, 2)
	assert.Equal(t, 2, *inSeries[0].SeriesOrder)
	assert.Equal(t, 1, *inSeries[1].SeriesOrder)
}
