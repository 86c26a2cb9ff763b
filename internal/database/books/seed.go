package books

import (
	"time"

	"github.com/readkeeper/read/internal/entities"
)

// SeedTestData loads the fixed demonstration catalog used by tests and the
// -testdata override: four books, four authors, and one two-book series.
// A store that already holds books is left untouched.
func (r *Repository) SeedTestData() error {
	existing, err := r.BooksByTitle()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	standalone := entities.NewBook("A Standalone Book")
	future := entities.NewBookWithRelease("Future Release", time.Now().AddDate(0, 0, 1))
	first := entities.NewBook("First book of a series")
	second := entities.NewBook("Second book of a series")
	for _, book := range []*entities.Book{standalone, future, first, second} {
		if err := r.CreateBook(book); err != nil {
			return err
		}
	}

	jones := entities.NewAuthor("Jones", "Davey")
	doe := entities.NewAuthor("Doe", "John")
	roe := entities.NewAuthor("Roe", "Mary")
	mcdonald := entities.NewAuthor("McDonald", "Ronald")
	for _, author := range []*entities.Author{jones, doe, roe, mcdonald} {
		if err := r.CreateAuthor(author); err != nil {
			return err
		}
	}

	attributions := []struct {
		book    *entities.Book
		authors []entities.Author
	}{
		{standalone, []entities.Author{*jones}},
		{future, []entities.Author{*doe, *roe}},
		{first, []entities.Author{*mcdonald}},
		{second, []entities.Author{*mcdonald}},
	}
	for _, a := range attributions {
		if err := r.UpdateBookAuthors(a.book, a.authors); err != nil {
			return err
		}
	}

	series := entities.NewSeries("Test Series")
	orderOne, orderTwo := 1, 2
	if err := r.UpdateBookSeries(first, series, &orderOne); err != nil {
		return err
	}
	return r.UpdateBookSeries(second, series, &orderTwo)
}
