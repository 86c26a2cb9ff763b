// Package books implements the catalog repository: typed CRUD for books,
// authors, and series that keeps the bidirectional references between the
// three collections consistent on every mutation.
//
// All mutations run inside a transaction and the in-memory entity is only
// updated after the commit succeeds, so readers never observe a
// half-updated graph. Reads always rebuild the relation fields from the
// join rows; no cached view can diverge from the store.
package books

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readkeeper/read/internal/database"
	"github.com/readkeeper/read/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts the book together with any pre-attached author links
// and series membership. On failure nothing is durable and the caller may
// retry.
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now()
	}
	if book.SeriesID == nil {
		book.SeriesOrder = nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.Insert(tx, book); err != nil {
			return err
		}
		return r.writeAuthorLinks(tx, book.ID, book.Authors)
	})
	return database.Persistence("create book", err)
}

func (r *Repository) CreateAuthor(author *entities.Author) error {
	if author.LastName == "" {
		return &database.ValidationError{Field: "author last name", Reason: "must not be empty"}
	}
	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return database.Insert(tx, author)
	})
	return database.Persistence("create author", err)
}

func (r *Repository) CreateSeries(series *entities.Series) error {
	if series.Name == "" {
		return &database.ValidationError{Field: "series name", Reason: "must not be empty"}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return database.Insert(tx, series)
	})
	return database.Persistence("create series", err)
}

// GetOrCreateSeries resolves a series by exact name, creating it when no
// match exists.
func (r *Repository) GetOrCreateSeries(name string) (*entities.Series, error) {
	var series entities.Series
	err := r.db.Where("name = ?", name).First(&series).Error
	if err == nil {
		return &series, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.Persistence("resolve series", err)
	}
	series = entities.Series{Name: name}
	if err := r.CreateSeries(&series); err != nil {
		return nil, err
	}
	return &series, nil
}

// BooksByTitle returns every book ordered by title with authors and series
// attached.
func (r *Repository) BooksByTitle() ([]entities.Book, error) {
	return r.books("title")
}

// BooksBySeries returns every book ordered by series with the newest
// series entries first.
func (r *Repository) BooksBySeries() ([]entities.Book, error) {
	return r.books("series_id, series_order DESC")
}

func (r *Repository) books(order string) ([]entities.Book, error) {
	books, err := database.FetchSorted[entities.Book](r.db, order)
	if err != nil {
		return nil, database.Persistence("read books", err)
	}
	if err := r.attachBookRelations(books); err != nil {
		return nil, err
	}
	return books, nil
}

// AuthorsByName returns every author ordered by last then first name, with
// each author's books attached.
func (r *Repository) AuthorsByName() ([]entities.Author, error) {
	authors, err := database.FetchSorted[entities.Author](r.db, "last_name, first_name")
	if err != nil {
		return nil, database.Persistence("read authors", err)
	}
	if err := r.attachAuthorBooks(authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// SeriesByName returns every series ordered by name, with member books
// attached in series order.
func (r *Repository) SeriesByName() ([]entities.Series, error) {
	series, err := database.FetchSorted[entities.Series](r.db, "name")
	if err != nil {
		return nil, database.Persistence("read series", err)
	}
	for i := range series {
		var members []entities.Book
		err := r.db.Where("series_id = ?", series[i].ID).
			Order("series_order").Find(&members).Error
		if err != nil {
			return nil, database.Persistence("read series books", err)
		}
		series[i].Books = members
	}
	return series, nil
}

func (r *Repository) UpdateBookTitle(book *entities.Book, title string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entities.Book{}).Where("id = ?", book.ID).
			Update("title", title).Error
	})
	if err != nil {
		return database.Persistence("update book title", err)
	}
	book.Title = title
	return nil
}

// UpdateBookAuthors replaces the book's ordered author list. Authors that
// do not exist yet are created in the same transaction. Every author's
// book set stays the inverse of the books' author lists because both sides
// live in the join rows.
func (r *Repository) UpdateBookAuthors(book *entities.Book, authors []entities.Author) error {
	for i := range authors {
		if authors[i].LastName == "" {
			return &database.ValidationError{Field: "author last name", Reason: "must not be empty"}
		}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.DeleteWhere[entities.BookAuthor](tx, "book_id = ?", book.ID); err != nil {
			return err
		}
		return r.writeAuthorLinks(tx, book.ID, authors)
	})
	if err != nil {
		return database.Persistence("update book authors", err)
	}
	book.Authors = authors
	return nil
}

// UpdateBookSeries moves the book into the given series at the given
// order, or out of any series when series is nil. SeriesOrder is cleared
// together with the series so the order-implies-series invariant holds.
func (r *Repository) UpdateBookSeries(book *entities.Book, series *entities.Series, order *int) error {
	if series == nil {
		order = nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if series != nil && series.ID == 0 {
			if series.Name == "" {
				return &database.ValidationError{Field: "series name", Reason: "must not be empty"}
			}
			if err := database.Insert(tx, series); err != nil {
				return err
			}
		}
		values := map[string]any{"series_id": nil, "series_order": nil}
		if series != nil {
			values["series_id"] = series.ID
			values["series_order"] = order
		}
		return tx.Model(&entities.Book{}).Where("id = ?", book.ID).
			Updates(values).Error
	})
	if err != nil {
		return database.Persistence("update book series", err)
	}
	if series == nil {
		book.SeriesID = nil
		book.Series = nil
		book.SeriesOrder = nil
	} else {
		id := series.ID
		book.SeriesID = &id
		book.Series = series
		book.SeriesOrder = order
	}
	return nil
}

func (r *Repository) UpdateBookOrder(book *entities.Book, order *int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entities.Book{}).Where("id = ?", book.ID).
			Update("series_order", order).Error
	})
	if err != nil {
		return database.Persistence("update book order", err)
	}
	book.SeriesOrder = order
	return nil
}

func (r *Repository) UpdateAuthorName(author *entities.Author, firstName, lastName string) error {
	if lastName == "" {
		return &database.ValidationError{Field: "author last name", Reason: "must not be empty"}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entities.Author{}).Where("id = ?", author.ID).
			Updates(map[string]any{"first_name": firstName, "last_name": lastName}).Error
	})
	if err != nil {
		return database.Persistence("update author", err)
	}
	author.FirstName = firstName
	author.LastName = lastName
	return nil
}

func (r *Repository) UpdateSeriesName(series *entities.Series, name string) error {
	if name == "" {
		return &database.ValidationError{Field: "series name", Reason: "must not be empty"}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entities.Series{}).Where("id = ?", series.ID).
			Update("name", name).Error
	})
	if err != nil {
		return database.Persistence("update series", err)
	}
	series.Name = name
	return nil
}

// SetAuthorExpanded and SetSeriesExpanded persist the presentation-only
// disclosure flags. They are the one sanctioned bypass of the event path.
func (r *Repository) SetAuthorExpanded(author *entities.Author, expanded bool) error {
	err := r.db.Model(&entities.Author{}).Where("id = ?", author.ID).
		Update("expanded", expanded).Error
	if err != nil {
		return database.Persistence("toggle author", err)
	}
	author.Expanded = expanded
	return nil
}

func (r *Repository) SetSeriesExpanded(series *entities.Series, expanded bool) error {
	err := r.db.Model(&entities.Series{}).Where("id = ?", series.ID).
		Update("expanded", expanded).Error
	if err != nil {
		return database.Persistence("toggle series", err)
	}
	series.Expanded = expanded
	return nil
}

// DeleteBook removes the book and its author links. Deleting a book that
// is already gone is a no-op.
func (r *Repository) DeleteBook(book *entities.Book) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.DeleteWhere[entities.BookAuthor](tx, "book_id = ?", book.ID); err != nil {
			return err
		}
		return database.DeleteWhere[entities.Book](tx, "id = ?", book.ID)
	})
	return database.Persistence("delete book", err)
}

// DeleteAuthor removes the author from every book's author list, then the
// author itself. Idempotent.
func (r *Repository) DeleteAuthor(author *entities.Author) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.DeleteWhere[entities.BookAuthor](tx, "author_id = ?", author.ID); err != nil {
			return err
		}
		return database.DeleteWhere[entities.Author](tx, "id = ?", author.ID)
	})
	return database.Persistence("delete author", err)
}

// DeleteSeries clears series and series order on every member book before
// removing the series row: cascade-nullify, not cascade-delete.
func (r *Repository) DeleteSeries(series *entities.Series) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).Where("series_id = ?", series.ID).
			Updates(map[string]any{"series_id": nil, "series_order": nil}).Error
		if err != nil {
			return err
		}
		return database.DeleteWhere[entities.Series](tx, "id = ?", series.ID)
	})
	return database.Persistence("delete series", err)
}

func (r *Repository) writeAuthorLinks(tx *gorm.DB, bookID uint, authors []entities.Author) error {
	for i := range authors {
		if authors[i].ID == uuid.Nil {
			authors[i].ID = uuid.New()
			if err := database.Insert(tx, &authors[i]); err != nil {
				return err
			}
		}
		link := entities.BookAuthor{BookID: bookID, AuthorID: authors[i].ID, Position: i}
		if err := database.Insert(tx, &link); err != nil {
			return err
		}
	}
	return nil
}

// attachBookRelations rebuilds each book's author list (in attribution
// order) and series pointer from the id columns.
func (r *Repository) attachBookRelations(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	authorsByID, linksByBook, err := r.authorLinks()
	if err != nil {
		return err
	}

	var allSeries []entities.Series
	if err := r.db.Find(&allSeries).Error; err != nil {
		return database.Persistence("read series", err)
	}
	seriesByID := make(map[uint]entities.Series, len(allSeries))
	for _, s := range allSeries {
		seriesByID[s.ID] = s
	}

	for i := range books {
		books[i].Authors = nil
		for _, link := range linksByBook[books[i].ID] {
			if author, ok := authorsByID[link.AuthorID]; ok {
				books[i].Authors = append(books[i].Authors, author)
			}
		}
		if books[i].SeriesID != nil {
			if s, ok := seriesByID[*books[i].SeriesID]; ok {
				series := s
				books[i].Series = &series
			}
		}
	}
	return nil
}

// attachAuthorBooks rebuilds each author's book set, ordered by title for
// stable presentation.
func (r *Repository) attachAuthorBooks(authors []entities.Author) error {
	if len(authors) == 0 {
		return nil
	}

	var links []entities.BookAuthor
	if err := r.db.Find(&links).Error; err != nil {
		return database.Persistence("read author links", err)
	}
	books, err := database.FetchSorted[entities.Book](r.db, "title")
	if err != nil {
		return database.Persistence("read books", err)
	}
	linked := make(map[uuid.UUID]map[uint]bool)
	for _, link := range links {
		if linked[link.AuthorID] == nil {
			linked[link.AuthorID] = make(map[uint]bool)
		}
		linked[link.AuthorID][link.BookID] = true
	}

	for i := range authors {
		authors[i].Books = nil
		for _, b := range books {
			if linked[authors[i].ID][b.ID] {
				authors[i].Books = append(authors[i].Books, b)
			}
		}
	}
	return nil
}

func (r *Repository) authorLinks() (map[uuid.UUID]entities.Author, map[uint][]entities.BookAuthor, error) {
	var links []entities.BookAuthor
	if err := r.db.Order("book_id, position").Find(&links).Error; err != nil {
		return nil, nil, database.Persistence("read author links", err)
	}
	var authors []entities.Author
	if err := r.db.Find(&authors).Error; err != nil {
		return nil, nil, database.Persistence("read authors", err)
	}
	authorsByID := make(map[uuid.UUID]entities.Author, len(authors))
	for _, a := range authors {
		authorsByID[a.ID] = a
	}
	linksByBook := make(map[uint][]entities.BookAuthor)
	for _, link := range links {
		linksByBook[link.BookID] = append(linksByBook[link.BookID], link)
	}
	return authorsByID, linksByBook, nil
}
