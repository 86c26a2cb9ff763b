package entities

import (
	"time"

	"github.com/google/uuid"
)

// Book is the final (relational) shape of a catalog entry. Authors and
// Series are resolved through the repository from the id columns; the
// struct fields marked with gorm:"-" are read-model conveniences that are
// rebuilt on every fetch, never written directly.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	AddedAt     time.Time  `json:"added_at"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	SeriesID    *uint      `gorm:"index" json:"series_id,omitempty"`
	SeriesOrder *int       `json:"series_order,omitempty"`

	Authors []Author `gorm:"-" json:"authors,omitempty"`
	Series  *Series  `gorm:"-" json:"series,omitempty"`
}

// Author identity is a UUID so that merged catalogs keep stable author ids.
type Author struct {
	ID        uuid.UUID `gorm:"primaryKey;type:text" json:"id"`
	LastName  string    `gorm:"index;size:256" json:"last_name"`
	FirstName string    `gorm:"index;size:256" json:"first_name"`
	Expanded  bool      `gorm:"default:false" json:"expanded"`

	Books []Book `gorm:"-" json:"books,omitempty"`
}

type Series struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"index;size:256" json:"name"`
	Expanded bool   `gorm:"default:false" json:"expanded"`

	Books []Book `gorm:"-" json:"books,omitempty"`
}

// BookAuthor is the join row between books and authors. Position records
// the order in which authors were attributed to the book.
type BookAuthor struct {
	BookID   uint      `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	AuthorID uuid.UUID `gorm:"primaryKey;type:text" json:"author_id"`
	Position int       `json:"position"`
}

func NewBook(title string) *Book {
	return &Book{Title: title, AddedAt: time.Now()}
}

func NewBookWithRelease(title string, release time.Time) *Book {
	book := NewBook(title)
	book.ReleaseDate = &release
	return book
}

func NewAuthor(lastName, firstName string) *Author {
	return &Author{ID: uuid.New(), LastName: lastName, FirstName: firstName}
}

func NewSeries(name string) *Series {
	return &Series{Name: name}
}

// DisplayName joins the name parts the way the UI presents an author.
func (a *Author) DisplayName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.FirstName + " " + a.LastName
}

// HasSeries reports whether the book belongs to a series. SeriesOrder is
// nil exactly when SeriesID is nil.
func (b *Book) HasSeries() bool {
	return b.SeriesID != nil
}

func (Book) TableName() string {
	return "books"
}

func (Author) TableName() string {
	return "authors"
}

func (Series) TableName() string {
	return "series"
}

func (BookAuthor) TableName() string {
	return "book_authors"
}
