package state

import "github.com/readkeeper/read/internal/entities"

// Event is the sealed set of catalog mutations. The eight variants below
// are the entire external mutation surface; nothing else writes to the
// repository.
type Event interface {
	isEvent()
}

type AddAuthor struct {
	Author *entities.Author
}

type AddBook struct {
	Book *entities.Book
}

// UpdateOrAddBook applies the edit form's fields to an existing book.
// Each differing aspect (title, author list, series and order) commits as
// its own sub-step; a failing sub-step does not roll back the ones already
// applied.
type UpdateOrAddBook struct {
	Book        *entities.Book
	Title       string
	Authors     []entities.Author
	SeriesName  string
	SeriesOrder int
}

type EditAuthor struct {
	Author    *entities.Author
	FirstName string
	LastName  string
}

type EditSeries struct {
	Series *entities.Series
	Name   string
}

type DeleteAuthor struct {
	Author *entities.Author
}

type DeleteBook struct {
	Book *entities.Book
}

type DeleteSeries struct {
	Series *entities.Series
}

func (AddAuthor) isEvent()       {}
func (AddBook) isEvent()         {}
func (UpdateOrAddBook) isEvent() {}
func (EditAuthor) isEvent()      {}
func (EditSeries) isEvent()      {}
func (DeleteAuthor) isEvent()    {}
func (DeleteBook) isEvent()      {}
func (DeleteSeries) isEvent()    {}
