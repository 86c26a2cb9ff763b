package state

import (
	"github.com/sirupsen/logrus"

	"github.com/readkeeper/read/internal/database/books"
	"github.com/readkeeper/read/internal/entities"
	"github.com/readkeeper/read/internal/logger"
)

// Reducer folds one event into a state snapshot. Repository calls are its
// only side effects; every repository error is captured into the returned
// snapshot's LastError and never propagated to the dispatcher.
type Reducer struct {
	repo *books.Repository
	log  *logrus.Entry
}

func NewReducer(repo *books.Repository) *Reducer {
	return &Reducer{repo: repo, log: logger.WithComponent("reducer")}
}

func (r *Reducer) Reduce(current State, event Event) State {
	next := current
	next.LastError = ""

	switch e := event.(type) {
	case AddAuthor:
		r.addAuthor(&next, e)
	case AddBook:
		r.addBook(&next, e)
	case UpdateOrAddBook:
		r.updateOrAddBook(&next, e)
	case EditAuthor:
		r.editAuthor(&next, e)
	case EditSeries:
		r.editSeries(&next, e)
	case DeleteAuthor:
		r.deleteAuthor(&next, e)
	case DeleteBook:
		r.deleteBook(&next, e)
	case DeleteSeries:
		r.deleteSeries(&next, e)
	}

	return next
}

func (r *Reducer) addAuthor(next *State, e AddAuthor) {
	if err := r.repo.CreateAuthor(e.Author); err != nil {
		r.fail(next, "add author "+e.Author.DisplayName(), err)
		return
	}
	next.refresh(r.repo, refreshAuthors)
	r.log.Infof("added author %s", e.Author.DisplayName())
}

func (r *Reducer) addBook(next *State, e AddBook) {
	if err := r.repo.CreateBook(e.Book); err != nil {
		r.fail(next, "add book "+e.Book.Title, err)
		return
	}
	next.refresh(r.repo, refreshBooks)
	r.log.Infof("added book %s", e.Book.Title)
}

func (r *Reducer) updateOrAddBook(next *State, e UpdateOrAddBook) {
	book := e.Book

	// Each sub-step commits on its own. A later failure leaves the
	// earlier updates applied.
	if book.Title != e.Title {
		if err := r.repo.UpdateBookTitle(book, e.Title); err != nil {
			r.fail(next, "update book "+book.Title, err)
			return
		}
		next.refresh(r.repo, refreshBooks)
		r.log.Infof("updated book (title) %s", e.Title)
	}

	if !sameAuthorList(book.Authors, e.Authors) {
		if err := r.repo.UpdateBookAuthors(book, e.Authors); err != nil {
			r.fail(next, "update book "+book.Title, err)
			return
		}
		next.refresh(r.repo, refreshAuthors|refreshBooks)
		r.log.Infof("updated book (authors) %s", e.Title)
	}

	if e.SeriesName == "" {
		if book.HasSeries() {
			if err := r.repo.UpdateBookSeries(book, nil, nil); err != nil {
				r.fail(next, "update book "+book.Title, err)
				return
			}
			next.refresh(r.repo, refreshBooks)
			r.log.Infof("updated book (removed series) %s", e.Title)
		}
		return
	}

	series, err := r.repo.GetOrCreateSeries(e.SeriesName)
	if err != nil {
		r.fail(next, "update book "+book.Title, err)
		return
	}
	order := e.SeriesOrder
	switch {
	case book.SeriesID == nil || *book.SeriesID != series.ID:
		if err := r.repo.UpdateBookSeries(book, series, &order); err != nil {
			r.fail(next, "update book "+book.Title, err)
			return
		}
		next.refresh(r.repo, refreshSeries|refreshBooks)
		r.log.Infof("updated book (series) %s", e.Title)
	case book.SeriesOrder == nil || *book.SeriesOrder != order:
		if err := r.repo.UpdateBookOrder(book, &order); err != nil {
			r.fail(next, "update book "+book.Title, err)
			return
		}
		next.refresh(r.repo, refreshSeries|refreshBooks)
		r.log.Infof("updated book (series order) %s", e.Title)
	}
}

func (r *Reducer) editAuthor(next *State, e EditAuthor) {
	if err := r.repo.UpdateAuthorName(e.Author, e.FirstName, e.LastName); err != nil {
		r.fail(next, "update author "+e.Author.DisplayName(), err)
		return
	}
	next.refresh(r.repo, refreshAuthors)
	r.log.Infof("updated author %s", e.Author.DisplayName())
}

func (r *Reducer) editSeries(next *State, e EditSeries) {
	if err := r.repo.UpdateSeriesName(e.Series, e.Name); err != nil {
		r.fail(next, "update series "+e.Series.Name, err)
		return
	}
	next.refresh(r.repo, refreshSeries)
	r.log.Infof("updated series %s", e.Series.Name)
}

func (r *Reducer) deleteAuthor(next *State, e DeleteAuthor) {
	name := e.Author.DisplayName()
	if err := r.repo.DeleteAuthor(e.Author); err != nil {
		r.fail(next, "delete author "+name, err)
		return
	}
	next.refresh(r.repo, refreshAuthors|refreshBooks)
	r.log.Infof("deleted author %s", name)
}

func (r *Reducer) deleteBook(next *State, e DeleteBook) {
	title := e.Book.Title
	if err := r.repo.DeleteBook(e.Book); err != nil {
		r.fail(next, "delete book "+title, err)
		return
	}
	next.refresh(r.repo, refreshBooks|refreshAuthors|refreshSeries)
	r.log.Infof("deleted book %s", title)
}

func (r *Reducer) deleteSeries(next *State, e DeleteSeries) {
	name := e.Series.Name
	if err := r.repo.DeleteSeries(e.Series); err != nil {
		r.fail(next, "delete series "+name, err)
		return
	}
	next.refresh(r.repo, refreshSeries|refreshBooks)
	r.log.Infof("deleted series %s", name)
}

func (r *Reducer) fail(next *State, action string, err error) {
	next.LastError = err.Error()
	r.log.Errorf("failed to %s: %v", action, err)
}

// sameAuthorList compares two author lists by id sequence, not by name.
func sameAuthorList(a, b []entities.Author) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
