// Package state implements the unidirectional data flow around the
// catalog: an immutable State snapshot, the event vocabulary, the reducer
// that is the only code path allowed to mutate the repository, and the
// store that serializes dispatches and publishes snapshots.
package state

import (
	"github.com/readkeeper/read/internal/database/books"
	"github.com/readkeeper/read/internal/entities"
)

// State is a consistent snapshot of the catalog: the three collections in
// their presentation order plus the last error message, if any. Snapshots
// are values; consumers never mutate them.
type State struct {
	Books   []entities.Book
	Authors []entities.Author
	Series  []entities.Series

	// LastError carries the most recent dispatch failure as a
	// human-readable string. It is overwritten by every dispatch,
	// cleared on success.
	LastError string
}

// Initial reads the three sorted collections to build the startup
// snapshot. Optionally seeds the fixed demonstration data first.
func Initial(repo *books.Repository, seedTestData bool) State {
	var s State
	if seedTestData {
		if err := repo.SeedTestData(); err != nil {
			s.LastError = err.Error()
			return s
		}
	}
	s.refresh(repo, refreshBooks|refreshAuthors|refreshSeries)
	return s
}

type refreshSet uint

const (
	refreshBooks refreshSet = 1 << iota
	refreshAuthors
	refreshSeries
)

// refresh re-reads the named collections from the repository. The snapshot
// always reflects durable storage; nothing patches the slices in place.
func (s *State) refresh(repo *books.Repository, set refreshSet) {
	if set&refreshBooks != 0 {
		if list, err := repo.BooksByTitle(); err == nil {
			s.Books = list
		} else {
			s.LastError = err.Error()
		}
	}
	if set&refreshAuthors != 0 {
		if list, err := repo.AuthorsByName(); err == nil {
			s.Authors = list
		} else {
			s.LastError = err.Error()
		}
	}
	if set&refreshSeries != 0 {
		if list, err := repo.SeriesByName(); err == nil {
			s.Series = list
		} else {
			s.LastError = err.Error()
		}
	}
}
