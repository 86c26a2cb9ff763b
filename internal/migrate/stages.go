package migrate

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readkeeper/read/internal/entities"
)

// migrateV1toV2 derives the single author string from the V1 author list.
func migrateV1toV2(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&bookV2{}); err != nil {
		return err
	}
	var books []bookV2
	if err := tx.Find(&books).Error; err != nil {
		return err
	}
	for i := range books {
		books[i].Author = joinAuthors(books[i].Authors)
		if err := tx.Save(&books[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// migrateV2toV3 derives the sortable author field from the author string.
func migrateV2toV3(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&bookV3{}); err != nil {
		return err
	}
	var books []bookV3
	if err := tx.Find(&books).Error; err != nil {
		return err
	}
	for i := range books {
		books[i].SortAuthor = sortAuthor(books[i].Author)
		if err := tx.Save(&books[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// migrateV3toV4 replaces the flat book rows with the relational
// Book/Author/Series model. The V3 rows are snapshotted first: the
// destination books share titles with the source rows but not storage, so
// the source fields must be captured before the legacy table goes away.
//
// Attribution matches destination books to snapshot rows by exact title,
// first match wins. Duplicate titles in legacy data therefore get the
// first matching row's authors and series; the legacy format carries no
// better key to break the tie with.
func migrateV3toV4(tx *gorm.DB) error {
	// Snapshot the source rows.
	var snapshot []bookV3
	if err := tx.Find(&snapshot).Error; err != nil {
		return err
	}

	if err := tx.AutoMigrate(
		&entities.Book{},
		&entities.Author{},
		&entities.Series{},
		&entities.BookAuthor{},
	); err != nil {
		return err
	}

	// Destination rows carry only the fields both schemas share.
	for _, row := range snapshot {
		book := entities.Book{
			Title:       row.Title,
			AddedAt:     row.Added,
			ReleaseDate: row.EstRelease,
		}
		if err := tx.Create(&book).Error; err != nil {
			return err
		}
	}

	var books []entities.Book
	if err := tx.Find(&books).Error; err != nil {
		return err
	}

	authors := make([]entities.Author, 0)
	series := make([]entities.Series, 0)
	for i := range books {
		source := firstByTitle(snapshot, books[i].Title)
		if source == nil {
			continue
		}
		var err error
		authors, err = attributeAuthors(tx, &books[i], source, authors)
		if err != nil {
			return err
		}
		series, err = attributeSeries(tx, &books[i], source, series)
		if err != nil {
			return err
		}
	}

	// The snapshot buffer is function-local and dies here; nothing of the
	// legacy representation survives into steady state.
	return tx.Migrator().DropTable("legacy_books")
}

func firstByTitle(snapshot []bookV3, title string) *bookV3 {
	for i := range snapshot {
		if snapshot[i].Title == title {
			return &snapshot[i]
		}
	}
	return nil
}

// attributeAuthors splits the snapshot's author string into names and
// links each to the book, reusing an author when the exact
// (lastName, firstName) pair was already seen. The order of appearance in
// the string becomes the book's author order.
func attributeAuthors(tx *gorm.DB, book *entities.Book, source *bookV3, known []entities.Author) ([]entities.Author, error) {
	for position, name := range splitAuthors(source.Author) {
		lastName, firstName := splitName(name)

		var author *entities.Author
		for i := range known {
			if known[i].LastName == lastName && known[i].FirstName == firstName {
				author = &known[i]
				break
			}
		}
		if author == nil {
			created := entities.Author{
				ID:        uuid.New(),
				LastName:  lastName,
				FirstName: firstName,
			}
			if err := tx.Create(&created).Error; err != nil {
				return known, err
			}
			known = append(known, created)
			author = &known[len(known)-1]
		}

		link := entities.BookAuthor{
			BookID:   book.ID,
			AuthorID: author.ID,
			Position: position,
		}
		if err := tx.Create(&link).Error; err != nil {
			return known, err
		}
	}
	return known, nil
}

// attributeSeries resolves or creates the book's series when the snapshot
// carries both a series order and a non-empty series name.
func attributeSeries(tx *gorm.DB, book *entities.Book, source *bookV3, known []entities.Series) ([]entities.Series, error) {
	if source.SeriesOrder == nil || source.Series == nil || *source.Series == "" {
		return known, nil
	}

	var match *entities.Series
	for i := range known {
		if known[i].Name == *source.Series {
			match = &known[i]
			break
		}
	}
	if match == nil {
		created := entities.Series{Name: *source.Series}
		if err := tx.Create(&created).Error; err != nil {
			return known, err
		}
		known = append(known, created)
		match = &known[len(known)-1]
	}

	order := *source.SeriesOrder
	seriesID := match.ID
	err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).
		Updates(map[string]any{"series_id": seriesID, "series_order": order}).Error
	if err != nil {
		return known, err
	}
	book.SeriesID = &seriesID
	book.SeriesOrder = &order
	return known, nil
}
