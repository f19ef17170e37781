// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/database/schema"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/dberr"
)

// # PostgreSQL Repository

// chapterRepository implements the [Repository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

// selectChapter is the shared projection joined with the owning manga.
var selectChapter = fmt.Sprintf(`
	SELECT %s, %s, %s
	FROM %s c
	JOIN %s m ON m.%s = c.%s
`,
	schema.List("c", schema.CoreChapter.ID, schema.CoreChapter.MangaID),
	schema.List("m", schema.CoreManga.Title, schema.CoreManga.CoverURL),
	schema.List("c", schema.CoreChapter.ChapterNumber, schema.CoreChapter.Title, schema.CoreChapter.UploadDate,
		schema.CoreChapter.UploaderID, schema.CoreChapter.TranslatedLanguage),
	schema.CoreChapter.Table,
	schema.CoreManga.Table, schema.CoreManga.ID, schema.CoreChapter.MangaID,
)

func scanChapter(row pgx.Row) (*Chapter, error) {
	var chapter Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.MangaID,
		&chapter.MangaTitle,
		&chapter.CoverURL,
		&chapter.ChapterNumber,
		&chapter.Title,
		&chapter.UploadDate,
		&chapter.UploaderID,
		&chapter.TranslatedLanguage,
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func collectChapters(rows pgx.Rows) ([]*Chapter, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Chapter, error) {
		return scanChapter(row)
	})
}

// # Reads

/*
ListRecent retrieves the newest (or oldest) chapters across every manga.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int
  - order: Order (applied to upload_date, chapter_id breaks ties)

Returns:
  - []*Chapter: Slice of chapters
  - error: Wrapped query failures
*/
func (repository *chapterRepository) ListRecent(context context.Context, limit, offset int, order Order) ([]*Chapter, error) {
	direction := "DESC"
	if order == OrderAsc {
		direction = "ASC"
	}

	query := selectChapter + fmt.Sprintf(`
		ORDER BY c.%s %s, c.%s %s
		LIMIT $1 OFFSET $2
	`, schema.CoreChapter.UploadDate, direction, schema.CoreChapter.ID, direction)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}

	chapters, err := collectChapters(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan chapters: %w", err)
	}
	return chapters, nil
}

// FindByID returns nil when the chapter does not exist.
func (repository *chapterRepository) FindByID(context context.Context, id int64) (*Chapter, error) {
	query := selectChapter + fmt.Sprintf(`WHERE c.%s = $1`, schema.CoreChapter.ID)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, id))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find chapter by id: %w", err)
	}
	return chapter, nil
}

/*
FindByIDs resolves an id list with a single ANY($1) query.

Description: Result order follows upload date, not input order. Chunking of very
large lists happens in the caller.
*/
func (repository *chapterRepository) FindByIDs(context context.Context, ids []int64) ([]*Chapter, error) {
	if len(ids) == 0 {
		return []*Chapter{}, nil
	}

	query := selectChapter + fmt.Sprintf(`
		WHERE c.%s = ANY($1)
		ORDER BY c.%s DESC, c.%s DESC
	`, schema.CoreChapter.ID, schema.CoreChapter.UploadDate, schema.CoreChapter.ID)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find chapters by ids: %w", err)
	}

	chapters, err := collectChapters(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan chapters: %w", err)
	}
	return chapters, nil
}

// ListByManga feeds navigation; order is irrelevant to the resolver.
func (repository *chapterRepository) ListByManga(context context.Context, mangaID int64) ([]*Chapter, error) {
	query := selectChapter + fmt.Sprintf(`
		WHERE c.%s = $1
		ORDER BY c.%s ASC
	`, schema.CoreChapter.MangaID, schema.CoreChapter.ID)

	rows, err := repository.pool.Query(context, query, mangaID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list manga chapters: %w", err)
	}

	chapters, err := collectChapters(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan chapters: %w", err)
	}
	return chapters, nil
}

// # Page Management

/*
ListPages retrieves images associated with a specific chapter.

Returns:
  - []*Page: Collection of page records sorted by page number
*/
func (repository *chapterRepository) ListPages(context context.Context, chapterID int64) ([]*Page, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.List("", schema.CorePage.Columns()...),
		schema.CorePage.Table,
		schema.CorePage.ChapterID,
		schema.CorePage.PageNumber,
	)

	rows, err := repository.pool.Query(context, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []*Page{}
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.ChapterID, &page.PageNumber, &page.ImageURL); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page: %w", err)
		}
		pages = append(pages, &page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate pages: %w", err)
	}
	return pages, nil
}

// # Writes

func (repository *chapterRepository) Exists(context context.Context, mangaID int64, chapterNumber, uploaderID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3
		)
	`, schema.CoreChapter.Table, schema.CoreChapter.MangaID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.UploaderID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, mangaID, chapterNumber, uploaderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check chapter existence: %w", err)
	}
	return exists, nil
}

/*
CreateWithPages inserts the chapter row and every page in one transaction.

Description: The chapter is inserted first to obtain its id, then pages
1..n are queued in a single pgx batch. Any failure rolls back both.

Parameters:
  - context: context.Context
  - chapter: *Chapter (ID and UploadDate are written back)
  - imageURLs: []string

Returns:
  - error: dberr-classified failures (unique violation is a 409)
*/
func (repository *chapterRepository) CreateWithPages(context context.Context, chapter *Chapter, imageURLs []string) error {
	return pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		insertChapter := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING %s, %s
		`,
			schema.CoreChapter.Table,
			schema.CoreChapter.MangaID, schema.CoreChapter.ChapterNumber, schema.CoreChapter.Title,
			schema.CoreChapter.UploaderID, schema.CoreChapter.TranslatedLanguage,
			schema.CoreChapter.ID, schema.CoreChapter.UploadDate,
		)

		err := tx.QueryRow(context, insertChapter,
			chapter.MangaID,
			chapter.ChapterNumber,
			chapter.Title,
			chapter.UploaderID,
			chapter.TranslatedLanguage,
		).Scan(&chapter.ID, &chapter.UploadDate)
		if err != nil {
			return dberr.Wrap(err, "failed to insert chapter")
		}

		_, err = insertPages(context, tx, chapter.ID, 1, imageURLs)
		return err
	})
}

/*
AppendPages numbers new pages from max(page_number)+1.

Description: The chapter row is locked FOR UPDATE before reading the current
maximum so concurrent appends to the same chapter are serialised.
*/
func (repository *chapterRepository) AppendPages(context context.Context, chapterID int64, imageURLs []string) ([]*Page, error) {
	var pages []*Page

	err := pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		lockChapter := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			schema.CoreChapter.ID, schema.CoreChapter.Table, schema.CoreChapter.ID)

		var locked int64
		if err := tx.QueryRow(context, lockChapter, chapterID).Scan(&locked); err != nil {
			if dberr.IsNoRows(err) {
				return nil
			}
			return fmt.Errorf("postgres: failed to lock chapter: %w", err)
		}

		nextPage := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = $1`,
			schema.CorePage.PageNumber, schema.CorePage.Table, schema.CorePage.ChapterID)

		var first int
		if err := tx.QueryRow(context, nextPage, chapterID).Scan(&first); err != nil {
			return fmt.Errorf("postgres: failed to read last page: %w", err)
		}

		inserted, err := insertPages(context, tx, chapterID, first, imageURLs)
		if err != nil {
			return err
		}
		pages = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pages, nil
}

// Delete removes dependent pages first, then the chapter, in one transaction.
func (repository *chapterRepository) Delete(context context.Context, id int64) (bool, error) {
	var deleted bool

	err := pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		deletePages := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CorePage.Table, schema.CorePage.ChapterID)
		if _, err := tx.Exec(context, deletePages, id); err != nil {
			return fmt.Errorf("postgres: failed to delete pages: %w", err)
		}

		deleteChapter := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreChapter.Table, schema.CoreChapter.ID)
		result, err := tx.Exec(context, deleteChapter, id)
		if err != nil {
			return fmt.Errorf("postgres: failed to delete chapter: %w", err)
		}

		deleted = result.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// insertPages queues one INSERT per page in a single batch round trip.
func insertPages(context context.Context, tx pgx.Tx, chapterID int64, first int, imageURLs []string) ([]*Page, error) {
	pages := make([]*Page, 0, len(imageURLs))
	if len(imageURLs) == 0 {
		return pages, nil
	}

	insertPage := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3)`,
		schema.CorePage.Table, schema.List("", schema.CorePage.Columns()...))

	batch := &pgx.Batch{}
	for i, imageURL := range imageURLs {
		page := &Page{ChapterID: chapterID, PageNumber: first + i, ImageURL: imageURL}
		batch.Queue(insertPage, page.ChapterID, page.PageNumber, page.ImageURL)
		pages = append(pages, page)
	}

	results := tx.SendBatch(context, batch)
	defer results.Close()

	for i := range pages {
		if _, err := results.Exec(); err != nil {
			return nil, dberr.Wrap(err, fmt.Sprintf("failed to insert page %d", pages[i].PageNumber))
		}
	}

	return pages, nil
}
