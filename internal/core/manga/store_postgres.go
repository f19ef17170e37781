// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/database/schema"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/dberr"
)

// likeEscaper neutralises LIKE wildcards typed by the user.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var selectManga = fmt.Sprintf(`
	SELECT %s
	FROM %s
`, schema.List("", schema.CoreManga.Columns()...), schema.CoreManga.Table)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanManga(row pgx.Row) (*Manga, error) {
	m := &Manga{}
	if err := row.Scan(&m.ID, &m.Title, &m.CoverURL, &m.Status, &m.Country, &m.YearRelease, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (repository *PostgresRepository) Search(context context.Context, title string, limit int) ([]*Manga, error) {
	query := selectManga + fmt.Sprintf(`
		WHERE LOWER(%s) LIKE '%%' || LOWER($1) || '%%'
		ORDER BY %s ASC, %s ASC
		LIMIT $2
	`, schema.CoreManga.Title, schema.CoreManga.Title, schema.CoreManga.ID)

	rows, err := repository.db.Query(context, query, likeEscaper.Replace(title), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search_manga")
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Manga, error) {
		return scanManga(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_manga")
	}
	return results, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Manga, error) {
	query := selectManga + fmt.Sprintf(`WHERE %s = $1`, schema.CoreManga.ID)

	m, err := scanManga(repository.db.QueryRow(context, query, id))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_manga")
	}
	return m, nil
}
