package schema

// CoreMangaTable represents the 'core.manga' table
type CoreMangaTable struct {
	Table       string
	ID          string
	Title       string
	CoverURL    string
	Status      string
	Country     string
	YearRelease string
	CreatedAt   string
}

// CoreManga is the schema definition for core.manga
var CoreManga = CoreMangaTable{
	Table:       "core.manga",
	ID:          "manga_id",
	Title:       "title",
	CoverURL:    "cover_url",
	Status:      "status",
	Country:     "country",
	YearRelease: "year_release",
	CreatedAt:   "created_at",
}

func (t CoreMangaTable) Columns() []string {
	return []string{t.ID, t.Title, t.CoverURL, t.Status, t.Country, t.YearRelease, t.CreatedAt}
}
