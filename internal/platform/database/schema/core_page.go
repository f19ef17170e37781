package schema

// CorePageTable represents the 'core.page' table
type CorePageTable struct {
	Table      string
	ChapterID  string
	PageNumber string
	ImageURL   string
}

// CorePage is the schema definition for core.page
var CorePage = CorePageTable{
	Table:      "core.page",
	ChapterID:  "chapter_id",
	PageNumber: "page_number",
	ImageURL:   "image_url",
}

func (t CorePageTable) Columns() []string {
	return []string{t.ChapterID, t.PageNumber, t.ImageURL}
}
