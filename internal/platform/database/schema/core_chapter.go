package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table              string
	ID                 string
	MangaID            string
	ChapterNumber      string
	Title              string
	UploadDate         string
	UploaderID         string
	TranslatedLanguage string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:              "core.chapter",
	ID:                 "chapter_id",
	MangaID:            "manga_id",
	ChapterNumber:      "chapter_number",
	Title:              "title",
	UploadDate:         "upload_date",
	UploaderID:         "uploader_id",
	TranslatedLanguage: "translated_language",
}
