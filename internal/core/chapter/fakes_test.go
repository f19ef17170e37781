// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/storage"
)

// # Repository Fake

type fakeRepository struct {
	mu        sync.Mutex
	chapters  map[int64]*chapter.Chapter
	pages     map[int64][]*chapter.Page
	nextID    int64
	idCalls   [][]int64
	createErr error
}

func newFakeRepository(chapters ...*chapter.Chapter) *fakeRepository {
	repository := &fakeRepository{
		chapters: map[int64]*chapter.Chapter{},
		pages:    map[int64][]*chapter.Page{},
		nextID:   100,
	}
	for _, item := range chapters {
		repository.chapters[item.ID] = item
	}
	return repository
}

func (repository *fakeRepository) ListRecent(_ context.Context, limit, offset int, _ chapter.Order) ([]*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	out := make([]*chapter.Chapter, 0, len(repository.chapters))
	for _, item := range repository.chapters {
		out = append(out, item)
	}
	return out, nil
}

func (repository *fakeRepository) FindByID(_ context.Context, id int64) (*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.chapters[id], nil
}

func (repository *fakeRepository) FindByIDs(_ context.Context, ids []int64) ([]*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.idCalls = append(repository.idCalls, ids)
	out := []*chapter.Chapter{}
	for _, id := range ids {
		if item, ok := repository.chapters[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (repository *fakeRepository) ListByManga(_ context.Context, mangaID int64) ([]*chapter.Chapter, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	out := []*chapter.Chapter{}
	for _, item := range repository.chapters {
		if item.MangaID == mangaID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (repository *fakeRepository) ListPages(_ context.Context, chapterID int64) ([]*chapter.Page, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return append([]*chapter.Page{}, repository.pages[chapterID]...), nil
}

func (repository *fakeRepository) Exists(_ context.Context, mangaID int64, number, uploaderID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, item := range repository.chapters {
		if item.MangaID == mangaID && item.ChapterNumber == number && item.UploaderID == uploaderID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *fakeRepository) CreateWithPages(_ context.Context, item *chapter.Chapter, urls []string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.createErr != nil {
		return repository.createErr
	}
	repository.nextID++
	item.ID = repository.nextID
	item.UploadDate = time.Now()
	repository.chapters[item.ID] = item
	for i, url := range urls {
		repository.pages[item.ID] = append(repository.pages[item.ID], &chapter.Page{ChapterID: item.ID, PageNumber: i + 1, ImageURL: url})
	}
	return nil
}

func (repository *fakeRepository) AppendPages(_ context.Context, chapterID int64, urls []string) ([]*chapter.Page, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.chapters[chapterID]; !ok {
		return nil, nil
	}
	first := len(repository.pages[chapterID]) + 1
	inserted := make([]*chapter.Page, 0, len(urls))
	for i, url := range urls {
		page := &chapter.Page{ChapterID: chapterID, PageNumber: first + i, ImageURL: url}
		repository.pages[chapterID] = append(repository.pages[chapterID], page)
		inserted = append(inserted, page)
	}
	return inserted, nil
}

func (repository *fakeRepository) Delete(_ context.Context, id int64) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.chapters[id]; !ok {
		return false, nil
	}
	delete(repository.pages, id)
	delete(repository.chapters, id)
	return true, nil
}

// # Remote Fake

type fakeRemote struct {
	mu       sync.Mutex
	chapters map[string]*mangadex.Chapter
	calls    int
	err      error
}

func (remote *fakeRemote) GetChapterList(context.Context, int, int, string) ([]mangadex.Chapter, error) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.calls++

	out := []mangadex.Chapter{}
	for _, item := range remote.chapters {
		out = append(out, *item)
	}
	return out, remote.err
}

func (remote *fakeRemote) GetChapterByID(_ context.Context, id string) (*mangadex.Chapter, error) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.calls++

	if remote.err != nil {
		return nil, remote.err
	}
	item, ok := remote.chapters[id]
	if !ok {
		return nil, apperr.UpstreamNotFound("Chapter", mangadex.ErrNotFound)
	}
	return item, nil
}

func (remote *fakeRemote) GetChaptersBatch(_ context.Context, ids []string, _ int) ([]*mangadex.Chapter, error) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.calls++

	out := []*mangadex.Chapter{}
	for _, id := range ids {
		if item, ok := remote.chapters[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// # Uploader Fake

type fakeUploader struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	failOn  string
}

func (uploader *fakeUploader) Save(_ context.Context, object storage.Object) (string, error) {
	if _, err := storage.ImageExtension(object.Name); err != nil {
		return "", err
	}

	body, err := object.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	if object.Name == uploader.failOn {
		return "", fmt.Errorf("disk full")
	}
	url := "/uploads/pages/" + object.Name
	uploader.saved = append(uploader.saved, url)
	return url, nil
}

func (uploader *fakeUploader) Remove(_ context.Context, url string) error {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	uploader.removed = append(uploader.removed, url)
	return nil
}

func pageObject(name string) storage.Object {
	return storage.Object{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("image-bytes")), nil },
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

