// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ctxutil"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/sec"
)

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

// newRouter mounts the chapter routes; a non-empty userID authenticates every request.
func newRouter(repository *fakeRepository, remote *fakeRemote, uploader *fakeUploader, userID string) http.Handler {
	service := chapter.NewService(repository, remote, uploader, source.DefaultBatchSize, discardLogger())
	handler := chapter.NewHandler(service, 1<<20)

	router := chi.NewRouter()
	if userID != "" {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				claims := &sec.AuthClaims{UserID: userID}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithUploader(request.Context(), claims)))
			})
		})
	}
	handler.RegisterRoutes(router)
	return router
}

func serve(t *testing.T, router http.Handler, request *http.Request) (int, envelopeBody) {
	t.Helper()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var body envelopeBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder.Code, body
}

func multipartUpload(t *testing.T, target string, fields map[string]string, files ...string) *http.Request {
	t.Helper()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range files {
		part, err := writer.CreateFormFile("pages[]", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, target, &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

/*
TestHandler_SourceValidation rejects an unknown source selector on every read route.
*/
func TestHandler_SourceValidation(t *testing.T) {
	router := newRouter(newFakeRepository(), &fakeRemote{}, &fakeUploader{}, "")

	tests := []struct {
		name    string
		request *http.Request
	}{
		{"list", httptest.NewRequest(http.MethodGet, "/chapters?source=cache", nil)},
		{"detail", httptest.NewRequest(http.MethodGet, "/chapters/1?source=both", nil)},
		{"batch", httptest.NewRequest(http.MethodPost, "/chapters/batch?source=x", strings.NewReader(`{"ids":[]}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, router, tt.request)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, body.Success)
			assert.Equal(t, "VALIDATION_ERROR", body.Code)
		})
	}
}

/*
TestHandler_GetChapterLocal returns the envelope with a null apiResult.
*/
func TestHandler_GetChapterLocal(t *testing.T) {
	remote := &fakeRemote{}
	router := newRouter(newFakeRepository(localChapter(7, "2")), remote, &fakeUploader{}, "")

	status, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/chapters/7?source=db", nil))
	require.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), `"apiResult":null`)
	assert.Zero(t, remote.calls)

	status, body = serve(t, router, httptest.NewRequest(http.MethodGet, "/chapters/8?source=db", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

/*
TestHandler_BatchIDs accepts strings and numbers and rejects non-array ids.
*/
func TestHandler_BatchIDs(t *testing.T) {
	repository := newFakeRepository(localChapter(3, "1"), localChapter(4, "2"))
	router := newRouter(repository, &fakeRemote{}, &fakeUploader{}, "")

	request := httptest.NewRequest(http.MethodPost, "/chapters/batch?source=db", strings.NewReader(`{"ids":["3",4]}`))
	status, body := serve(t, router, request)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, [][]int64{{3, 4}}, repository.idCalls)

	for _, payload := range []string{`{"ids":"3"}`, `{}`, `{"ids":[true]}`} {
		request = httptest.NewRequest(http.MethodPost, "/chapters/batch", strings.NewReader(payload))
		status, body = serve(t, router, request)
		assert.Equal(t, http.StatusBadRequest, status, payload)
		assert.Equal(t, "VALIDATION_ERROR", body.Code, payload)
	}
}

/*
TestHandler_UploadRequiresAuth answers 401 without an authenticated uploader.
*/
func TestHandler_UploadRequiresAuth(t *testing.T) {
	uploader := &fakeUploader{}
	router := newRouter(newFakeRepository(), &fakeRemote{}, uploader, "")

	status, body := serve(t, router, multipartUpload(t, "/chapters", map[string]string{"manga_id": "1"}, "01.png"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Success)
	assert.Empty(t, uploader.saved)
}

/*
TestHandler_UploadChapter creates a chapter from a multipart form.
*/
func TestHandler_UploadChapter(t *testing.T) {
	repository := newFakeRepository()
	uploader := &fakeUploader{}
	router := newRouter(repository, &fakeRemote{}, uploader, "uploader-9")

	request := multipartUpload(t, "/chapters", map[string]string{
		"manga_id":       "1",
		"chapter_number": "4",
		"chapter_title":  "Homecoming",
	}, "01.png", "02.jpg")

	status, body := serve(t, router, request)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, body.Success)

	var created chapter.Created
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, 2, created.PagesUploaded)
	assert.Equal(t, "uploader-9", repository.chapters[created.ChapterID].UploaderID)
	assert.Equal(t, []string{"/uploads/pages/01.png", "/uploads/pages/02.jpg"}, uploader.saved)
}

/*
TestHandler_UploadRejectsNonMultipart answers 400 for a JSON body.
*/
func TestHandler_UploadRejectsNonMultipart(t *testing.T) {
	router := newRouter(newFakeRepository(), &fakeRemote{}, &fakeUploader{}, "uploader-9")

	request := httptest.NewRequest(http.MethodPost, "/chapters", strings.NewReader(`{"manga_id":1}`))
	request.Header.Set("Content-Type", "application/json")

	status, body := serve(t, router, request)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

/*
TestHandler_DeleteChapter removes a chapter once and then reports 404.
*/
func TestHandler_DeleteChapter(t *testing.T) {
	router := newRouter(newFakeRepository(localChapter(6, "1")), &fakeRemote{}, &fakeUploader{}, "uploader-1")

	status, body := serve(t, router, httptest.NewRequest(http.MethodDelete, "/chapters/6", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Chapter deleted"}`, string(body.Data))

	status, body = serve(t, router, httptest.NewRequest(http.MethodDelete, "/chapters/6", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
}
