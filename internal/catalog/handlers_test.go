package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-galeri/internal/catalog"
)

type staticFetcher struct {
	items []catalog.Item
}

func (f staticFetcher) List(context.Context) ([]catalog.Item, error) { return f.items, nil }

type imagesResponse struct {
	Data []catalog.Item `json:"data"`
}

func newImagesHandler(t *testing.T) *catalog.Handler {
	t.Helper()
	svc := catalog.NewService(catalog.ServiceConfig{
		Fetcher: staticFetcher{items: []catalog.Item{
			{ID: "0", Author: "Alejandro Escamilla", DownloadURL: "https://picsum.photos/id/0/5000/3333"},
			{ID: "10", Author: "Paul Jarvis", DownloadURL: "https://picsum.photos/id/10/2500/1667"},
			{ID: "11", Author: "Paul Jarvis", DownloadURL: "https://picsum.photos/id/11/2500/1667"},
		}},
		Logger: zerolog.Nop(),
	})
	svc.Refresh(context.Background())
	return catalog.NewHandler(catalog.HandlerConfig{Service: svc})
}

func TestImagesListAll(t *testing.T) {
	handler := newImagesHandler(t)

	rec := httptest.NewRecorder()
	handler.Images(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var resp imagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	require.Equal(t, "0", resp.Data[0].ID)
}

func TestImagesAuthorFilter(t *testing.T) {
	handler := newImagesHandler(t)

	rec := httptest.NewRecorder()
	handler.Images(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images?author=paul", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var resp imagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	for _, item := range resp.Data {
		require.Equal(t, "Paul Jarvis", item.Author)
	}
}

func TestImagesNoMatches(t *testing.T) {
	handler := newImagesHandler(t)

	rec := httptest.NewRecorder()
	handler.Images(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images?author=nobody", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp imagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
}
