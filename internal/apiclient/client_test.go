package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-admin/internal/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCatalog(New(srv.URL+"/v1", credentials.StaticProvider("tok")))
}

func TestListSendsQueryAndBearer(t *testing.T) {
	active := true
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/admin/genres", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "genreName", q.Get("sortBy"))
		assert.Equal(t, "desc", q.Get("sortOrder"))
		assert.Equal(t, "act", q.Get("search"))
		assert.Equal(t, "true", q.Get("isActive"))
		assert.False(t, q.Has("status"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":      []map[string]any{{"id": "g1", "genreName": "Action", "genreCode": "ACT", "isActive": true}},
			"total":      11,
			"page":       2,
			"limit":      10,
			"totalPages": 2,
		})
	})

	page, err := cat.Genres.List(context.Background(), Query{
		Page: 2, Limit: 10, SortBy: "genreName", SortOrder: SortDesc, Search: "act", IsActive: &active,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ACT", page.Items[0].GenreCode)
	assert.EqualValues(t, 11, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListOmitsEmptySearch(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("search"))
		assert.False(t, q.Has("isActive"))
		_, _ = io.WriteString(w, `{"items":[],"total":0,"page":1,"limit":10,"totalPages":0}`)
	})

	_, err := cat.Tags.List(context.Background(), Query{Page: 1, Limit: 10})
	require.NoError(t, err)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"jwt expired"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "server message",
			status: http.StatusConflict,
			body:   `{"message":"Genre code already exists"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
				assert.Equal(t, "Genre code already exists", apiErr.Message)
			},
		},
		{
			name:   "message list",
			status: http.StatusBadRequest,
			body:   `{"message":["name must be a string","code is required"]}`,
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "name must be a string; code is required")
			},
		},
		{
			name:   "status text fallback",
			status: http.StatusBadGateway,
			body:   `<html>upstream down</html>`,
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "Bad Gateway")
			},
		},
		{
			name:   "undecodable success body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				require.True(t, errors.As(err, &reqErr))
				assert.EqualError(t, err, "failed to fetch genres")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := cat.Genres.List(context.Background(), Query{Page: 1, Limit: 10})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMissingCredentialSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	cat := NewCatalog(New(srv.URL+"/v1", credentials.StaticProvider("")))
	_, err := cat.Countries.List(context.Background(), Query{Page: 1, Limit: 10})

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, 0, calls)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cat := NewCatalog(New(url+"/v1", credentials.StaticProvider("tok")))
	err := cat.Countries.Delete(context.Background(), "c1")

	assert.EqualError(t, err, "failed to delete countries")
}

func TestCreateJSON(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/admin/countries", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "US", body["code"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"c1","name":"United States","code":"US","isActive":true}`)
	})

	country, err := cat.Countries.Create(context.Background(), Payload{
		Fields: map[string]any{"name": "United States", "code": "US", "isActive": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", country.ID)
}

func TestCreateMultipart(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var data map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("castData")), &data))
		assert.Equal(t, "Tom Hanks", data["castName"])

		file, header, err := r.FormFile("castImageFile")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "hanks.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.Equal(t, []byte("png-bytes"), content)

		_, _ = io.WriteString(w, `{"id":"k1","castName":"Tom Hanks","isActive":true}`)
	})

	member, err := cat.Cast.Create(context.Background(), Payload{
		Fields: map[string]any{"castName": "Tom Hanks"},
		Files:  []FilePart{{Field: "castImageFile", Filename: "hanks.png", ContentType: "image/png", Content: []byte("png-bytes")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "k1", member.ID)
}

func TestUpdateVerbs(t *testing.T) {
	var methods []string
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"x"}`)
	})
	ctx := context.Background()

	_, err := cat.Genres.Update(ctx, "g1", Payload{Fields: map[string]any{"genreName": "Drama"}})
	require.NoError(t, err)
	_, err = cat.Movies.Update(ctx, "m1", Payload{Fields: map[string]any{"title": "Big"}})
	require.NoError(t, err)
	require.NoError(t, cat.Cast.Delete(ctx, "k1"))

	assert.Equal(t, []string{
		"PATCH /v1/admin/genres/g1",
		"PUT /v1/admin/movies/m1",
		"DELETE /v1/admin/cast/k1",
	}, methods)
}

func TestDeleteIgnoresEmptyBody(t *testing.T) {
	cat := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, cat.Tags.Delete(context.Background(), "t1"))
}
