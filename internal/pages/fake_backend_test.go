package pages

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/credentials"
)

type failure struct {
	status  int
	message any
}

// fakeBackend serves /v1/admin/{resource} from in-memory rows.
type fakeBackend struct {
	mu       sync.Mutex
	rows     map[string][]map[string]any
	failures map[string]failure
	requests []string
	bodies   []map[string]any
	files    []string
	nextID   int
}

func newFakeBackend(rows map[string][]map[string]any) *fakeBackend {
	if rows == nil {
		rows = map[string][]map[string]any{}
	}
	return &fakeBackend{rows: rows, failures: map[string]failure{}}
}

func (b *fakeBackend) fail(method string, status int, message any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = failure{status: status, message: message}
}

func (b *fakeBackend) heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

func (b *fakeBackend) count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func (b *fakeBackend) lastBody() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.bodies) == 0 {
		return nil
	}
	return b.bodies[len(b.bodies)-1]
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
	w.Header().Set("Content-Type", "application/json")

	if f, ok := b.failures[r.Method]; ok {
		w.WriteHeader(f.status)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": f.message})
		return
	}

	segs := strings.Split(strings.TrimPrefix(r.URL.Path, "/v1/admin/"), "/")
	resource := segs[0]

	switch r.Method {
	case http.MethodGet:
		b.list(w, r, resource)
	case http.MethodPost:
		body := b.decode(r)
		b.nextID++
		body["id"] = fmt.Sprintf("new-%d", b.nextID)
		b.rows[resource] = append([]map[string]any{body}, b.rows[resource]...)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	case http.MethodPatch, http.MethodPut:
		body := b.decode(r)
		for _, row := range b.rows[resource] {
			if row["id"] == segs[1] {
				for k, v := range body {
					row[k] = v
				}
				_ = json.NewEncoder(w).Encode(row)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "not found"})
	case http.MethodDelete:
		rows := b.rows[resource][:0]
		for _, row := range b.rows[resource] {
			if row["id"] != segs[1] {
				rows = append(rows, row)
			}
		}
		b.rows[resource] = rows
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request, resource string) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	all := b.rows[resource]
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	items := all[start:end]
	if items == nil {
		items = []map[string]any{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items":      items,
		"total":      len(all),
		"page":       page,
		"limit":      limit,
		"totalPages": (len(all) + limit - 1) / limit,
	})
}

func (b *fakeBackend) decode(r *http.Request) map[string]any {
	body := map[string]any{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for field, values := range r.MultipartForm.Value {
				if strings.HasSuffix(field, "Data") && len(values) > 0 {
					_ = json.Unmarshal([]byte(values[0]), &body)
				}
			}
			for field := range r.MultipartForm.File {
				b.files = append(b.files, field)
			}
		}
	} else {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	copied := make(map[string]any, len(body))
	for k, v := range body {
		copied[k] = v
	}
	b.bodies = append(b.bodies, copied)
	return body
}

func newCatalog(t *testing.T, b *fakeBackend) *apiclient.Catalog {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return apiclient.NewCatalog(apiclient.New(srv.URL+"/v1", credentials.StaticProvider("tok")))
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func genreRows(n int) []map[string]any {
	rows := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, map[string]any{
			"id":        fmt.Sprintf("g%d", i),
			"genreName": fmt.Sprintf("Genre %d", i),
			"genreCode": fmt.Sprintf("G%d", i),
			"isActive":  i%2 == 1,
		})
	}
	return rows
}
