package request

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"

	"github.com/litcircle/litcircle/config"
)

func init() {
	config.Opts = config.GetDefaultOptions()
}

func TestRouteIntParam(t *testing.T) {
	r, err := http.NewRequest("GET", "/clubs/42", nil)
	if err != nil {
		t.Fatal(err)
	}
	r = mux.SetURLVars(r, map[string]string{"clubID": "42"})

	if got := RouteIntParam(r, "clubID"); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := RouteIntParam(r, "missing"); got != 0 {
		t.Errorf("Expected 0 for a missing param, got %d", got)
	}

	r = mux.SetURLVars(r, map[string]string{"clubID": "-5"})
	if got := RouteIntParam(r, "clubID"); got != 0 {
		t.Errorf("Expected 0 for a negative param, got %d", got)
	}
}

func TestQueryParams(t *testing.T) {
	r, err := http.NewRequest("GET", "/books?q=dune&limit=5&bad=x", nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := QueryStringParam(r, "q", ""); got != "dune" {
		t.Errorf("Expected dune, got %q", got)
	}
	if got := QueryStringParam(r, "missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := QueryIntParam(r, "limit", 10); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := QueryIntParam(r, "bad", 10); got != 10 {
		t.Errorf("Expected fallback 10, got %d", got)
	}
}

func TestPagination(t *testing.T) {
	r, err := http.NewRequest("GET", "/books", nil)
	if err != nil {
		t.Fatal(err)
	}
	page, pageSize := Pagination(r)
	if page != 1 || pageSize != config.Opts.PageSize {
		t.Errorf("Expected defaults, got page=%d page_size=%d", page, pageSize)
	}

	r, err = http.NewRequest("GET", "/books?page=3&page_size=1000", nil)
	if err != nil {
		t.Fatal(err)
	}
	page, pageSize = Pagination(r)
	if page != 3 {
		t.Errorf("Expected page 3, got %d", page)
	}
	if pageSize != config.Opts.MaxPageSize {
		t.Errorf("Expected clamp to %d, got %d", config.Opts.MaxPageSize, pageSize)
	}
}
