package request

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/litcircle/litcircle/config"
)

// RouteIntParam returns an URL route parameter as int.
func RouteIntParam(r *http.Request, param string) int {
	vars := mux.Vars(r)
	value, err := strconv.Atoi(vars[param])
	if err != nil {
		return 0
	}

	if value < 0 {
		return 0
	}

	return value
}

// RouteInt32Param returns an URL route parameter as int32.
func RouteInt32Param(r *http.Request, param string) int32 {
	return int32(RouteIntParam(r, param))
}

// QueryStringParam returns a query string parameter or the fallback.
func QueryStringParam(r *http.Request, param, fallback string) string {
	value := r.URL.Query().Get(param)
	if value == "" {
		return fallback
	}
	return value
}

// QueryIntParam returns a query string parameter as int or the fallback.
func QueryIntParam(r *http.Request, param string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(param))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// Pagination reads page/page_size from the query string, clamped to the
// configured maximum.
func Pagination(r *http.Request) (page, pageSize int) {
	page = QueryIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = QueryIntParam(r, "page_size", config.Opts.PageSize)
	if pageSize < 1 {
		pageSize = config.Opts.PageSize
	}
	if pageSize > config.Opts.MaxPageSize {
		pageSize = config.Opts.MaxPageSize
	}
	return page, pageSize
}
