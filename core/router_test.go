package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hello(w http.ResponseWriter, r *http.Request) error {
	io.WriteString(w, "hello")
	return nil
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_ServesMatchingRoute(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))

	rec := serve(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestRouter_HeadRunsGetHandler(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))

	rec := serve(router, http.MethodHead, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Returns404ForUnknownRoute(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))

	for _, path := range []string{"/missing", "/index.html", "/static"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestRouter_Returns405ForUnregisteredMethod(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rec := serve(router, method, "/")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
		})
	}
}

func TestRouter_RejectsDuplicateRoute(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))

	err := router.Handle("/", hello)
	require.ErrorIs(t, err, ErrDuplicateRoute)
	assert.Contains(t, err.Error(), "/")

	err = router.Handle("/", hello, http.MethodHead, http.MethodPost)
	require.ErrorIs(t, err, ErrDuplicateRoute)

	// The failed registration must not have added POST.
	rec := serve(router, http.MethodPost, "/")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_DistinctMethodsOnSamePath(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", hello))
	require.NoError(t, router.Handle("/", func(w http.ResponseWriter, r *http.Request) error {
		io.WriteString(w, "posted")
		return nil
	}, "post"))

	assert.Equal(t, "posted", serve(router, http.MethodPost, "/").Body.String())
	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/"},
		{Method: http.MethodHead, Path: "/"},
		{Method: http.MethodPost, Path: "/"},
	}, router.Routes())
}

func TestRouter_RejectsInvalidRegistration(t *testing.T) {
	router := NewRouter(nil)
	assert.Error(t, router.Handle("relative", hello))
	assert.Error(t, router.Handle("/", nil))
	assert.Empty(t, router.Routes())
}

func TestRouter_HandlerErrorGoesToErrorHandler(t *testing.T) {
	var got error
	router := NewRouter(func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusInternalServerError)
	})
	boom := errors.New("boom")
	require.NoError(t, router.Handle("/", func(w http.ResponseWriter, r *http.Request) error {
		return fmt.Errorf("render: %w", boom)
	}))

	rec := serve(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.ErrorIs(t, got, boom)
}

func TestRouter_DefaultErrorHandlerUsesStatusOf(t *testing.T) {
	router := NewRouter(nil)
	require.NoError(t, router.Handle("/", func(w http.ResponseWriter, r *http.Request) error {
		return NewHTTPError(http.StatusServiceUnavailable, errors.New("down"))
	}))

	rec := serve(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "down")
}
