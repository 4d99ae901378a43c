package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/quick-pic/internal/handler"
)

func TestHandlerErrors(t *testing.T) {
	failing := handler.Handler(func(w http.ResponseWriter, r *http.Request) *handler.Error {
		return handler.BadRequest("nope")
	})

	tests := []struct {
		Name                string
		Accept              string
		ExpectedContentType string
		ExpectedBody        string
	}{
		{"text error", "", "text/plain; charset=utf-8", "nope\n"},
		{"json error", "application/json", "application/json", "{\"error\":\"nope\"}\n"},
	}

	for _, test := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if test.Accept != "" {
			r.Header.Set("Accept", test.Accept)
		}

		w := httptest.NewRecorder()
		failing.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
		}

		if contentType := w.Header().Get("Content-Type"); contentType != test.ExpectedContentType {
			t.Errorf("%s: wrong content type, %#v", test.Name, contentType)
		}

		if w.Body.String() != test.ExpectedBody {
			t.Errorf("%s: wrong body, %#v", test.Name, w.Body.String())
		}

		if cacheControl := w.Header().Get("Cache-Control"); cacheControl != "private, no-cache, no-store, must-revalidate" {
			t.Errorf("%s: wrong cache control header, %#v", test.Name, cacheControl)
		}
	}
}

func TestHandlerSuccess(t *testing.T) {
	ok := handler.Handler(func(w http.ResponseWriter, r *http.Request) *handler.Error {
		w.Write([]byte("fine"))
		return nil
	})

	w := httptest.NewRecorder()
	ok.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK || w.Body.String() != "fine" {
		t.Errorf("wrong response, %d %#v", w.Code, w.Body.String())
	}

	if w.Header().Get("Cache-Control") != "" {
		t.Error("cache control header set on success")
	}
}

func TestRequestID(t *testing.T) {
	var id string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = handler.GetReqID(r.Context())
	})

	w := httptest.NewRecorder()
	handler.AddRequestID(inner).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if id == "" {
		t.Error("no request id attached")
	}

	if handler.GetReqID(httptest.NewRequest("GET", "/", nil).Context()) != "" {
		t.Error("request id reported without the middleware")
	}
}
