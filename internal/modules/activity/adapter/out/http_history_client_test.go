package out_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/adapter/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	apperrors "github.com/rahimnathwani/mathacademy-stats/internal/platform/errors"
)

func testCursor() domain.Cursor {
	return domain.NewCursor(time.Date(2024, 3, 5, 22, 30, 0, 0, time.UTC))
}

func TestHTTPHistoryClientRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAccept, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAccept = r.Header.Get("Accept")
		if c, err := r.Cookie("sessionid"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(`[{"id": 5, "type": "Lesson", "points": 10}]`))
	}))
	defer srv.Close()

	client := out.NewHTTPHistoryClient(srv.URL+"/", 1234, "secret")
	items, err := client.FetchPage(context.Background(), testCursor())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].ID != 5 {
		t.Fatalf("got %+v, want one record with id 5", items)
	}

	wantPath := "/api/students/1234/activity/" + url.PathEscape(testCursor().String())
	if gotPath != wantPath {
		t.Fatalf("path %q, want %q", gotPath, wantPath)
	}
	if gotAccept != "application/json" {
		t.Fatalf("accept header %q", gotAccept)
	}
	if gotCookie != "secret" {
		t.Fatalf("session cookie %q", gotCookie)
	}
}

func TestHTTPHistoryClientOmitsCookieWhenUnset(t *testing.T) {
	t.Parallel()

	var hadCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("sessionid")
		hadCookie = err == nil
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := out.NewHTTPHistoryClient(srv.URL, 1234, "")
	if _, err := client.FetchPage(context.Background(), testCursor()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if hadCookie {
		t.Fatalf("cookie must not be sent without a configured session")
	}
}

func TestHTTPHistoryClientStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "session expired"}`))
	}))
	defer srv.Close()

	client := out.NewHTTPHistoryClient(srv.URL, 1234, "stale")
	_, err := client.FetchPage(context.Background(), testCursor())
	if err == nil {
		t.Fatalf("expected error on 403")
	}
	if !strings.Contains(err.Error(), "status 403") || !strings.Contains(err.Error(), "session expired") {
		t.Fatalf("error should carry status and body preview: %v", err)
	}
}

func TestHTTPHistoryClientNonArrayBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "login required"}`))
	}))
	defer srv.Close()

	client := out.NewHTTPHistoryClient(srv.URL, 1234, "secret")
	_, err := client.FetchPage(context.Background(), testCursor())
	if !errors.Is(err, apperrors.ErrUnexpectedPayloadType) {
		t.Fatalf("got %v, want ErrUnexpectedPayloadType", err)
	}
}
