package mt5

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html><body>statement</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(nil, 5*time.Second)
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(string(body), "statement") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("user agent = %q, want browser-like", gotUA)
	}
	if gotAccept == "" {
		t.Error("accept header not sent")
	}
}

func TestFetchRejectsDisallowedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	f := NewFetcher([]string{"statements.example.com"}, 5*time.Second)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("fetch from disallowed host must fail")
	}
}
