package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/store"
	"github.com/openredline/redline/internal/report"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(Config{Port: 0, StorePath: ""}, st)
}

func textDocument(texts ...string) *doc.Document {
	d := &doc.Document{}
	for _, s := range texts {
		d.Blocks = append(d.Blocks, &doc.Paragraph{
			Content: []doc.ParagraphContent{doc.NewTextRun(s, nil)},
		})
	}
	return d
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestRootUnknownPath(t *testing.T) {
	srv := testServer(t)

	if w := doRequest(t, srv, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDiffComputesRevisions(t *testing.T) {
	srv := testServer(t)

	req := DiffRequest{
		Previous: textDocument("Alpha", "Beta"),
		Current:  textDocument("Alpha", "Gamma", "Beta"),
		StartID:  10,
	}
	w := doRequest(t, srv, http.MethodPost, "/diff", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Records []report.Record `json:"records"`
		Summary report.Summary  `json:"summary"`
	}
	decodeBody(t, w, &resp)

	if len(resp.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp.Records))
	}
	if resp.Records[0].Kind != report.KindInsertion {
		t.Errorf("Kind = %s, want insertion", resp.Records[0].Kind)
	}
	if resp.Records[0].ID != 10 {
		t.Errorf("ID = %d, want 10", resp.Records[0].ID)
	}
	if resp.Records[0].Text != "Gamma" {
		t.Errorf("Text = %q, want Gamma", resp.Records[0].Text)
	}
	if resp.Summary.Total != 1 {
		t.Errorf("Summary.Total = %d, want 1", resp.Summary.Total)
	}
}

func TestDiffWithFilter(t *testing.T) {
	srv := testServer(t)

	req := DiffRequest{
		Previous: textDocument("Alpha", "Beta"),
		Current:  textDocument("Gamma", "Beta"),
		StartID:  1,
	}
	w := doRequest(t, srv, http.MethodPost, "/diff?filter=kind+%3D+deletion", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Records []report.Record `json:"records"`
	}
	decodeBody(t, w, &resp)
	for _, r := range resp.Records {
		if r.Kind != report.KindDeletion {
			t.Errorf("filter leaked kind %s", r.Kind)
		}
	}
	if len(resp.Records) == 0 {
		t.Error("expected at least one deletion record")
	}
}

func TestDiffRejectsBadFilter(t *testing.T) {
	srv := testServer(t)

	req := DiffRequest{Previous: textDocument("a"), Current: textDocument("a")}
	w := doRequest(t, srv, http.MethodPost, "/diff?filter=severity+%3D+high", req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDiffRequiresBothDocuments(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, http.MethodPost, "/diff", DiffRequest{Current: textDocument("only one")})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDiffRejectsGet(t *testing.T) {
	srv := testServer(t)

	if w := doRequest(t, srv, http.MethodGet, "/diff", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	srv := testServer(t)

	// save
	w := doRequest(t, srv, http.MethodPut, "/snapshots/draft-1", textDocument("Hello"))
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}
	var saved map[string]string
	decodeBody(t, w, &saved)
	if saved["label"] != "draft-1" || saved["hash"] == "" {
		t.Errorf("save response = %v", saved)
	}

	// list
	w = doRequest(t, srv, http.MethodGet, "/snapshots", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var infos []store.SnapshotInfo
	decodeBody(t, w, &infos)
	if len(infos) != 1 || infos[0].Label != "draft-1" {
		t.Errorf("list = %+v, want one draft-1 entry", infos)
	}

	// load
	w = doRequest(t, srv, http.MethodGet, "/snapshots/draft-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d", w.Code)
	}
	var loaded doc.Document
	decodeBody(t, w, &loaded)
	if got := loaded.PlainText(); got != "Hello" {
		t.Errorf("PlainText = %q, want Hello", got)
	}

	// delete
	w = doRequest(t, srv, http.MethodDelete, "/snapshots/draft-1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	// gone
	w = doRequest(t, srv, http.MethodGet, "/snapshots/draft-1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("load after delete status = %d, want 404", w.Code)
	}
}

func TestSnapshotMissingLabel(t *testing.T) {
	srv := testServer(t)

	if w := doRequest(t, srv, http.MethodGet, "/snapshots/", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRunsEndpoint(t *testing.T) {
	srv := testServer(t)

	id, err := srv.store.SaveRun(httptest.NewRequest("GET", "/", nil).Context(),
		"before", "after", textDocument("annotated"), 2)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	w := doRequest(t, srv, http.MethodGet, "/runs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var runs []store.RunInfo
	decodeBody(t, w, &runs)
	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("runs = %+v, want one entry with ID %d", runs, id)
	}

	w = doRequest(t, srv, http.MethodGet, "/runs/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Run store.RunInfo `json:"run"`
	}
	decodeBody(t, w, &resp)
	if resp.Run.PrevLabel != "before" || resp.Run.CurrLabel != "after" {
		t.Errorf("run = %+v", resp.Run)
	}
}

func TestRunByIDNotFound(t *testing.T) {
	srv := testServer(t)

	if w := doRequest(t, srv, http.MethodGet, "/runs/99", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRunByIDInvalid(t *testing.T) {
	srv := testServer(t)

	if w := doRequest(t, srv, http.MethodGet, "/runs/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "cors.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	srv := New(Config{AllowedOrigins: []string{"https://app.example.com"}}, st)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q, want the listed origin", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for unlisted origin", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/diff", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}
