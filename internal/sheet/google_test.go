package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

type fakeSheetsAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []map[string]any
	values   [][]any
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)

	var body map[string]any
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}
	f.bodies = append(f.bodies, body)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"range": "ToBuyList!A2:G", "values": f.values})
	case strings.HasSuffix(r.URL.Path, ":append"):
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
	default:
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "updatedCells": 1})
	}
}

func newFakeGoogle(t *testing.T, api *fakeSheetsAPI) *GoogleStore {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	s, err := NewGoogleStoreWithOptions(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestGoogleStoreGet(t *testing.T) {
	api := &fakeSheetsAPI{values: [][]any{{"B00001", "Milk", 1}, {"B00002", "Eggs", 12.5}}}
	s := newFakeGoogle(t, api)

	rows, err := s.Get(context.Background(), Columns("ToBuyList", "A", "G", 2))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := [][]string{{"B00001", "Milk", "1"}, {"B00002", "Eggs", "12.5"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
	if !strings.Contains(api.requests[0].URL.Path, "/v4/spreadsheets/sheet-1/values/") {
		t.Errorf("unexpected path %s", api.requests[0].URL.Path)
	}
}

func TestGoogleStoreAppendUsesRawInsertRows(t *testing.T) {
	api := &fakeSheetsAPI{}
	s := newFakeGoogle(t, api)

	err := s.Append(context.Background(), Columns("ToBuyList", "A", "G", 2), [][]any{{"B00001", "Milk", 1}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	q := api.requests[0].URL.Query()
	if q.Get("valueInputOption") != "RAW" {
		t.Errorf("valueInputOption = %q", q.Get("valueInputOption"))
	}
	if q.Get("insertDataOption") != "INSERT_ROWS" {
		t.Errorf("insertDataOption = %q", q.Get("insertDataOption"))
	}
	values, _ := api.bodies[0]["values"].([]any)
	if len(values) != 1 {
		t.Fatalf("body values = %v", api.bodies[0])
	}
}

func TestGoogleStoreUpdate(t *testing.T) {
	api := &fakeSheetsAPI{}
	s := newFakeGoogle(t, api)

	if err := s.Update(context.Background(), Cell("ToBuyList", "F", 5), [][]any{{"bought"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if api.requests[0].Method != http.MethodPut {
		t.Errorf("method = %s, want PUT", api.requests[0].Method)
	}
}

func TestGoogleStoreSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	}))
	t.Cleanup(srv.Close)

	s, err := NewGoogleStoreWithOptions(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, err = s.Get(context.Background(), Columns("ToBuyList", "A", "A", 2))
	if err == nil || !strings.Contains(err.Error(), "permission") {
		t.Fatalf("err = %v, want permission error", err)
	}
}

func TestJWTConfigRequiresCredentials(t *testing.T) {
	if _, err := jwtConfig(GoogleCredentials{}); err == nil {
		t.Error("expected error without credentials")
	}
	conf, err := jwtConfig(GoogleCredentials{ClientEmail: "svc@example.com", PrivateKey: "key"})
	if err != nil {
		t.Fatalf("jwtConfig: %v", err)
	}
	if conf.Email != "svc@example.com" || len(conf.Scopes) != 1 {
		t.Errorf("conf = %+v", conf)
	}
}
