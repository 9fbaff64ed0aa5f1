package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dominh-hy/TaxViet/internal/core"
	applog "github.com/dominh-hy/TaxViet/internal/log"
	"github.com/dominh-hy/TaxViet/internal/services"
	"github.com/dominh-hy/TaxViet/internal/storage"
	"github.com/dominh-hy/TaxViet/internal/tax"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	assistant := services.New(storage.NewMemoryStore(), nil)
	logger := applog.New(applog.Config{
		Level:   slog.LevelError,
		Handler: slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}),
	})
	srv := NewServer(":0", assistant, logger)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/auth/register",
		`{"identifier":"an@example.com","full_name":"Nguyen Van An","secret":"s3cret"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rr.Code, rr.Body.String())
	}
	var acc accountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &acc); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if acc.Identifier != "an@example.com" {
		t.Fatalf("identifier=%q", acc.Identifier)
	}

	// Register activates the session.
	rr = do(t, srv, http.MethodGet, "/api/session", "")
	var sess sessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if !sess.Active || sess.Identifier != "an@example.com" {
		t.Fatalf("session=%+v", sess)
	}

	// Duplicate registration conflicts, case-insensitively.
	rr = do(t, srv, http.MethodPost, "/api/auth/register",
		`{"identifier":"AN@Example.COM","full_name":"Other","secret":"x"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate register status=%d", rr.Code)
	}

	if rr = do(t, srv, http.MethodPost, "/api/auth/logout", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("logout status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/session", "")
	sess = sessionResponse{}
	_ = json.Unmarshal(rr.Body.Bytes(), &sess)
	if sess.Active {
		t.Fatal("session should be inactive after logout")
	}

	// Wrong secret is rejected, right one accepted.
	rr = do(t, srv, http.MethodPost, "/api/auth/login",
		`{"identifier":"an@example.com","secret":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/auth/login",
		`{"identifier":"An@Example.com","secret":"s3cret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, "/api/auth/login",
		`{"identifier":"ghost@example.com","secret":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown login status=%d", rr.Code)
	}
}

func TestScopedEndpointsRequireSession(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/profile", ""},
		{http.MethodPut, "/api/profile", `{"display_name":"x"}`},
		{http.MethodGet, "/api/records", ""},
		{http.MethodPost, "/api/records", `{"total":"1"}`},
	} {
		rr := do(t, srv, tc.method, tc.path, tc.body)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status=%d, want 401", tc.method, tc.path, rr.Code)
		}
	}
}

func TestComputeWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/tax/compute",
		`{"revenue":"100000000","expenses":"20000000","vat_rate":"0.01","pit_rate":"0.005","period":"quarter","pit_method":"threshold"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("compute status=%d body=%s", rr.Code, rr.Body.String())
	}
	var result tax.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Total.Equal(decimal.NewFromInt(1500000)) {
		t.Fatalf("total=%s, want 1500000", result.Total)
	}

	rr = do(t, srv, http.MethodPost, "/api/tax/compute",
		`{"revenue":"-5","vat_rate":"0.01","pit_rate":"0.005","period":"quarter","pit_method":"threshold"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative revenue status=%d", rr.Code)
	}
}

func TestRecordLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/auth/register",
		`{"identifier":"binh@example.com","full_name":"Tran Binh","secret":"pw"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/tax/compute",
		`{"revenue":"100000000","expenses":"20000000","vat_rate":"0.01","pit_rate":"0.005","period":"quarter","pit_method":"expense"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("compute status=%d", rr.Code)
	}

	// Save the computed result exactly as returned.
	rr = do(t, srv, http.MethodPost, "/api/records", rr.Body.String())
	if rr.Code != http.StatusCreated {
		t.Fatalf("save status=%d body=%s", rr.Code, rr.Body.String())
	}
	var rec core.TaxRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ID == "" || rec.Status != core.StatusPending {
		t.Fatalf("record=%+v", rec)
	}
	if !rec.TaxAmount.Equal(decimal.NewFromInt(1200000)) {
		t.Fatalf("tax amount=%s, want 1200000", rec.TaxAmount)
	}

	listRecords := func() []core.TaxRecord {
		rr := do(t, srv, http.MethodGet, "/api/records", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("list status=%d", rr.Code)
		}
		var records []core.TaxRecord
		if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
			t.Fatalf("decode records: %v", err)
		}
		return records
	}

	if got := listRecords(); len(got) != 1 || got[0].ID != rec.ID {
		t.Fatalf("records=%+v", got)
	}

	// Toggle flips pending to paid and invalidates the cached list.
	if rr = do(t, srv, http.MethodPost, "/api/records/"+rec.ID+"/toggle", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("toggle status=%d", rr.Code)
	}
	if got := listRecords(); got[0].Status != core.StatusPaid {
		t.Fatalf("status after toggle=%s", got[0].Status)
	}

	// Unknown ids are tolerated.
	if rr = do(t, srv, http.MethodDelete, "/api/records/no-such-id", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete unknown status=%d", rr.Code)
	}
	if rr = do(t, srv, http.MethodDelete, "/api/records/"+rec.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if got := listRecords(); len(got) != 0 {
		t.Fatalf("records after delete=%+v", got)
	}
}

func TestProfileDefaultsAndUpdate(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/auth/register",
		`{"identifier":"chi@example.com","full_name":"Le Chi","secret":"pw"}`)

	rr := do(t, srv, http.MethodGet, "/api/profile", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("profile status=%d", rr.Code)
	}
	var profile core.Profile
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.DisplayName != "Le Chi" {
		t.Fatalf("display name=%q", profile.DisplayName)
	}
	if profile.TaxCode != "Chưa cập nhật" {
		t.Fatalf("tax code=%q", profile.TaxCode)
	}

	profile.DisplayName = "Chi's Shop"
	profile.TaxCode = "8123456789"
	body, _ := json.Marshal(profile)
	rr = do(t, srv, http.MethodPut, "/api/profile", string(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}

	// The update must be visible past the cache.
	rr = do(t, srv, http.MethodGet, "/api/profile", "")
	var reread core.Profile
	_ = json.Unmarshal(rr.Body.Bytes(), &reread)
	if reread.DisplayName != "Chi's Shop" || reread.TaxCode != "8123456789" {
		t.Fatalf("profile after update=%+v", reread)
	}
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/preferences/theme-mode", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get preference status=%d", rr.Code)
	}
	var pref preferenceResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &pref)
	if pref.Value != "system" {
		t.Fatalf("default theme=%q", pref.Value)
	}

	rr = do(t, srv, http.MethodPut, "/api/preferences/theme-mode", `{"value":"dark"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set preference status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPut, "/api/preferences/theme-mode", `{"value":"purple"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid preference value status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/preferences/unknown-pref", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown preference status=%d", rr.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("categories status=%d", rr.Code)
	}
	var cats []struct {
		ID      string `json:"id"`
		Label   string `json:"label"`
		VATRate string `json:"vat_rate"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != 4 {
		t.Fatalf("categories count=%d", len(cats))
	}
	if cats[0].ID != "1" || cats[0].VATRate != "0.01" {
		t.Fatalf("first category=%+v", cats[0])
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/auth/register", `{"identifier":`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed body status=%d", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error.Code != "invalid_input" {
		t.Fatalf("error code=%q", resp.Error.Code)
	}
}
