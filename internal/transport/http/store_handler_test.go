package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"webinar-portal/internal/domain"
)

func TestRegisterUpdateAndList(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", validProfile())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created registerResponse
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Message != "User registered successfully" {
		t.Fatalf("unexpected register response %+v", created)
	}

	resp = patchJSON(t, srv.URL+"/api/update/"+created.ID, map[string]bool{"quizPassed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/participants")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous listing, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/participants", nil)
	req.SetBasicAuth("Admin", "Reset@123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list []domain.Participant
	decodeBody(t, resp, &list)
	if len(list) != 1 || !list[0].QuizPassed || list[0].CertificateDownloaded {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].FullName != "Asha Rao" || list[0].RegisteredAt.IsZero() {
		t.Fatalf("expected stored profile with registration date, got %+v", list[0])
	}
}

func TestRegisterRejectsInvalidProfile(t *testing.T) {
	srv := newTestServer(t)
	profile := validProfile()
	profile.Phone = "0123456789"
	profile.City = ""

	resp := postJSON(t, srv.URL+"/api/register", profile)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body errorBody
	decodeBody(t, resp, &body)
	if len(body.Fields) != 2 || body.Fields[domain.FieldPhone] == "" || body.Fields[domain.FieldCity] == "" {
		t.Fatalf("expected phone and city errors, got %+v", body.Fields)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := patchJSON(t, srv.URL+"/api/update/missing", map[string]bool{"quizPassed": true})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/register", validProfile())
	var created registerResponse
	decodeBody(t, resp, &created)

	resp = patchJSON(t, srv.URL+"/api/update/"+created.ID, map[string]bool{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = patchJSON(t, srv.URL+"/api/update/"+created.ID, map[string]bool{"quizPassed": false})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for clearing a flag, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExportRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/api/register", validProfile()).Body.Close()

	resp, err := http.Get(srv.URL + "/api/participants/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/participants/export", nil)
	req.SetBasicAuth("Admin", "Reset@123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "participants_data_2025-03-14.csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	data, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID,Full Name") {
		t.Fatalf("expected header and one row, got %q", data)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var health messageResponse
	decodeBody(t, resp, &health)
	if health.Status != "ok" || health.Message != "Backend is running" {
		t.Fatalf("unexpected health %+v", health)
	}

	postJSON(t, srv.URL+"/api/register", validProfile()).Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `portal_registrations_total{result="ok"} 1`) {
		t.Fatalf("expected registration counter, got:\n%s", body)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	return sendJSON(t, http.MethodPost, url, body)
}

func patchJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	return sendJSON(t, http.MethodPatch, url, body)
}

func sendJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
