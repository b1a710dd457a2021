package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/middleware"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
	"github.com/cnds86/kiptrack/internal/store"
	"github.com/cnds86/kiptrack/internal/testutil"
	"github.com/cnds86/kiptrack/internal/validator"
)

const testAPIKey = "test-key"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// stubParser returns a canned proposal.
type stubParser struct {
	proposal models.Proposal
	err      error
	mimeType string
}

func (p *stubParser) ParseText(_ context.Context, _ string, _ models.AppData, _ string) (models.Proposal, error) {
	return p.proposal, p.err
}

func (p *stubParser) ParseReceipt(_ context.Context, _ []byte, mimeType string, _ models.AppData, _ string) (models.Proposal, error) {
	p.mimeType = mimeType
	return p.proposal, p.err
}

type stubAdvisor struct{ language string }

func (a *stubAdvisor) Advice(_ context.Context, _ models.AppData, language string) (string, error) {
	a.language = language
	return "Cook at home more often.", nil
}

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	parser  *stubParser
	advisor *stubAdvisor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, testutil.NewTestStore(t))
}

func newTestEnvWithStore(t *testing.T, st *store.Store) *testEnv {
	t.Helper()

	opts := services.Options{
		Policy: models.PolicyWarnAndSkip,
		Now:    func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
	audit := services.NewAuditService()
	notifications := services.NewNotificationService(st, opts)
	transactions := services.NewTransactionService(st, notifications, audit, opts)
	goals := services.NewGoalService(st, notifications, audit, opts)
	parser := &stubParser{}
	advisor := &stubAdvisor{}

	router := NewRouter(Services{
		Ready:         st,
		Accounts:      services.NewAccountService(st, notifications, audit, opts),
		Transactions:  transactions,
		Goals:         goals,
		Recurring:     services.NewRecurringService(st, notifications, audit, opts),
		Categories:    services.NewCategoryService(st, audit),
		Currencies:    services.NewCurrencyService(st, nil, audit),
		Notifications: notifications,
		Proposals:     services.NewProposalService(st, parser, advisor, transactions, goals, opts),
		Backup:        services.NewBackupService(st, notifications, audit),
	}, testAPIKey)

	return &testEnv{router: router, store: st, parser: parser, advisor: advisor}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doUpload(r *gin.Engine, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile(field, filename)
	_, _ = io.Copy(part, bytes.NewReader(content))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func doRequestWithoutKey(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
