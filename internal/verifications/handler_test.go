package verifications_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/internal/scoring"
	"github.com/vigiapix/vigia/internal/verifications"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/pagination"
)

type fakeSystem struct {
	analyze func(ctx context.Context, userID string, cmd verifications.AnalyzeCommand) (*verifications.AnalyzeResult, error)
	save    func(ctx context.Context, userID string, cmd verifications.SaveCommand) (*verifications.Verification, error)
	list    func(ctx context.Context, userID string, page pagination.PageRequest, filters verifications.Filters) (*pagination.PageResult[verifications.Verification], error)
	find    func(ctx context.Context, userID string, id uuid.UUID) (*verifications.Verification, error)
}

func (f *fakeSystem) Handler() *verifications.Handler { return nil }

func (f *fakeSystem) Analyze(ctx context.Context, userID string, cmd verifications.AnalyzeCommand) (*verifications.AnalyzeResult, error) {
	return f.analyze(ctx, userID, cmd)
}

func (f *fakeSystem) Save(ctx context.Context, userID string, cmd verifications.SaveCommand) (*verifications.Verification, error) {
	return f.save(ctx, userID, cmd)
}

func (f *fakeSystem) List(ctx context.Context, userID string, page pagination.PageRequest, filters verifications.Filters) (*pagination.PageResult[verifications.Verification], error) {
	return f.list(ctx, userID, page, filters)
}

func (f *fakeSystem) Find(ctx context.Context, userID string, id uuid.UUID) (*verifications.Verification, error) {
	return f.find(ctx, userID, id)
}

var testPagination = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func newTestHandler(sys verifications.System) *verifications.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return verifications.NewHandler(sys, logger, testPagination)
}

func authenticated(r *http.Request) *http.Request {
	ctx := identity.WithIdentity(r.Context(), &identity.Identity{Subject: "user-1"})
	return r.WithContext(ctx)
}

func TestAnalyzeSaved(t *testing.T) {
	id := uuid.New()
	created := time.Now().UTC()

	sys := &fakeSystem{
		analyze: func(ctx context.Context, userID string, cmd verifications.AnalyzeCommand) (*verifications.AnalyzeResult, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			if cmd.InputURL != "http://bit.ly/x" {
				t.Errorf("InputURL = %q", cmd.InputURL)
			}
			return &verifications.AnalyzeResult{
				Verification: &verifications.Verification{ID: id, CreatedAt: created},
				Assessment: scoring.Assessment{
					Score:           85,
					Confidence:      0.9,
					Reasons:         []string{"Link encurtado detectado"},
					Recommendations: []string{"NÃO efetue o pagamento - alto risco de golpe"},
				},
				Kind:  evidence.KindLink,
				Saved: true,
			}, nil
		},
	}

	body := `{"type": "link", "input_url": "http://bit.ly/x"}`
	r := authenticated(httptest.NewRequest("POST", "/verifications/analyze", strings.NewReader(body)))
	w := httptest.NewRecorder()

	newTestHandler(sys).Analyze(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp verifications.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.ID == nil || *resp.ID != id {
		t.Errorf("ID = %v, want %s", resp.ID, id)
	}
	if !resp.Saved {
		t.Error("Saved = false, want true")
	}
	if resp.Score != 85 {
		t.Errorf("Score = %d, want 85", resp.Score)
	}
	if resp.RiskLevel != risk.HighRisk {
		t.Errorf("RiskLevel = %s, want high_risk", resp.RiskLevel)
	}
	if resp.RiskLabel != "Alto Risco" {
		t.Errorf("RiskLabel = %q", resp.RiskLabel)
	}
	if resp.RiskColor != "#EF4444" {
		t.Errorf("RiskColor = %q", resp.RiskColor)
	}
	if resp.SaveError != "" {
		t.Errorf("SaveError = %q, want empty", resp.SaveError)
	}
}

func TestAnalyzeSaveFailureStillReturnsAssessment(t *testing.T) {
	sys := &fakeSystem{
		analyze: func(ctx context.Context, userID string, cmd verifications.AnalyzeCommand) (*verifications.AnalyzeResult, error) {
			return &verifications.AnalyzeResult{
				Assessment: scoring.Assessment{
					Score:      30,
					Confidence: 0.6,
					Reasons:    []string{"Análise heurística aplicada"},
				},
				Kind:      evidence.KindText,
				Saved:     false,
				SaveError: verifications.ErrSaveFailed.Error(),
			}, nil
		},
	}

	r := authenticated(httptest.NewRequest("POST", "/verifications/analyze", strings.NewReader(`{"type": "text", "input_text": "oi"}`)))
	w := httptest.NewRecorder()

	newTestHandler(sys).Analyze(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the save failed", w.Code)
	}

	var resp verifications.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Saved {
		t.Error("Saved = true, want false")
	}
	if resp.SaveError == "" {
		t.Error("SaveError empty, want the save failure message")
	}
	if resp.ID != nil {
		t.Errorf("ID = %v, want nil", resp.ID)
	}
	if resp.Score != 30 {
		t.Errorf("Score = %d, want the preserved assessment", resp.Score)
	}
}

func TestAnalyzeUnauthenticated(t *testing.T) {
	r := httptest.NewRequest("POST", "/verifications/analyze", strings.NewReader(`{"type": "text", "input_text": "oi"}`))
	w := httptest.NewRecorder()

	newTestHandler(&fakeSystem{}).Analyze(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAnalyzeEmptyBundle(t *testing.T) {
	sys := &fakeSystem{
		analyze: func(ctx context.Context, userID string, cmd verifications.AnalyzeCommand) (*verifications.AnalyzeResult, error) {
			return nil, evidence.ErrEmptyBundle
		},
	}

	r := authenticated(httptest.NewRequest("POST", "/verifications/analyze", strings.NewReader(`{"type": "text"}`)))
	w := httptest.NewRecorder()

	newTestHandler(sys).Analyze(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSave(t *testing.T) {
	id := uuid.New()
	sys := &fakeSystem{
		save: func(ctx context.Context, userID string, cmd verifications.SaveCommand) (*verifications.Verification, error) {
			return &verifications.Verification{ID: id, UserID: userID, Kind: cmd.Bundle.Kind, RiskLevel: risk.Safe}, nil
		},
	}

	body := `{"bundle": {"kind": "pix", "raw_text": "pague"}, "assessment": {"score": 10, "confidence": 0.8}}`
	r := authenticated(httptest.NewRequest("POST", "/verifications", strings.NewReader(body)))
	w := httptest.NewRecorder()

	newTestHandler(sys).Save(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var v verifications.Verification
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v.ID != id {
		t.Errorf("ID = %s, want %s", v.ID, id)
	}
}

func TestFindInvalidID(t *testing.T) {
	r := authenticated(httptest.NewRequest("GET", "/verifications/not-a-uuid", nil))
	r.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	newTestHandler(&fakeSystem{}).Find(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestFindNotFound(t *testing.T) {
	sys := &fakeSystem{
		find: func(ctx context.Context, userID string, id uuid.UUID) (*verifications.Verification, error) {
			return nil, verifications.ErrNotFound
		},
	}

	id := uuid.New()
	r := authenticated(httptest.NewRequest("GET", "/verifications/"+id.String(), nil))
	r.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	newTestHandler(sys).Find(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestList(t *testing.T) {
	sys := &fakeSystem{
		list: func(ctx context.Context, userID string, page pagination.PageRequest, filters verifications.Filters) (*pagination.PageResult[verifications.Verification], error) {
			if page.Page != 1 || page.PageSize != 20 {
				t.Errorf("page = %+v, want normalized defaults", page)
			}
			if filters.Kind == nil || *filters.Kind != "qr" {
				t.Errorf("filters = %+v, want kind qr", filters)
			}
			result := pagination.NewPageResult([]verifications.Verification{
				{UserID: userID, Kind: evidence.KindQR, RiskLevel: risk.Safe},
			}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	r := authenticated(httptest.NewRequest("GET", "/verifications?kind=qr", nil))
	w := httptest.NewRecorder()

	newTestHandler(sys).List(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result pagination.PageResult[verifications.Verification]
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestSearchNormalizesPagination(t *testing.T) {
	sys := &fakeSystem{
		list: func(ctx context.Context, userID string, page pagination.PageRequest, filters verifications.Filters) (*pagination.PageResult[verifications.Verification], error) {
			if page.PageSize != 100 {
				t.Errorf("PageSize = %d, want capped at 100", page.PageSize)
			}
			if filters.RiskLevel == nil || *filters.RiskLevel != "high_risk" {
				t.Errorf("filters = %+v, want risk_level high_risk", filters)
			}
			result := pagination.NewPageResult[verifications.Verification](nil, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}

	body := `{"page": 1, "page_size": 500, "risk_level": "high_risk"}`
	r := authenticated(httptest.NewRequest("POST", "/verifications/search", strings.NewReader(body)))
	w := httptest.NewRecorder()

	newTestHandler(sys).Search(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
