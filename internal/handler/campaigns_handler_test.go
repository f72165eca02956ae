package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/entity"
	"github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/repository"
	"github.com/blazestudiox/coldforge/api/internal/service"
)

type fakeCampaignStore struct {
	saveID    uuid.UUID
	saveErr   error
	records   map[uuid.UUID]*entity.CampaignRecord
	summaries []entity.CampaignSummary

	lastLicense string
	lastLimit   int
	lastOffset  int
}

func (f *fakeCampaignStore) Save(ctx context.Context, licenseKey string, campaign *entity.Campaign) (uuid.UUID, error) {
	f.lastLicense = licenseKey
	return f.saveID, f.saveErr
}

func (f *fakeCampaignStore) Get(ctx context.Context, licenseKey string, id uuid.UUID) (*entity.CampaignRecord, error) {
	f.lastLicense = licenseKey
	record, ok := f.records[id]
	if !ok {
		return nil, repository.ErrCampaignNotFound
	}
	return record, nil
}

func (f *fakeCampaignStore) List(ctx context.Context, licenseKey string, limit, offset int) ([]entity.CampaignSummary, error) {
	f.lastLicense = licenseKey
	f.lastLimit = limit
	f.lastOffset = offset
	return f.summaries, nil
}

func (f *fakeCampaignStore) Delete(ctx context.Context, licenseKey string, id uuid.UUID) (bool, error) {
	f.lastLicense = licenseKey
	_, ok := f.records[id]
	delete(f.records, id)
	return ok, nil
}

func licensedContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyLicenseKey, "LICENSE-KEY-123")
	return c, rec
}

func TestCampaignsHandler_Save(t *testing.T) {
	id := uuid.New()
	store := &fakeCampaignStore{saveID: id}
	h := NewCampaignsHandler(store)

	c, rec := licensedContext(t, http.MethodPost, "/api/campaigns", `{"company":{"name":"Acme"}}`)
	if err := h.Save(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), id.String()) {
		t.Fatalf("expected id in response, got %s", rec.Body.String())
	}
	if store.lastLicense != "LICENSE-KEY-123" {
		t.Fatalf("expected license key forwarded, got %q", store.lastLicense)
	}
}

func TestCampaignsHandler_Save_QuotaError(t *testing.T) {
	store := &fakeCampaignStore{saveErr: &service.QuotaError{
		Message:  "Campaign limit reached: 3 of 3 saved",
		Upgrades: []service.TierUpgrade{{Tier: "professional"}},
	}}
	h := NewCampaignsHandler(store)

	c, rec := licensedContext(t, http.MethodPost, "/api/campaigns", `{"company":{"name":"Acme"}}`)
	if err := h.Save(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"upgrades"`) {
		t.Fatalf("expected upgrade options, got %s", rec.Body.String())
	}
}

func TestCampaignsHandler_List(t *testing.T) {
	store := &fakeCampaignStore{summaries: []entity.CampaignSummary{
		{ID: uuid.New(), CompanyName: "Acme", Industry: "freight"},
	}}
	h := NewCampaignsHandler(store)

	c, rec := licensedContext(t, http.MethodGet, "/api/campaigns?limit=5&offset=10", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"company_name":"Acme"`) {
		t.Fatalf("expected summaries, got %s", rec.Body.String())
	}
	if store.lastLimit != 5 || store.lastOffset != 10 {
		t.Fatalf("pagination not forwarded: %d %d", store.lastLimit, store.lastOffset)
	}
}

func TestCampaignsHandler_List_Empty(t *testing.T) {
	h := NewCampaignsHandler(&fakeCampaignStore{})

	c, rec := licensedContext(t, http.MethodGet, "/api/campaigns", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An empty list must serialize as [], not null.
	if !strings.Contains(rec.Body.String(), `"campaigns":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCampaignsHandler_Get(t *testing.T) {
	id := uuid.New()
	store := &fakeCampaignStore{records: map[uuid.UUID]*entity.CampaignRecord{
		id: {ID: id, CompanyName: "Acme", Campaign: entity.Campaign{Company: entity.Company{Name: "Acme"}}},
	}}
	h := NewCampaignsHandler(store)

	c, rec := licensedContext(t, http.MethodGet, "/api/campaigns/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), id.String()) {
		t.Fatalf("expected record in response, got %s", rec.Body.String())
	}

	t.Run("invalid id", func(t *testing.T) {
		c, rec := licensedContext(t, http.MethodGet, "/api/campaigns/not-a-uuid", "")
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")
		if err := h.Get(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		c, rec := licensedContext(t, http.MethodGet, "/api/campaigns/"+missing.String(), "")
		c.SetParamNames("id")
		c.SetParamValues(missing.String())
		if err := h.Get(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCampaignsHandler_Delete(t *testing.T) {
	id := uuid.New()
	store := &fakeCampaignStore{records: map[uuid.UUID]*entity.CampaignRecord{
		id: {ID: id},
	}}
	h := NewCampaignsHandler(store)

	c, rec := licensedContext(t, http.MethodDelete, "/api/campaigns/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"deleted":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	// Second delete misses.
	c, rec = licensedContext(t, http.MethodDelete, "/api/campaigns/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
