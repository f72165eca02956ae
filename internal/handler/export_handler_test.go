package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/entity"
)

func exportRecord(id uuid.UUID) *entity.CampaignRecord {
	emails := map[string]entity.EmailVariant{}
	for _, approach := range entity.Approaches {
		emails[approach] = entity.EmailVariant{Approach: approach, Subject: "subject", Body: "body"}
	}
	return &entity.CampaignRecord{
		ID:          id,
		CompanyName: "Acme Logistics",
		Industry:    "freight",
		Campaign: entity.Campaign{
			Company:    entity.Company{Name: "Acme Logistics", Industry: "freight"},
			ColdEmails: emails,
			FollowUpSequence: []entity.FollowUp{
				{Day: 3, Subject: "first", Body: "bump"},
			},
		},
	}
}

func TestExportHandler_Export(t *testing.T) {
	id := uuid.New()
	store := &fakeCampaignStore{records: map[uuid.UUID]*entity.CampaignRecord{id: exportRecord(id)}}
	h := NewExportHandler(store)

	tests := map[string]struct {
		format      string
		contentType string
		prefix      []byte
	}{
		"docx": {
			format:      "docx",
			contentType: docxContentType,
			prefix:      []byte("PK"),
		},
		"pdf": {
			format:      "pdf",
			contentType: pdfContentType,
			prefix:      []byte("%PDF"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := licensedContext(t, http.MethodGet, "/api/export/"+id.String()+"/"+tt.format, "")
			c.SetParamNames("id", "format")
			c.SetParamValues(id.String(), tt.format)

			if err := h.Export(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get(echo.HeaderContentType); got != tt.contentType {
				t.Fatalf("unexpected content type: %q", got)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), tt.prefix) {
				t.Fatalf("unexpected document prefix: %q", rec.Body.Bytes()[:8])
			}
			disposition := rec.Header().Get(echo.HeaderContentDisposition)
			if disposition != `attachment; filename="campaign_acme_logistics.`+tt.format+`"` {
				t.Fatalf("unexpected disposition: %q", disposition)
			}
		})
	}
}

func TestExportHandler_Export_Failures(t *testing.T) {
	id := uuid.New()
	store := &fakeCampaignStore{records: map[uuid.UUID]*entity.CampaignRecord{id: exportRecord(id)}}
	h := NewExportHandler(store)

	t.Run("invalid id", func(t *testing.T) {
		c, rec := licensedContext(t, http.MethodGet, "/api/export/nope/pdf", "")
		c.SetParamNames("id", "format")
		c.SetParamValues("nope", "pdf")
		if err := h.Export(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		c, rec := licensedContext(t, http.MethodGet, "/api/export/"+id.String()+"/csv", "")
		c.SetParamNames("id", "format")
		c.SetParamValues(id.String(), "csv")
		if err := h.Export(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		c, rec := licensedContext(t, http.MethodGet, "/api/export/"+missing.String()+"/pdf", "")
		c.SetParamNames("id", "format")
		c.SetParamValues(missing.String(), "pdf")
		if err := h.Export(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExportSlug(t *testing.T) {
	tests := map[string]string{
		"Acme Logistics":  "acme_logistics",
		"Big-Co 2000":     "big_co_2000",
		"物流":              "export",
		"Trains & Cranes": "trains__cranes",
	}
	for input, expected := range tests {
		if got := exportSlug(input); got != expected {
			t.Fatalf("exportSlug(%q) = %q, expected %q", input, got, expected)
		}
	}
}
