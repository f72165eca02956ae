package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/export"
	"github.com/blazestudiox/coldforge/api/internal/middleware"
	"github.com/blazestudiox/coldforge/api/internal/repository"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
)

// ExportHandler serves campaign document downloads.
type ExportHandler struct {
	campaigns CampaignStore
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(campaigns CampaignStore) *ExportHandler {
	return &ExportHandler{campaigns: campaigns}
}

// Export handles GET /api/export/:id/:format requests.
func (h *ExportHandler) Export(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid campaign id")
	}

	format := strings.ToLower(c.Param("format"))
	if format != "docx" && format != "pdf" {
		return Error(c, http.StatusBadRequest, "format must be docx or pdf")
	}

	licenseKey := middleware.LicenseKeyFromContext(c)
	record, err := h.campaigns.Get(c.Request().Context(), licenseKey, id)
	if err != nil {
		if errors.Is(err, repository.ErrCampaignNotFound) {
			return Error(c, http.StatusNotFound, "campaign not found")
		}
		return mapServiceError(c, err)
	}

	var (
		buf         *bytes.Buffer
		contentType string
	)
	switch format {
	case "docx":
		buf, err = export.ToDOCX(&record.Campaign)
		contentType = docxContentType
	case "pdf":
		buf, err = export.ToPDF(&record.Campaign)
		contentType = pdfContentType
	}
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to render document")
	}

	filename := fmt.Sprintf("campaign_%s.%s", exportSlug(record.CompanyName), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// exportSlug turns a company name into a safe filename fragment.
func exportSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}
