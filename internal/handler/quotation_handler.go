package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloudquote/internal/alicloud"
	"cloudquote/internal/service"
)

// maxUploadBytes bounds uploaded workbook size.
const maxUploadBytes = 20 << 20

// QuotationHandler exposes quotation runs and their history over HTTP.
type QuotationHandler struct {
	svc    service.QuotationService
	logger *zap.Logger
}

func NewQuotationHandler(svc service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{svc: svc, logger: logger}
}

// Create accepts a multipart workbook upload and runs a quotation batch.
//
// POST /api/v1/quotations
//
//	file:   the xlsx workbook (required)
//	format: spec_column | grid | llm (default spec_column)
//	sheet:  sheet name (default first sheet)
//	region: region id (default configured region)
func (h *QuotationHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "BAD_FILE", fmt.Sprintf("open upload: %v", err))
		return
	}
	defer file.Close()

	region := c.PostForm("region")
	if region != "" && !alicloud.ValidRegion(region) {
		respondError(c, http.StatusBadRequest, "UNKNOWN_REGION", fmt.Sprintf("unknown region %q", region))
		return
	}

	outcome, err := h.svc.Quote(c.Request.Context(), service.QuoteRequest{
		Workbook: file,
		Sheet:    c.PostForm("sheet"),
		Format:   service.SourceFormat(c.DefaultPostForm("format", string(service.FormatSpecColumn))),
		Region:   region,
	})
	if err != nil {
		MapDomainError(c, err)
		return
	}

	respondOK(c, gin.H{
		"batch_id":     outcome.Report.BatchID,
		"summary":      outcome.Report.Summary,
		"results":      outcome.Report.Results,
		"download_url": outcome.DownloadURL,
	})
}

// Get returns one stored batch with its per-record results.
//
// GET /api/v1/quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "BAD_BATCH_ID", "batch id must be a UUID")
		return
	}
	report, err := h.svc.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		MapDomainError(c, err)
		return
	}
	respondOK(c, report)
}

// List returns stored batch summaries, newest first.
//
// GET /api/v1/quotations?limit=20&offset=0
func (h *QuotationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	batches, err := h.svc.ListBatches(c.Request.Context(), limit, offset)
	if err != nil {
		MapDomainError(c, err)
		return
	}
	respondOK(c, batches)
}

// Export streams a stored batch as a quotation workbook.
//
// GET /api/v1/quotations/:id/export
func (h *QuotationHandler) Export(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "BAD_BATCH_ID", "batch id must be a UUID")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quotation-%s.xlsx", batchID))
	if err := h.svc.ExportBatch(c.Request.Context(), batchID, c.Writer); err != nil {
		h.logger.Error("export failed", zap.String("batch_id", batchID.String()), zap.Error(err))
		// Headers may already be out; nothing better to do than abort.
		c.Abort()
	}
}
