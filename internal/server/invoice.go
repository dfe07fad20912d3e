package server

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
)

// GenerateInvoiceDocument renders a stored invoice in the requested format.
func (s *Server) GenerateInvoiceDocument(c *gin.Context) {
	resp, err := s.invoiceSvc.GenerateDocument(c.Request.Context(), invoicedomain.GenerateRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		Format:    strings.ToLower(strings.TrimSpace(c.Query("format"))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	disposition := "attachment"
	if strings.HasPrefix(resp.ContentType, "text/html") {
		disposition = "inline"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": resp.Filename}))
	c.Header("X-Invoice-Number", resp.Document.Number)
	c.Header("X-Invoice-Total", resp.Document.Total.StringFixed(2))
	c.Data(http.StatusOK, resp.ContentType, resp.Content)
}

// PreviewInvoice composes a document from the posted records without storing
// anything.
func (s *Server) PreviewInvoice(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	snap, err := req.snapshot(s.genID, s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.invoiceSvc.Preview(c.Request.Context(), invoicedomain.PreviewRequest{Snapshot: snap})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

