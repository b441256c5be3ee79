package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "legaldraft-analyzer/internal/app"
	"legaldraft-analyzer/internal/decode"
	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/transport/http/response"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type Analyzer interface {
	Analyze(ctx context.Context, input appsvc.AnalyzeInput) (*model.AnalysisReport, error)
}

type AnalysisHandler struct {
	analyzer       Analyzer
	maxUploadBytes int64
}

func NewAnalysisHandler(analyzer Analyzer, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer, maxUploadBytes: maxUploadBytes}
}

// Analyze accepts a multipart form with "file" and returns the analysis report.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(c)
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeFileMissing, "missing file (form field 'file')")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		h.rejectTooLarge(c)
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to open uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to read uploaded file")
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), appsvc.AnalyzeInput{Filename: file.Filename, Data: data})
	if err != nil {
		_ = c.Error(err)
		var decodeErr *decode.DecodeError
		if errors.As(err, &decodeErr) {
			response.Error(c, http.StatusUnprocessableEntity, response.CodeDecodeFailed, decodeErr.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "analysis failed")
		return
	}

	response.OK(c, report)
}

func (h *AnalysisHandler) rejectTooLarge(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge,
		fmt.Sprintf("file too large (max %d bytes)", h.maxUploadBytes))
}
