package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "legaldraft-analyzer/internal/app"
	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/transport/http/response"
)

type FeedbackRecorder interface {
	Record(ctx context.Context, input appsvc.FeedbackInput) (*model.FeedbackRecord, error)
}

type FeedbackHandler struct {
	recorder FeedbackRecorder
}

func NewFeedbackHandler(recorder FeedbackRecorder) *FeedbackHandler {
	return &FeedbackHandler{recorder: recorder}
}

// Save stores the form fields draft_text, predicted and corrected. Each must
// be present; empty values are accepted.
func (h *FeedbackHandler) Save(c *gin.Context) {
	input, err := bindFeedback(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	record, err := h.recorder.Record(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		var storageErr *appsvc.StorageError
		if errors.As(err, &storageErr) {
			response.Error(c, http.StatusInternalServerError, response.CodeStorageFailed, "failed to save feedback")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
		return
	}

	response.OK(c, gin.H{
		"id":      record.ID,
		"message": appsvc.FeedbackSavedMessage,
	})
}

func bindFeedback(c *gin.Context) (appsvc.FeedbackInput, error) {
	var input appsvc.FeedbackInput
	fields := []struct {
		name string
		dst  *string
	}{
		{"draft_text", &input.DraftText},
		{"predicted", &input.Predicted},
		{"corrected", &input.Corrected},
	}
	for _, f := range fields {
		v, ok := c.GetPostForm(f.name)
		if !ok {
			return input, fmt.Errorf("%w: missing form field %q", appsvc.ErrInvalidInput, f.name)
		}
		*f.dst = v
	}
	return input, nil
}
