package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers/common"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// ContractorHandler provides the contractor-facing work endpoints. All of
// them require an approved contractor profile.
type ContractorHandler struct {
	complaints *service.ComplaintService
	auth       *service.AuthService
}

// NewContractorHandler creates the handler.
func NewContractorHandler(complaints *service.ComplaintService, auth *service.AuthService) *ContractorHandler {
	return &ContractorHandler{complaints: complaints, auth: auth}
}

// Active handles GET /contractor/assignments.
func (h *ContractorHandler) Active(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.ContractorActive(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// History handles GET /contractor/history.
func (h *ContractorHandler) History(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.ContractorHistory(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Complete handles POST /contractor/assignments/:id/complete. The body may
// omit the image when a completion photo from an earlier attempt is still on
// file.
func (h *ContractorHandler) Complete(c *gin.Context) {
	var req dto.CompleteWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	complaint, err := h.complaints.Complete(c.Request.Context(), p, id, req.CompletionImage)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}
