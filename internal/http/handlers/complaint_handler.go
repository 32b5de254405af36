package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers/common"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// ComplaintHandler provides the citizen-facing complaint endpoints. Access
// checks live in the service layer; the handler only translates HTTP.
type ComplaintHandler struct {
	complaints *service.ComplaintService
	auth       *service.AuthService
}

// NewComplaintHandler creates the handler.
func NewComplaintHandler(complaints *service.ComplaintService, auth *service.AuthService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, auth: auth}
}

// Submit handles POST /complaints.
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var req dto.SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	complaint, err := h.complaints.Submit(c.Request.Context(), p, service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		Pincode:     req.Pincode,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ProofImage:  req.ProofImage,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"complaint":      complaint,
		"tracking_token": complaint.TrackingToken,
	})
}

// Get handles GET /complaints/:id.
func (h *ComplaintHandler) Get(c *gin.Context) {
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

	detail, err := h.complaints.Detail(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// MyPending handles GET /complaints/my/pending.
func (h *ComplaintHandler) MyPending(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.CitizenPending(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// MyResolved handles GET /complaints/my/resolved.
func (h *ComplaintHandler) MyResolved(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.CitizenResolved(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}
