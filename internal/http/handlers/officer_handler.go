package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers/common"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// OfficerHandler provides triage, assignment and verification endpoints.
type OfficerHandler struct {
	complaints  *service.ComplaintService
	contractors *service.ContractorService
	auth        *service.AuthService
}

// NewOfficerHandler creates the handler.
func NewOfficerHandler(complaints *service.ComplaintService, contractors *service.ContractorService, auth *service.AuthService) *OfficerHandler {
	return &OfficerHandler{complaints: complaints, contractors: contractors, auth: auth}
}

// Queue handles GET /officer/queue. Unclaimed complaints in the officer's
// region, oldest first.
func (h *OfficerHandler) Queue(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.OfficerQueue(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// MyComplaints handles GET /officer/complaints.
func (h *OfficerHandler) MyComplaints(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.complaints.OfficerComplaints(c.Request.Context(), p, common.PageQuery(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Claim handles POST /officer/complaints/:id/claim.
func (h *OfficerHandler) Claim(c *gin.Context) {
	h.mutate(c, func(p authz.Principal, id uuid.UUID) (any, error) {
		return h.complaints.Claim(c.Request.Context(), p, id)
	})
}

// EligibleContractors handles GET /officer/complaints/:id/contractors.
func (h *OfficerHandler) EligibleContractors(c *gin.Context) {
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

	contractors, err := h.complaints.EligibleContractors(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractors": contractors})
}

// AssignContractor handles POST /officer/complaints/:id/assign.
func (h *OfficerHandler) AssignContractor(c *gin.Context) {
	var req dto.AssignContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	contractorID, err := uuid.Parse(req.ContractorID)
	if err != nil {
		c.Error(apperror.New(apperror.ErrCodeValidation, "contractor_id must be a valid UUID"))
		return
	}

	h.mutate(c, func(p authz.Principal, id uuid.UUID) (any, error) {
		return h.complaints.AssignContractor(c.Request.Context(), p, id, contractorID)
	})
}

// RemoveContractor handles POST /officer/complaints/:id/remove-contractor.
func (h *OfficerHandler) RemoveContractor(c *gin.Context) {
	h.mutate(c, func(p authz.Principal, id uuid.UUID) (any, error) {
		return h.complaints.RemoveContractor(c.Request.Context(), p, id)
	})
}

// RejectWork handles POST /officer/complaints/:id/reject.
func (h *OfficerHandler) RejectWork(c *gin.Context) {
	var req dto.RejectWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	h.mutate(c, func(p authz.Principal, id uuid.UUID) (any, error) {
		return h.complaints.RejectWork(c.Request.Context(), p, id, req.Reason)
	})
}

// Close handles POST /officer/complaints/:id/close.
func (h *OfficerHandler) Close(c *gin.Context) {
	h.mutate(c, func(p authz.Principal, id uuid.UUID) (any, error) {
		return h.complaints.Close(c.Request.Context(), p, id)
	})
}

// PendingContractors handles GET /officer/contractors/pending.
func (h *OfficerHandler) PendingContractors(c *gin.Context) {
	p, err := common.CurrentPrincipal(c, h.auth)
	if err != nil {
		c.Error(err)
		return
	}

	pending, err := h.contractors.ListPending(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractors": pending})
}

// ApproveContractor handles POST /officer/contractors/:id/approve.
func (h *OfficerHandler) ApproveContractor(c *gin.Context) {
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

	contractor, err := h.contractors.Approve(c.Request.Context(), p, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// RejectContractor handles POST /officer/contractors/:id/reject.
func (h *OfficerHandler) RejectContractor(c *gin.Context) {
	var req dto.RejectContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	contractor, err := h.contractors.Reject(c.Request.Context(), p, id, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractor": contractor})
}

// mutate runs a status-changing operation on the complaint named in the URL
// and writes the updated complaint.
func (h *OfficerHandler) mutate(c *gin.Context, op func(p authz.Principal, id uuid.UUID) (any, error)) {
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

	complaint, err := op(p, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}
