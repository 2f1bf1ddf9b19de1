package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/services"
)

type UserHandler struct {
	accountService   services.AccountService
	dashboardService services.DashboardService
}

func NewUserHandler(accountService services.AccountService, dashboardService services.DashboardService) *UserHandler {
	return &UserHandler{accountService: accountService, dashboardService: dashboardService}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	view, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// UpdateUser serves PUT and PATCH alike: only fields present in the body are written.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.accountService.Update(c.Request.Context(), id, req.writeSet())
	if err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (h *UserHandler) GetDashboard(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	dash, err := h.dashboardService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, dash)
}

func accountIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
