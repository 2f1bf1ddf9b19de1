package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/services"
)

type AuthHandler struct {
	authService    services.AuthService
	accountService services.AccountService
}

func NewAuthHandler(authService services.AuthService, accountService services.AccountService) *AuthHandler {
	return &AuthHandler{authService: authService, accountService: accountService}
}

// accountRequest accepts both snake_case and the camelCase names older
// clients send. snake_case wins when both are present.
type accountRequest struct {
	Email         *string   `json:"email"`
	Password      *string   `json:"password"`
	PlayerTags    *[]string `json:"player_tags"`
	ClubTags      *[]string `json:"club_tags"`
	PlayerTagsOld *[]string `json:"playerTags"`
	ClubTagsOld   *[]string `json:"clubTags"`
}

func (r accountRequest) writeSet() types.AccountWriteSet {
	ws := types.AccountWriteSet{
		Email:      r.Email,
		Password:   r.Password,
		PlayerTags: r.PlayerTags,
		ClubTags:   r.ClubTags,
	}
	if ws.PlayerTags == nil {
		ws.PlayerTags = r.PlayerTagsOld
	}
	if ws.ClubTags == nil {
		ws.ClubTags = r.ClubTagsOld
	}
	return ws
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := ah.accountService.Register(c.Request.Context(), req.writeSet())
	if err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, view)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
