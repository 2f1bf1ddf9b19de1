package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
)

type BrawlStarsHandler struct {
	client brawlstars.Client
}

func NewBrawlStarsHandler(client brawlstars.Client) *BrawlStarsHandler {
	return &BrawlStarsHandler{client: client}
}

func (h *BrawlStarsHandler) GetPlayer(c *gin.Context) {
	raw, err := h.client.Player(c.Request.Context(), c.Param("tag"))
	h.forward(c, raw, err, "Error fetching player data")
}

func (h *BrawlStarsHandler) GetClub(c *gin.Context) {
	raw, err := h.client.Club(c.Request.Context(), c.Param("tag"))
	h.forward(c, raw, err, "Error fetching club data")
}

func (h *BrawlStarsHandler) GetBrawlers(c *gin.Context) {
	raw, err := h.client.Brawlers(c.Request.Context())
	h.forward(c, raw, err, "Error fetching brawlers")
}

// forward writes the upstream document unchanged.
func (h *BrawlStarsHandler) forward(c *gin.Context, raw json.RawMessage, err error, failMsg string) {
	if err != nil {
		_ = c.Error(err)
		response.RespondUpstreamErr(c, err, failMsg)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
