package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	cartapp "sharetools/internal/app/handlers/cart"
	"sharetools/internal/app/queries"
)

type CartHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type addToCartRequest struct {
	ItemID    string    `json:"item_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h CartHandler) Add(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cmd := cartapp.AddToCartCommand{
		UserID:    user.ID,
		ItemID:    req.ItemID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	result, err := commands.Dispatch[cartapp.AddToCartCommand, *cartapp.CartResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CartHandler) Remove(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := cartapp.RemoveFromCartCommand{UserID: user.ID, ItemID: c.Param("itemID")}
	result, err := commands.Dispatch[cartapp.RemoveFromCartCommand, *cartapp.CartResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CartHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[cartapp.GetCartQuery, dto.Cart](c.Request.Context(), h.Queries, cartapp.GetCartQuery{UserID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
