package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	reviewapp "sharetools/internal/app/handlers/reviews"
	"sharetools/internal/app/queries"
)

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitReviewRequest struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		CommandID:   uuid.NewString(),
		OrderID:     req.OrderID,
		RequesterID: user.ID,
		Rating:      req.Rating,
		Title:       req.Title,
		Content:     req.Content,
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *reviewapp.SubmitReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) ListForItem(c *gin.Context) {
	query := reviewapp.ListReviewsQuery{
		ItemID: c.Param("id"),
		Limit:  int(parseInt64Query(c, "limit")),
		Offset: int(parseInt64Query(c, "offset")),
	}
	result, err := queries.Ask[reviewapp.ListReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
