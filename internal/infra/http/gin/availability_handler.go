package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"sharetools/internal/app/dto"
	availabilityapp "sharetools/internal/app/handlers/availability"
	"sharetools/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) ForItem(c *gin.Context) {
	query := availabilityapp.GetAvailabilityQuery{
		ItemID:      c.Param("id"),
		HorizonDays: int(parseInt64Query(c, "horizon_days")),
	}
	result, err := queries.Ask[availabilityapp.GetAvailabilityQuery, dto.ItemAvailability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
