package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	rentalapp "sharetools/internal/app/handlers/rental"
	"sharetools/internal/app/queries"
)

type RentalHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createRentalRequest struct {
	ItemID        string    `json:"item_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PaymentMethod string    `json:"payment_method"`
	RenterNotes   string    `json:"renter_notes"`
}

func (h RentalHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cmd := rentalapp.CreateRentalCommand{
		CommandID:       uuid.NewString(),
		ItemID:          req.ItemID,
		RenterID:        user.ID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PaymentMethod:   req.PaymentMethod,
		RenterNotes:     req.RenterNotes,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalapp.CreateRentalCommand, *rentalapp.CreateRentalResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

func (h RentalHandler) Cancel(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req cancelRentalRequest
	_ = c.ShouldBindJSON(&req)
	cmd := rentalapp.CancelRentalCommand{
		OrderID:     c.Param("id"),
		RequesterID: user.ID,
		Reason:      req.Reason,
	}
	result, err := commands.Dispatch[rentalapp.CancelRentalCommand, *dto.RentalOrder](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	role := c.DefaultQuery("role", "renter")
	query := rentalapp.ListRentalsQuery{UserID: user.ID, Role: rentalapp.Role(role)}
	result, err := queries.Ask[rentalapp.ListRentalsQuery, dto.RentalCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	query := rentalapp.GetRentalQuery{OrderID: c.Param("id"), RequesterID: user.ID}
	result, err := queries.Ask[rentalapp.GetRentalQuery, dto.RentalOrder](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Summary(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[rentalapp.SummaryQuery, dto.RentalSummary](c.Request.Context(), h.Queries, rentalapp.SummaryQuery{UserID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
