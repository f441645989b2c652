package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"sharetools/internal/app/dto"
	itemhandlers "sharetools/internal/app/handlers/items"
	rentalhandlers "sharetools/internal/app/handlers/rental"
	reviewhandlers "sharetools/internal/app/handlers/reviews"
	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

// respondError translates application errors into the wire contract. A
// domain rejection becomes 422 with its reason code and any blocked
// dates; infrastructure failures stay opaque 500s.
func respondError(c *gin.Context, err error) {
	if rej, ok := domainrental.AsRejection(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"rejection": dto.RejectionDTO{
			Reason:       string(rej.Reason),
			Message:      rej.Err.Error(),
			BlockedDates: dto.FormatDates(rej.BlockedDates),
		}})
		return
	}
	switch {
	case errors.Is(err, domainitems.ErrItemNotFound),
		errors.Is(err, domainrental.ErrOrderNotFound),
		errors.Is(err, domainreviews.ErrNotFound),
		errors.Is(err, domaincart.ErrNotFound),
		errors.Is(err, domaincart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, itemhandlers.ErrNotOwner),
		errors.Is(err, rentalhandlers.ErrNotRenter),
		errors.Is(err, rentalhandlers.ErrOrderAccess),
		errors.Is(err, reviewhandlers.ErrNotRenter):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainrental.ErrCancelCutoff),
		errors.Is(err, domainrental.ErrInvalidState),
		errors.Is(err, reviewhandlers.ErrOrderNotCompleted),
		errors.Is(err, reviewhandlers.ErrAlreadyReviewed),
		errors.Is(err, domainitems.ErrInvalidState),
		errors.Is(err, domainitems.ErrDuplicateTier):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
