package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	itemsapp "sharetools/internal/app/handlers/items"
	"sharetools/internal/app/queries"
)

type ItemHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type tierRequest struct {
	DurationDays int   `json:"duration_days"`
	PricePence   int64 `json:"price_pence"`
}

type createItemRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Condition   string        `json:"condition"`
	ValuePence  int64         `json:"value_pence"`
	City        string        `json:"city"`
	Tiers       []tierRequest `json:"prices"`
}

func (h ItemHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	cmd := itemsapp.CreateItemCommand{
		CommandID:   uuid.NewString(),
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		ValuePence:  req.ValuePence,
		City:        req.City,
	}
	for _, tier := range req.Tiers {
		cmd.Tiers = append(cmd.Tiers, itemsapp.TierInput{DurationDays: tier.DurationDays, PricePence: tier.PricePence})
	}
	result, err := commands.Dispatch[itemsapp.CreateItemCommand, *itemsapp.CreateItemResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ItemHandler) Publish(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := itemsapp.PublishItemCommand{ItemID: c.Param("id"), RequesterID: user.ID}
	result, err := commands.Dispatch[itemsapp.PublishItemCommand, *itemsapp.PublishItemResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ItemHandler) Unpublish(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := itemsapp.UnpublishItemCommand{ItemID: c.Param("id"), RequesterID: user.ID}
	result, err := commands.Dispatch[itemsapp.UnpublishItemCommand, *itemsapp.PublishItemResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ItemHandler) Get(c *gin.Context) {
	query := itemsapp.GetItemQuery{ItemID: c.Param("id")}
	result, err := queries.Ask[itemsapp.GetItemQuery, dto.ItemDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ItemHandler) Catalog(c *gin.Context) {
	query := itemsapp.SearchCatalogQuery{
		Query:         c.Query("q"),
		Category:      c.Query("category"),
		Condition:     c.Query("condition"),
		City:          c.Query("city"),
		ValueMinPence: parseInt64Query(c, "value_min_pence"),
		ValueMaxPence: parseInt64Query(c, "value_max_pence"),
		Sort:          c.Query("sort"),
		Limit:         int(parseInt64Query(c, "limit")),
		Offset:        int(parseInt64Query(c, "offset")),
	}
	result, err := queries.Ask[itemsapp.SearchCatalogQuery, dto.ItemCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ItemHandler) Mine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[itemsapp.MyItemsQuery, dto.ItemCollection](c.Request.Context(), h.Queries, itemsapp.MyItemsQuery{OwnerID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseInt64Query(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
