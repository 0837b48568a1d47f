package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sink_quoter/internal/models"
	"sink_quoter/internal/quoting"
	"sink_quoter/internal/repository"
	"sink_quoter/internal/services"
)

func (h *APIHandler) CreateQuote(c *gin.Context) {
	var input services.CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	quote, err := h.quoteService.CreateQuote(c.Request.Context(), scopeFrom(c), input)
	if err != nil {
		h.respondError(c, "CreateQuote", err)
		return
	}
	c.JSON(http.StatusCreated, newQuoteResponse(quote))
}

func (h *APIHandler) GetQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		h.respondError(c, "GetQuote", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (h *APIHandler) ListQuotes(c *gin.Context) {
	filter := repository.QuoteFilter{Status: models.QuoteStatus(c.Query("status"))}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		filter.CustomerID = uint(id)
	}
	quotes, err := h.quoteService.ListQuotes(c.Request.Context(), scopeFrom(c), filter)
	if err != nil {
		h.respondError(c, "ListQuotes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": newQuoteListResponse(quotes)})
}

// UpdateQuote applies a partial update. Fields absent from the body are left
// alone; "version" is optional and enables the stale-write check.
func (h *APIHandler) UpdateQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c)
		return
	}
	var meta struct {
		Version *int `json:"version"`
	}
	var patch quoting.QuotePatch
	if err := json.Unmarshal(body, &meta); err != nil {
		badRequest(c)
		return
	}
	if err := json.Unmarshal(body, &patch); err != nil {
		badRequest(c)
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), scopeFrom(c), id, meta.Version, patch)
	if err != nil {
		h.respondError(c, "UpdateQuote", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (h *APIHandler) DeleteQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.quoteService.DeleteQuote(c.Request.Context(), scopeFrom(c), id); err != nil {
		h.respondError(c, "DeleteQuote", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) UpdateQuoteStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status  models.QuoteStatus `json:"status"`
		Version *int               `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	quote, err := h.quoteService.UpdateQuoteStatus(c.Request.Context(), scopeFrom(c), id, req.Status, req.Version)
	if err != nil {
		h.respondError(c, "UpdateQuoteStatus", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (h *APIHandler) SaveSignature(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Signature string `json:"signature"`
		Version   *int   `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	quote, err := h.quoteService.SaveSignature(c.Request.Context(), scopeFrom(c), id, req.Signature, req.Version)
	if err != nil {
		h.respondError(c, "SaveSignature", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (h *APIHandler) AddMatchToQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ProductID uint `json:"product_id"`
		services.AddMatchInput
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"product_id": "required"}})
		return
	}

	quote, match, err := h.quoteService.AddMatchToQuote(c.Request.Context(), scopeFrom(c), id, req.ProductID, req.AddMatchInput)
	if err != nil {
		if match != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "match": newMatchResponse(match)})
			return
		}
		h.respondError(c, "AddMatchToQuote", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": newQuoteResponse(quote), "match": newMatchResponse(match)})
}

func (h *APIHandler) AddLineItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	quote, err := h.quoteService.AddLineItem(c.Request.Context(), scopeFrom(c), id, input)
	if err != nil {
		h.respondError(c, "AddLineItem", err)
		return
	}
	c.JSON(http.StatusCreated, newQuoteResponse(quote))
}

func (h *APIHandler) UpdateLineItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var patch services.LineItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c)
		return
	}
	quote, err := h.quoteService.UpdateLineItem(c.Request.Context(), scopeFrom(c), id, itemID, patch)
	if err != nil {
		h.respondError(c, "UpdateLineItem", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}

func (h *APIHandler) DeleteLineItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	quote, err := h.quoteService.DeleteLineItem(c.Request.Context(), scopeFrom(c), id, itemID)
	if err != nil {
		h.respondError(c, "DeleteLineItem", err)
		return
	}
	c.JSON(http.StatusOK, newQuoteResponse(quote))
}
