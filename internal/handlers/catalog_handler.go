package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sink_quoter/internal/matching"
	"sink_quoter/internal/services"
)

func (h *APIHandler) CreateCustomer(c *gin.Context) {
	var input services.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), scopeFrom(c), input)
	if err != nil {
		h.respondError(c, "CreateCustomer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *APIHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context(), scopeFrom(c))
	if err != nil {
		h.respondError(c, "ListCustomers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *APIHandler) GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		h.respondError(c, "GetCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *APIHandler) ListCustomerMeasurements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.measurementService.GetMeasurementsByCustomer(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		h.respondError(c, "ListCustomerMeasurements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"measurements": list})
}

func (h *APIHandler) CreateMeasurement(c *gin.Context) {
	var input services.MeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	m, err := h.measurementService.CreateMeasurement(c.Request.Context(), scopeFrom(c), input)
	if err != nil {
		h.respondError(c, "CreateMeasurement", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *APIHandler) GetMeasurement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.measurementService.GetMeasurement(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		h.respondError(c, "GetMeasurement", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *APIHandler) UpdateMeasurement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.MeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	m, err := h.measurementService.UpdateMeasurement(c.Request.Context(), scopeFrom(c), id, input)
	if err != nil {
		h.respondError(c, "UpdateMeasurement", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *APIHandler) DeleteMeasurement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.measurementService.DeleteMeasurement(c.Request.Context(), scopeFrom(c), id); err != nil {
		h.respondError(c, "DeleteMeasurement", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type matchRequest struct {
	Preferences matching.Preferences `json:"preferences"`
	Limit       int                  `json:"limit"`
}

// MatchProducts ranks the company catalog against a measurement. The body is
// optional.
func (h *APIHandler) MatchProducts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req matchRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	results, err := h.matchService.MatchProductsToMeasurement(c.Request.Context(), scopeFrom(c), id, req.Preferences, req.Limit)
	if err != nil {
		h.respondError(c, "MatchProducts", err)
		return
	}
	out := make([]matchResponse, 0, len(results))
	for i := range results {
		out = append(out, newMatchResponse(&results[i]))
	}
	c.JSON(http.StatusOK, gin.H{"measurement_id": id, "matches": out})
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	p, err := h.productService.CreateProduct(c.Request.Context(), scopeFrom(c), input)
	if err != nil {
		h.respondError(c, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, newProductResponse(p))
}

func (h *APIHandler) ListProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	products, err := h.productService.ListProducts(c.Request.Context(), scopeFrom(c), activeOnly)
	if err != nil {
		h.respondError(c, "ListProducts", err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *APIHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.productService.GetProduct(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		h.respondError(c, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

func (h *APIHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c)
		return
	}
	p, err := h.productService.UpdateProduct(c.Request.Context(), scopeFrom(c), id, input)
	if err != nil {
		h.respondError(c, "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

func (h *APIHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), scopeFrom(c), id); err != nil {
		h.respondError(c, "DeleteProduct", err)
		return
	}
	c.Status(http.StatusNoContent)
}
