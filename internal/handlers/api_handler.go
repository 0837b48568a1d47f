package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sink_quoter/internal/services"
)

type APIHandler struct {
	userService        services.UserService
	customerService    services.CustomerService
	measurementService services.MeasurementService
	productService     services.ProductService
	matchService       services.MatchService
	quoteService       services.QuoteService
	logger             *logrus.Logger
}

func NewAPIHandler(
	userService services.UserService,
	customerService services.CustomerService,
	measurementService services.MeasurementService,
	productService services.ProductService,
	matchService services.MatchService,
	quoteService services.QuoteService,
	logger *logrus.Logger,
) *APIHandler {
	return &APIHandler{
		userService:        userService,
		customerService:    customerService,
		measurementService: measurementService,
		productService:     productService,
		matchService:       matchService,
		quoteService:       quoteService,
		logger:             logger,
	}
}

// RegisterRoutes mounts the health check and the tenant-scoped API.
func (h *APIHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(TenantMiddleware(h.userService))
	{
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers", h.ListCustomers)
		api.GET("/customers/:id", h.GetCustomer)
		api.GET("/customers/:id/measurements", h.ListCustomerMeasurements)

		api.POST("/measurements", h.CreateMeasurement)
		api.GET("/measurements/:id", h.GetMeasurement)
		api.PUT("/measurements/:id", h.UpdateMeasurement)
		api.DELETE("/measurements/:id", h.DeleteMeasurement)
		api.POST("/measurements/:id/matches", h.MatchProducts)

		api.POST("/products", h.CreateProduct)
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		api.POST("/quotes", h.CreateQuote)
		api.GET("/quotes", h.ListQuotes)
		api.GET("/quotes/:id", h.GetQuote)
		api.PATCH("/quotes/:id", h.UpdateQuote)
		api.DELETE("/quotes/:id", h.DeleteQuote)
		api.POST("/quotes/:id/status", h.UpdateQuoteStatus)
		api.POST("/quotes/:id/signature", h.SaveSignature)
		api.POST("/quotes/:id/matches", h.AddMatchToQuote)
		api.POST("/quotes/:id/line-items", h.AddLineItem)
		api.PUT("/quotes/:id/line-items/:itemId", h.UpdateLineItem)
		api.DELETE("/quotes/:id/line-items/:itemId", h.DeleteLineItem)
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
