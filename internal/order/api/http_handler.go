package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webbutiken/storefront/internal/auth"
	"github.com/webbutiken/storefront/internal/order/domain"
	"github.com/webbutiken/storefront/internal/order/service"
	"github.com/webbutiken/storefront/internal/platform/apierror"
	"github.com/webbutiken/storefront/internal/platform/logger"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", h.CreateOrder)
		orderRoutes.GET("", h.ListOrders)
		orderRoutes.GET("/:id", auth.RequireSession(), h.GetOrder)
		orderRoutes.GET("/user/:id", auth.RequireSession(), h.ListOrdersByUser)
		orderRoutes.PATCH("/:id", auth.RequireAdmin(), h.ToggleShipped)
	}
}

// respondError maps a service error onto the status+message it carries;
// anything else is a 500.
func respondError(c *gin.Context, op string, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"message": apiErr.Message})
		return
	}
	logger.Error(op+": unhandled service error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("CreateOrder: bad request", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, "CreateOrder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order created successfully.",
		"result":  order,
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, "ListOrders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All orders fetched successfully.",
		"orders":  orders,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	session := auth.SessionFromContext(c)
	order, err := h.orderService.GetOrder(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "GetOrder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Order fetched successfully.",
		"fetchedOrder": order,
	})
}

func (h *OrderHandler) ListOrdersByUser(c *gin.Context) {
	session := auth.SessionFromContext(c)
	orders, err := h.orderService.ListOrdersByUser(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "ListOrdersByUser", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All orders fetched successfully.",
		"orders":  orders,
	})
}

func (h *OrderHandler) ToggleShipped(c *gin.Context) {
	shipped, err := h.orderService.ToggleShipped(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "ToggleShipped", err)
		return
	}

	message := "Order has been unshipped."
	if shipped {
		message = "Order shipped successfully."
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
