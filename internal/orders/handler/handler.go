package handler

import (
	"net/http"
	"strconv"
	"time"

	"polleria_backend/internal/events"
	"polleria_backend/internal/orders/service"
	"polleria_backend/internal/orders/transport"
	"polleria_backend/platform/httpkit"
	"polleria_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/pedidos", h.list)
	rg.GET("/pedidos/:id", h.get)
	rg.POST("/pedidos", h.create)
	rg.GET("/clientes/:id/pedidos", h.listByCustomer)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var day time.Time
	if fecha := c.Query("fecha"); fecha != "" {
		parsed, err := time.Parse("2006-01-02", fecha)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid fecha, expected YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}

	orders, err := h.svc.List(c.Request.Context(), day, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToOrderResponses(orders))
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToOrderDetailResponse(detail))
}

func (h *Handler) listByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || customerID <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer id", nil)
		return
	}
	orders, err := h.svc.ListByCustomer(c.Request.Context(), customerID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToOrderResponses(orders))
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lines := make([]events.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		id := l.ProductID
		lines = append(lines, events.OrderLine{ProductID: &id, Quantity: l.Quantity})
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), req.CustomerID, req.LocationID, req.Total, req.PaymentMethod, lines)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToOrderResponse(order))
}
