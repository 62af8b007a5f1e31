package handler

import (
	"net/http"
	"strconv"

	"polleria_backend/internal/customers/repository"
	"polleria_backend/internal/customers/service"
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

type customerRequest struct {
	Name      string `json:"nombre" validate:"required,min=2,max=120"`
	StoreName string `json:"nombre_tienda" validate:"max=120"`
	Phone     string `json:"telefono" validate:"required,min=10,max=20"`
}

type customerResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"nombre"`
	StoreName string `json:"nombre_tienda,omitempty"`
	Phone     string `json:"telefono"`
}

func toResponse(c repository.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, StoreName: c.StoreName, Phone: c.Phone}
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/clientes", h.list)
	rg.GET("/clientes/:id", h.get)
	rg.POST("/clientes", h.create)
	rg.PUT("/clientes/:id", h.update)
	rg.DELETE("/clientes/:id", h.remove)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid customer id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]customerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, toResponse(cust))
	}
	httpkit.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cust, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(cust))
}

func (h *Handler) create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cust, err := h.svc.Create(c.Request.Context(), req.Name, req.StoreName, req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toResponse(cust))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cust, err := h.svc.Update(c.Request.Context(), id, req.Name, req.StoreName, req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(cust))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
