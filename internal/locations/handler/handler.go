package handler

import (
	"net/http"
	"strconv"

	"polleria_backend/internal/locations/repository"
	"polleria_backend/internal/locations/service"
	"polleria_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type locationResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nombre"`
	Manager string `json:"encargado,omitempty"`
	Address string `json:"direccion,omitempty"`
}

func toResponse(l repository.Location) locationResponse {
	return locationResponse{ID: l.ID, Name: l.Name, Manager: l.Manager, Address: l.Address}
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/sucursales", h.list)
	rg.GET("/sucursales/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	locations, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	out := make([]locationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toResponse(l))
	}
	httpkit.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid location id", nil)
		return
	}
	l, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(l))
}
