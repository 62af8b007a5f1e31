package handler

import (
	"net/http"
	"strconv"

	"polleria_backend/internal/catalog/repository"
	"polleria_backend/internal/catalog/service"
	"polleria_backend/internal/catalog/transport"
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
	rg.GET("/productos", h.list)
	rg.GET("/productos/:id", h.get)
	rg.GET("/productos/:id/imagen", h.imageURL)
	rg.POST("/productos", h.create)
	rg.PUT("/productos/:id", h.update)
	rg.DELETE("/productos/:id", h.remove)
	rg.POST("/productos/:id/imagen", h.uploadImage)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	products, err := h.svc.List(c.Request.Context(), repository.ListParams{
		ActiveOnly: c.Query("activos") == "true",
		Search:     c.Query("buscar"),
		Limit:      limit,
		Offset:     offset,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductResponses(products))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.Name, req.Description, req.Price, req.Unit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToProductResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req.Name, req.Description, req.Price, req.Unit, req.Active)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductResponse(p))
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

func (h *Handler) uploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing image file", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable image file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	fileKey, err := h.svc.UploadImage(c.Request.Context(), id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"fileKey": fileKey})
}

func (h *Handler) imageURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	presigned, err := h.svc.ImageDownloadURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, presigned)
}
