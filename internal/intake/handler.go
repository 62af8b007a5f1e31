package intake

import (
	"context"
	"io"
	"net/http"

	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// Dispatcher hands a parsed inbound message off for background processing.
// The webhook has already been acknowledged by the time Dispatch runs.
type Dispatcher interface {
	Dispatch(ctx context.Context, phone, text, messageID string) error
}

// Handler exposes the webhook and the intake admin surface.
type Handler struct {
	svc        *Service
	dispatcher Dispatcher
	cfg        config.WhatsAppConfig
	log        *logger.Logger
}

func NewHandler(svc *Service, dispatcher Dispatcher, cfg config.WhatsAppConfig, log *logger.Logger) *Handler {
	return &Handler{svc: svc, dispatcher: dispatcher, cfg: cfg, log: log}
}

// RegisterPublic mounts the provider-facing webhook, which carries its own
// authentication (verify token and payload signature).
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	wa := rg.Group("/whatsapp")
	wa.GET("/webhook", h.verify)
	wa.POST("/webhook", h.receive)
}

// RegisterProtected mounts the staff-facing admin surface.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	wa := rg.Group("/whatsapp")
	wa.POST("/test", h.testPipeline)
	wa.GET("/info", h.info)
	wa.GET("/info/qr", h.qr)
}

// verify answers the provider's subscription handshake.
func (h *Handler) verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.cfg.GetWhatsAppVerifyToken() {
		h.log.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// receive acknowledges the delivery immediately and hands the message off.
// Everything after the 200 is invisible to the provider: bad signatures and
// unparseable payloads are dropped silently.
func (h *Handler) receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	c.Status(http.StatusOK)
	if err != nil {
		h.log.Error("read webhook body", "error", err)
		return
	}

	if h.cfg.GetWhatsAppAppSecret() == "" {
		h.log.Warn("webhook signature validation disabled: no app secret configured")
	} else if !ValidateSignature(h.cfg.GetWhatsAppAppSecret(), body, c.GetHeader("X-Hub-Signature-256")) {
		h.log.Warn("webhook signature mismatch, payload dropped")
		return
	}

	msg := ParseWebhookPayload(body)
	if msg == nil {
		return
	}

	if err := h.dispatcher.Dispatch(c.Request.Context(), msg.Phone, msg.Text, msg.MessageID); err != nil {
		h.log.Error("dispatch inbound message", "message_id", msg.MessageID, "error", err)
	}
}

type testRequest struct {
	Message string `json:"mensaje" binding:"required"`
	Phone   string `json:"telefono" binding:"required"`
}

// testPipeline runs the pipeline synchronously and returns its outcome,
// bypassing the acknowledge-then-background split.
func (h *Handler) testPipeline(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mensaje y telefono son requeridos"})
		return
	}

	result := h.svc.Process(c.Request.Context(), req.Phone, req.Message, "test")
	c.JSON(http.StatusOK, result)
}

func (h *Handler) info(c *gin.Context) {
	info := h.svc.Describe()
	info["business_number"] = h.cfg.GetWhatsAppBusinessNumber()
	info["instructions"] = "Envía un mensaje de WhatsApp al número del negocio describiendo tu pedido."
	c.JSON(http.StatusOK, info)
}

// qr renders a wa.me QR code for the business number so staff can print it.
func (h *Handler) qr(c *gin.Context) {
	number := h.cfg.GetWhatsAppBusinessNumber()
	if number == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "business number not configured"})
		return
	}

	png, err := qrcode.Encode("https://wa.me/"+number, qrcode.Medium, 256)
	if err != nil {
		h.log.Error("encode qr", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
