package intake

import (
	"fmt"
	"strings"

	"polleria_backend/internal/events"
)

// Customer-facing texts. The shop serves a Spanish-speaking clientele; the
// pipeline always replies in Spanish.
const (
	msgClarifyOrder = "¡Hola! 🐔 No pude identificar productos en tu mensaje. " +
		"Por favor dime qué productos quieres pedir, por ejemplo: \"Quiero 2 pollos fritos\"."
	msgApology = "Lo sentimos, tuvimos un problema al procesar tu pedido. " +
		"Por favor intenta de nuevo en unos minutos o llámanos directamente."
	msgAskPayment = "No indicaste forma de pago, así que lo registramos como efectivo. " +
		"Si prefieres tarjeta o transferencia, respóndenos por favor."
	msgAskProfile = "Para completar tu registro, ¿nos compartes tu nombre y dirección de entrega?"
)

// ConfirmationMessage builds the itemized order summary sent back to the
// customer. Follow-up asks (missing profile data, defaulted payment method)
// are appended so the customer receives a single message.
func ConfirmationMessage(orderID int64, lines []events.OrderLine, total float64, paymentMethod, address string, askPayment, askProfile bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ ¡Pedido #%d confirmado!\n\n", orderID)
	for _, line := range lines {
		if line.ProductID == nil {
			fmt.Fprintf(&b, "• %d x %s (por confirmar precio)\n", line.Quantity, line.Name)
			continue
		}
		fmt.Fprintf(&b, "• %d x %s — $%.2f\n", line.Quantity, line.Name, float64(line.Quantity)*line.UnitPrice)
	}

	fmt.Fprintf(&b, "\nTotal: $%.2f\n", total)
	fmt.Fprintf(&b, "Forma de pago: %s\n", paymentLabel(paymentMethod))
	if address != "" {
		fmt.Fprintf(&b, "Entrega en: %s\n", address)
	}
	b.WriteString("\n¡Gracias por tu pedido! 🐔")

	if askPayment {
		b.WriteString("\n\n" + msgAskPayment)
	}
	if askProfile {
		b.WriteString("\n\n" + msgAskProfile)
	}
	return b.String()
}

func paymentLabel(method string) string {
	switch method {
	case PaymentCash:
		return "efectivo"
	case PaymentCard:
		return "tarjeta"
	case PaymentTransfer:
		return "transferencia"
	default:
		return method
	}
}
