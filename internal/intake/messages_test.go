package intake

import (
	"strings"
	"testing"

	"polleria_backend/internal/events"
)

func TestConfirmationMessageItemized(t *testing.T) {
	id := int64(1)
	lines := []events.OrderLine{
		{ProductID: &id, Name: "Pollo Frito", Quantity: 2, UnitPrice: 120},
	}
	msg := ConfirmationMessage(42, lines, 240, PaymentCash, "Av. Juárez 12", false, false)

	for _, want := range []string{"#42", "2 x Pollo Frito", "$240.00", "efectivo", "Av. Juárez 12"} {
		if !strings.Contains(msg, want) {
			t.Errorf("confirmation missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, msgAskPayment) || strings.Contains(msg, msgAskProfile) {
		t.Error("asks must not appear unless requested")
	}
}

func TestConfirmationMessagePlaceholderLine(t *testing.T) {
	lines := []events.OrderLine{
		{ProductID: nil, Name: "hamburguesa", Quantity: 1, UnitPrice: 0},
	}
	msg := ConfirmationMessage(7, lines, 0, PaymentCash, "", false, false)
	if !strings.Contains(msg, "por confirmar precio") {
		t.Fatalf("placeholder line not flagged:\n%s", msg)
	}
}

func TestConfirmationMessageAppendsAsks(t *testing.T) {
	msg := ConfirmationMessage(7, nil, 100, PaymentCash, "", true, true)
	if !strings.Contains(msg, msgAskPayment) {
		t.Error("payment ask missing")
	}
	if !strings.Contains(msg, msgAskProfile) {
		t.Error("profile ask missing")
	}
}
