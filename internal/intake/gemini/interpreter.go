// Package gemini implements the order interpreter on Gemini structured output.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"polleria_backend/internal/intake"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"google.golang.org/genai"
)

type Interpreter struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// New connects to the Gemini API. Returns an error when no API key is
// configured; callers decide whether intake runs without an interpreter.
func New(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) (*Interpreter, error) {
	if !cfg.IsGeminiEnabled() {
		return nil, fmt.Errorf("gemini is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Interpreter{client: client, model: cfg.GetGeminiModel(), log: log}, nil
}

// interpretation is the JSON shape the model is constrained to produce.
type interpretation struct {
	IsOrder  bool `json:"es_pedido"`
	Products []struct {
		ID       *int64 `json:"id"`
		Name     string `json:"nombre"`
		Quantity int    `json:"cantidad"`
	} `json:"productos"`
	PaymentMethod string  `json:"metodo_pago"`
	CustomerName  string  `json:"nombre_cliente"`
	Address       string  `json:"direccion"`
	Notes         string  `json:"notas"`
	Total         float64 `json:"total"`
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"es_pedido": {Type: genai.TypeBoolean},
		"productos": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":       {Type: genai.TypeInteger, Nullable: genai.Ptr(true)},
					"nombre":   {Type: genai.TypeString},
					"cantidad": {Type: genai.TypeInteger},
				},
				Required: []string{"nombre", "cantidad"},
			},
		},
		"metodo_pago":    {Type: genai.TypeString, Enum: []string{"", "efectivo", "tarjeta", "transferencia"}},
		"nombre_cliente": {Type: genai.TypeString},
		"direccion":      {Type: genai.TypeString},
		"notas":          {Type: genai.TypeString},
		"total":          {Type: genai.TypeNumber},
	},
	Required: []string{"es_pedido", "productos"},
}

const systemPrompt = `Eres el asistente de pedidos de una pollería mexicana.
Analiza el mensaje del cliente y extrae la intención de pedido.

Reglas:
- Si el mensaje NO contiene productos ni intención de compra, responde con es_pedido=false y productos vacío.
- Para cada producto menciona nombre y cantidad (1 si no se indica).
- Asigna "id" solo si el texto nombra sin ambigüedad un producto del catálogo.
- metodo_pago solo si el cliente lo menciona; de lo contrario cadena vacía.
- total solo si puede calcularse con los precios del catálogo; de lo contrario 0.`

func (i *Interpreter) Interpret(ctx context.Context, text, phone string, catalog []intake.CatalogItem) (intake.OrderIntent, error) {
	prompt := buildPrompt(text, phone, catalog)

	resp, err := i.client.Models.GenerateContent(ctx, i.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema,
		},
	)
	if err != nil {
		return intake.OrderIntent{}, fmt.Errorf("gemini request: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return intake.OrderIntent{}, fmt.Errorf("gemini returned empty response")
	}

	var parsed interpretation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return intake.OrderIntent{}, fmt.Errorf("parse gemini response: %w", err)
	}

	if !parsed.IsOrder || len(parsed.Products) == 0 {
		return intake.OrderIntent{}, intake.ErrNotAnOrder
	}

	intent := intake.OrderIntent{
		PaymentMethod: normalizePayment(parsed.PaymentMethod),
		CustomerName:  strings.TrimSpace(parsed.CustomerName),
		Address:       strings.TrimSpace(parsed.Address),
		Notes:         strings.TrimSpace(parsed.Notes),
		Total:         parsed.Total,
	}
	for _, p := range parsed.Products {
		intent.Mentions = append(intent.Mentions, intake.ProductMention{
			ID:       p.ID,
			Name:     strings.TrimSpace(p.Name),
			Quantity: p.Quantity,
		})
	}
	return intent, nil
}

func buildPrompt(text, phone string, catalog []intake.CatalogItem) string {
	var b strings.Builder
	b.WriteString("Catálogo actual:\n")
	for _, item := range catalog {
		fmt.Fprintf(&b, "- id=%d %s $%.2f\n", item.ID, item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\nTeléfono del cliente: %s\n", phone)
	fmt.Fprintf(&b, "Mensaje del cliente:\n%s\n", text)
	return b.String()
}

func normalizePayment(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case intake.PaymentCash:
		return intake.PaymentCash
	case intake.PaymentCard:
		return intake.PaymentCard
	case intake.PaymentTransfer:
		return intake.PaymentTransfer
	default:
		return ""
	}
}

var _ intake.Interpreter = (*Interpreter)(nil)
