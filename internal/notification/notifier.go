// Package notification fans new-order alerts out to staff over WhatsApp and
// email. Everything here is best-effort: a failed alert is logged, never
// propagated back to the order.
package notification

import (
	"context"
	"fmt"
	"strings"

	"polleria_backend/internal/events"
	"polleria_backend/internal/whatsapp"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"
)

// EmailSender is the SMTP surface used for the staff email copy.
type EmailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Notifier struct {
	sender whatsapp.Sender
	email  EmailSender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

func NewNotifier(sender whatsapp.Sender, email EmailSender, cfg config.NotificationConfig, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, email: email, cfg: cfg, log: log}
}

// Subscribe registers the notifier on the event bus.
func (n *Notifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.OrderCreated{}.EventName(), events.HandlerFunc(n.handleOrderCreated))
}

func (n *Notifier) handleOrderCreated(ctx context.Context, event events.Event) error {
	order, ok := event.(events.OrderCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	text := staffAlert(order)

	g, gctx := errgroup.WithContext(ctx)
	if n.sender != nil {
		for _, staffPhone := range n.cfg.GetStaffPhones() {
			g.Go(func() error {
				if !n.sender.Send(gctx, staffPhone, text) {
					n.log.Warn("staff alert not delivered", "phone", staffPhone, "order_id", order.OrderID)
				}
				return nil
			})
		}
	}
	g.Go(func() error {
		n.sendEmailCopy(gctx, order, text)
		return nil
	})
	return g.Wait()
}

func (n *Notifier) sendEmailCopy(ctx context.Context, order events.OrderCreated, text string) {
	if n.email == nil || !n.cfg.IsStaffEmailEnabled() {
		return
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.GetEmailFromName(), n.cfg.GetEmailFromAddress()); err != nil {
		n.log.Error("staff email from address invalid", "error", err)
		return
	}
	if err := msg.To(n.cfg.GetStaffEmail()); err != nil {
		n.log.Error("staff email to address invalid", "error", err)
		return
	}
	msg.Subject(fmt.Sprintf("Nuevo pedido #%d", order.OrderID))
	msg.SetBodyString(mail.TypeTextPlain, text)

	if err := n.email.DialAndSendWithContext(ctx, msg); err != nil {
		n.log.Error("staff email not delivered", "order_id", order.OrderID, "error", err)
	}
}

// staffAlert summarizes an order for the staff channel.
func staffAlert(order events.OrderCreated) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 Nuevo pedido #%d\n", order.OrderID)
	fmt.Fprintf(&b, "Cliente: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	if order.LocationName != "" {
		fmt.Fprintf(&b, "Sucursal: %s\n", order.LocationName)
	}
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "• %d x %s\n", line.Quantity, line.Name)
	}
	fmt.Fprintf(&b, "Total: $%.2f (%s)", order.Total, order.PaymentMethod)
	if order.Address != "" {
		fmt.Fprintf(&b, "\nEntrega: %s", order.Address)
	}
	return b.String()
}

// NewSMTPClient builds the go-mail client from config. Returns nil when SMTP
// is not configured.
func NewSMTPClient(cfg config.NotificationConfig) (*mail.Client, error) {
	if !cfg.IsStaffEmailEnabled() {
		return nil, nil
	}
	return mail.NewClient(cfg.GetSMTPHost(),
		mail.WithPort(cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.GetSMTPUsername()),
		mail.WithPassword(cfg.GetSMTPPassword()),
	)
}
