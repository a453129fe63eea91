package core

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"careloop-backend-go/internal/models"
)

// ErrDeliveryUnavailable is returned when a notification cannot be delivered
// in this deployment (no mailer configured, unknown recipient, or an
// unsupported delivery method).
var ErrDeliveryUnavailable = errors.New("notification delivery unavailable")

// MailSender is the slice of pkg/mailer the notifier needs.
type MailSender interface {
	Send(recipient, subject, body string) error
}

// RecipientDirectory resolves a logical recipient ("care-team", a caregiver
// id) to an email address.
type RecipientDirectory interface {
	EmailFor(recipient string) (string, bool)
}

// StaticDirectory is a fixed recipient → address map. An address-shaped
// recipient resolves to itself.
type StaticDirectory map[string]string

// EmailFor resolves a recipient to an address.
func (d StaticDirectory) EmailFor(recipient string) (string, bool) {
	if addr, ok := d[recipient]; ok {
		return addr, true
	}
	if strings.Contains(recipient, "@") {
		return recipient, true
	}
	return "", false
}

// ParseDirectory builds a StaticDirectory from "name=addr,name=addr" config
// syntax. Malformed pairs are skipped.
func ParseDirectory(raw string) StaticDirectory {
	dir := StaticDirectory{}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) == 2 && kv[0] != "" && kv[1] != "" {
			dir[kv[0]] = kv[1]
		}
	}
	return dir
}

// Notifier delivers derived care-event notifications and marks them sent.
type Notifier struct {
	events    *EventService
	mail      MailSender
	directory RecipientDirectory
	logger    *zap.Logger
}

// NewNotifier creates a Notifier. mail may be nil when no SMTP relay is
// configured; delivery then fails with ErrDeliveryUnavailable.
func NewNotifier(events *EventService, mail MailSender, directory RecipientDirectory, logger *zap.Logger) *Notifier {
	return &Notifier{events: events, mail: mail, directory: directory, logger: logger}
}

// Deliver sends one notification by id and flips its sent flag on success.
// Delivering an already-sent notification is a no-op.
func (n *Notifier) Deliver(id string) error {
	notification, err := n.events.GetNotification(id)
	if err != nil {
		return err
	}
	if notification.Sent {
		return nil
	}

	switch notification.DeliveryMethod {
	case "email":
		if err := n.deliverEmail(notification); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: delivery method %q is not supported in this deployment", ErrDeliveryUnavailable, notification.DeliveryMethod)
	}

	n.events.MarkNotificationSent(id)
	if n.logger != nil {
		n.logger.Info("Notification delivered",
			zap.String("notificationId", id),
			zap.String("type", string(notification.Type)),
			zap.String("recipient", notification.Recipient))
	}
	return nil
}

func (n *Notifier) deliverEmail(notification *models.CareEventNotification) error {
	if n.mail == nil {
		return fmt.Errorf("%w: no mail relay configured", ErrDeliveryUnavailable)
	}
	addr, ok := n.directory.EmailFor(notification.Recipient)
	if !ok {
		return fmt.Errorf("%w: no address for recipient %q", ErrDeliveryUnavailable, notification.Recipient)
	}

	subject := notificationSubject(notification.Type)
	if err := n.mail.Send(addr, subject, notification.Message); err != nil {
		return fmt.Errorf("sending notification email: %w", err)
	}
	return nil
}

func notificationSubject(t models.NotificationType) string {
	switch t {
	case models.NotificationAlert:
		return "Careloop alert"
	case models.NotificationCancellation:
		return "Care event cancelled"
	case models.NotificationUpdate:
		return "Care event updated"
	default:
		return "Care event reminder"
	}
}
