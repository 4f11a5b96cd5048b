// Package messaging publica eventos de dominio en RabbitMQ con el sobre
// {meta, data}: meta identifica el evento (id, tipo, productor, hora) y data
// lleva la carga útil versionada.
package messaging

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mid-portal-api/internal/application/mid"
)

// Producer nombre del servicio emisor.
const Producer = "mid-portal-api"

// ReminderEventType tipo y routing key del recordatorio de reaplicación.
const ReminderEventType = "mid.cooldown.reminder.v1"

// reminderNamespace espacio de nombres para los IDs deterministas de recordatorio.
var reminderNamespace = uuid.MustParse("5d0c8f3e-3b1a-4a8e-9a57-0c8d7f6a2b11")

// Meta metadatos del evento.
type Meta struct {
	ID            string    `json:"id"`
	CorrelationID *string   `json:"correlation_id,omitempty"`
	Producer      string    `json:"producer"`
	Time          time.Time `json:"time"`
	Type          string    `json:"type"`
}

// Envelope sobre común de todos los eventos.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// ReminderPayload datos de mid.cooldown.reminder.v1.
type ReminderPayload struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Email          string `json:"email,omitempty"`
	FundingType    string `json:"funding_type"`
	ReapplyDate    string `json:"reapply_date"` // YYYY-MM-DD
}

// ReminderID es estable para (organización, línea, fecha): reevaluar la
// elegibilidad varias veces produce el mismo MessageId y el consumidor deduplica.
func ReminderID(r mid.Reminder) string {
	key := r.OrganizationID + "|" + string(r.FundingType) + "|" + r.ReapplyDate.UTC().Format("2006-01-02")
	return uuid.NewSHA1(reminderNamespace, []byte(key)).String()
}

func reminderEnvelope(r mid.Reminder, now time.Time) Envelope {
	return Envelope{
		Meta: Meta{
			ID:       ReminderID(r),
			Producer: Producer,
			Time:     now.UTC(),
			Type:     ReminderEventType,
		},
		Data: ReminderPayload{
			OrganizationID: r.OrganizationID,
			UserID:         r.UserID,
			Email:          r.Email,
			FundingType:    string(r.FundingType),
			ReapplyDate:    r.ReapplyDate.UTC().Format("2006-01-02"),
		},
	}
}
