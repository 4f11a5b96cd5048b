package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/mid-portal-api/internal/application/mid"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// Asegura que ambos programadores implementan mid.ReminderScheduler.
var (
	_ mid.ReminderScheduler = (*ReminderPublisher)(nil)
	_ mid.ReminderScheduler = (*LogScheduler)(nil)
)

// ErrNotConfirmed el broker rechazó (nack) la publicación.
var ErrNotConfirmed = errors.New("messaging: publicación no confirmada por el broker")

// ReminderPublisher publica recordatorios de reaplicación en un exchange topic
// con confirmación del broker.
type ReminderPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	exchange string
	log      *logger.Logger
	now      func() time.Time
}

// NewReminderPublisher conecta y declara el exchange (topic, durable).
func NewReminderPublisher(url, exchange string, log *logger.Logger) (*ReminderPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &ReminderPublisher{
		conn:     conn,
		exchange: exchange,
		log:      log.Component("reminders"),
		now:      time.Now,
	}, nil
}

// ScheduleReapplyReminder publica mid.cooldown.reminder.v1 y espera el ack.
func (p *ReminderPublisher) ScheduleReapplyReminder(ctx context.Context, r mid.Reminder) error {
	env := reminderEnvelope(r, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	p.mu.Lock()
	ch, err := p.conn.Channel()
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("rabbitmq confirm mode: %w", err)
	}

	dc, err := ch.PublishWithDeferredConfirmWithContext(
		ctx, p.exchange, ReminderEventType, false, false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			MessageId:     env.Meta.ID,
			CorrelationId: env.Meta.ID,
			Type:          ReminderEventType,
			AppId:         Producer,
			Timestamp:     env.Meta.Time,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}
	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	p.log.Info().
		Str("message_id", env.Meta.ID).
		Str("organization_id", r.OrganizationID).
		Str("funding_type", string(r.FundingType)).
		Time("reapply_date", r.ReapplyDate).
		Msg("recordatorio de reaplicación publicado")
	return nil
}

// Close cierra la conexión.
func (p *ReminderPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.Close()
}

// LogScheduler registra el recordatorio sin broker (RABBITMQ_URL vacío).
type LogScheduler struct {
	log *logger.Logger
}

// NewLogScheduler construye el programador de sólo-log.
func NewLogScheduler(log *logger.Logger) *LogScheduler {
	return &LogScheduler{log: log.Component("reminders")}
}

// ScheduleReapplyReminder deja constancia en el log con el mismo ID que usaría el broker.
func (s *LogScheduler) ScheduleReapplyReminder(_ context.Context, r mid.Reminder) error {
	s.log.Info().
		Str("message_id", ReminderID(r)).
		Str("organization_id", r.OrganizationID).
		Str("funding_type", string(r.FundingType)).
		Time("reapply_date", r.ReapplyDate).
		Msg("recordatorio de reaplicación (sin broker)")
	return nil
}
