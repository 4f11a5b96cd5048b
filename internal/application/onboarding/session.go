package onboarding

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// Session estado vivo de onboarding de un usuario. Las notificaciones del feed
// llegan en otra goroutine; el mutex protege state. Ante cambios concurrentes
// gana la última escritura.
type Session struct {
	uc    *UseCase
	actor dto.Actor

	mu          sync.Mutex
	state       entity.OnboardingState
	updates     chan *dto.OnboardingResponse
	unsubscribe func()
	closed      bool
}

// OpenSession reconcilia el estado actual y se suscribe al feed. feed puede ser
// nil: la sesión queda con el estado inicial y sin actualizaciones.
func (uc *UseCase) OpenSession(ctx context.Context, actor dto.Actor, feed repository.OnboardingFeed) (*Session, error) {
	st, err := uc.reconcile(ctx, actor)
	if err != nil {
		return nil, err
	}
	s := &Session{
		uc:      uc,
		actor:   actor,
		state:   st,
		updates: make(chan *dto.OnboardingResponse, 1),
	}
	s.push(uc.ToResponse(st))
	if feed == nil {
		return s, nil
	}
	unsub, err := feed.Subscribe(ctx, actor.UserID, func(next entity.OnboardingState) {
		s.onChange(ctx, next)
	})
	if err != nil {
		return nil, fmt.Errorf("suscribir onboarding: %w", err)
	}
	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
	return s, nil
}

// onChange reemplaza el estado por el recibido, sella CompletedAt si toca y
// persiste sólo cuando el sellado cambió algo.
func (s *Session) onChange(ctx context.Context, next entity.OnboardingState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.state.CompletedAt != nil && next.CompletedAt == nil {
		// CompletedAt nunca se borra aunque otra escritura lo omita.
		at := *s.state.CompletedAt
		next.CompletedAt = &at
	}
	now := s.uc.now()
	if stamped, ok := s.uc.tracker.Recompute(next, now); ok {
		stamped.UpdatedAt = now
		if err := s.uc.states.Save(ctx, &stamped); err != nil {
			s.uc.log.Warn().Err(err).Str("user_id", s.actor.UserID).Msg("no se pudo sellar onboarding completado")
		}
		next = stamped
	}
	s.state = next
	s.push(s.uc.ToResponse(next))
}

// push entrega la última versión; si el consumidor va atrasado se descarta la anterior.
func (s *Session) push(resp *dto.OnboardingResponse) {
	select {
	case s.updates <- resp:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- resp:
	default:
	}
}

// Updates canal con cada nueva versión del estado. Se cierra con Close.
func (s *Session) Updates() <-chan *dto.OnboardingResponse { return s.updates }

// State copia del estado actual.
func (s *Session) State() entity.OnboardingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Progress porcentaje del estado actual.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uc.tracker.Progress(s.state)
}

// Close cancela la suscripción. Es seguro llamarlo varias veces.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubscribe
	close(s.updates)
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
