package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// Asegura que OnboardingFeed implementa repository.OnboardingFeed.
var _ repository.OnboardingFeed = (*OnboardingFeed)(nil)

// OnboardingFeed notificaciones de cambios de onboarding vía LISTEN/NOTIFY.
// Cada suscripción ocupa una conexión del pool hasta que se cancela.
type OnboardingFeed struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewOnboardingFeed construye el feed.
func NewOnboardingFeed(pool *pgxpool.Pool, log *logger.Logger) *OnboardingFeed {
	return &OnboardingFeed{pool: pool, log: log.Component("onboarding_feed")}
}

// Subscribe escucha OnboardingChannel y, por cada notificación de userID, relee
// el estado y llama a onChange desde la goroutine del listener. La suscripción
// termina al cancelar ctx o al llamar a la función devuelta.
func (f *OnboardingFeed) Subscribe(ctx context.Context, userID string, onChange func(entity.OnboardingState)) (func(), error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener: %w", err)
	}
	listen := "LISTEN " + pgx.Identifier{OnboardingChannel}.Sanitize()
	if _, err := conn.Exec(ctx, listen); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", OnboardingChannel, err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer f.release(conn)
		for {
			n, err := conn.Conn().WaitForNotification(listenCtx)
			if err != nil {
				if listenCtx.Err() == nil {
					f.log.Warn().Err(err).Str("user_id", userID).Msg("listener de onboarding interrumpido")
				}
				return
			}
			if n.Payload != userID {
				continue
			}
			st, err := getOnboarding(listenCtx, f.pool, userID)
			if err != nil {
				f.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo releer onboarding")
				continue
			}
			if st != nil {
				onChange(*st)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// release deja de escuchar y devuelve la conexión; si falla, la cierra.
func (f *OnboardingFeed) release(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := conn.Exec(ctx, "UNLISTEN *"); err != nil {
		raw := conn.Hijack()
		_ = raw.Close(ctx)
		return
	}
	conn.Release()
}
