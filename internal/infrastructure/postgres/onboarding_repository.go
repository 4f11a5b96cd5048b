package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// OnboardingChannel canal LISTEN/NOTIFY; el payload es el user_id modificado.
const OnboardingChannel = "onboarding_changes"

// Asegura que OnboardingRepo implementa repository.OnboardingRepository.
var _ repository.OnboardingRepository = (*OnboardingRepo)(nil)

// OnboardingRepo estado de onboarding por usuario. Cada Save notifica por
// OnboardingChannel al confirmar la transacción.
type OnboardingRepo struct {
	pool *pgxpool.Pool
}

// NewOnboardingRepository construye el adaptador con el pool.
func NewOnboardingRepository(pool *pgxpool.Pool) *OnboardingRepo {
	return &OnboardingRepo{pool: pool}
}

// Get devuelve el estado del usuario o (nil, nil) si aún no existe.
func (r *OnboardingRepo) Get(ctx context.Context, userID string) (*entity.OnboardingState, error) {
	return getOnboarding(ctx, r.pool, userID)
}

func getOnboarding(ctx context.Context, db Querier, userID string) (*entity.OnboardingState, error) {
	query := `
		SELECT user_id, tasks, call_reminder_sent, completed_at, updated_at
		FROM onboarding_states WHERE user_id = $1`
	var (
		st    entity.OnboardingState
		tasks []byte
	)
	err := db.QueryRow(ctx, query, userID).Scan(&st.UserID, &tasks, &st.CallReminderSent, &st.CompletedAt, &st.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get onboarding: %w", err)
	}
	st.Tasks = map[entity.TaskName]entity.TaskStatus{}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &st.Tasks); err != nil {
			return nil, fmt.Errorf("decode onboarding tasks: %w", err)
		}
	}
	return &st, nil
}

// Save inserta o reemplaza el estado. completed_at nunca vuelve a NULL.
func (r *OnboardingRepo) Save(ctx context.Context, st *entity.OnboardingState) error {
	tasks := st.Tasks
	if tasks == nil {
		tasks = map[entity.TaskName]entity.TaskStatus{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode onboarding tasks: %w", err)
	}
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO onboarding_states (user_id, tasks, call_reminder_sent, completed_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				tasks = EXCLUDED.tasks,
				call_reminder_sent = EXCLUDED.call_reminder_sent,
				completed_at = COALESCE(onboarding_states.completed_at, EXCLUDED.completed_at),
				updated_at = EXCLUDED.updated_at`
		if _, err := tx.Exec(ctx, query, st.UserID, raw, st.CallReminderSent, st.CompletedAt, st.UpdatedAt); err != nil {
			return fmt.Errorf("save onboarding: %w", err)
		}
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, OnboardingChannel, st.UserID); err != nil {
			return fmt.Errorf("notify onboarding: %w", err)
		}
		return nil
	})
}
