// Package testutil repositorios en memoria y fábricas de datos para los tests
// de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

var (
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
	_ repository.SubmissionRepository   = (*SubmissionRepo)(nil)
	_ repository.OnboardingRepository   = (*OnboardingRepo)(nil)
	_ repository.InviteRepository       = (*InviteRepo)(nil)
	_ repository.OnboardingFeed         = (*Feed)(nil)
)

// OrganizationRepo organizaciones en memoria. Err, si no es nil, se devuelve en todas las operaciones.
type OrganizationRepo struct {
	mu   sync.Mutex
	byID map[string]entity.OrganizationProfile
	Err  error
}

func NewOrganizationRepo(orgs ...*entity.OrganizationProfile) *OrganizationRepo {
	r := &OrganizationRepo{byID: map[string]entity.OrganizationProfile{}}
	for _, o := range orgs {
		r.byID[o.ID] = *o
	}
	return r
}

func (r *OrganizationRepo) Create(_ context.Context, org *entity.OrganizationProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, o := range r.byID {
		if o.OwnerID == org.OwnerID {
			return domain.ErrConflict
		}
	}
	r.byID[org.ID] = *org
	return nil
}

func (r *OrganizationRepo) GetByID(_ context.Context, id string) (*entity.OrganizationProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrganizationRepo) GetByOwner(_ context.Context, ownerID string) (*entity.OrganizationProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, o := range r.byID {
		if o.OwnerID == ownerID {
			out := o
			return &out, nil
		}
	}
	return nil, nil
}

func (r *OrganizationRepo) Update(_ context.Context, org *entity.OrganizationProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[org.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[org.ID] = *org
	return nil
}

// SubmissionRepo solicitudes en memoria.
type SubmissionRepo struct {
	mu   sync.Mutex
	byID map[string]entity.MIDSubmission
	Err  error
}

func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{byID: map[string]entity.MIDSubmission{}}
}

func cloneSubmission(s entity.MIDSubmission) *entity.MIDSubmission {
	s.ChangeHistory = append([]entity.ChangeHistoryEntry(nil), s.ChangeHistory...)
	return &s
}

func (r *SubmissionRepo) Create(_ context.Context, sub *entity.MIDSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[sub.ID]; ok {
		return domain.ErrConflict
	}
	r.byID[sub.ID] = *cloneSubmission(*sub)
	return nil
}

func (r *SubmissionRepo) GetByID(_ context.Context, id string) (*entity.MIDSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneSubmission(s), nil
}

// sorted devuelve las solicitudes que cumplen keep, de la más reciente a la más antigua.
func (r *SubmissionRepo) sorted(keep func(entity.MIDSubmission) bool) []*entity.MIDSubmission {
	var out []*entity.MIDSubmission
	for _, s := range r.byID {
		if keep(s) {
			out = append(out, cloneSubmission(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *SubmissionRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.MIDSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(s entity.MIDSubmission) bool { return s.OwnerID == ownerID }), nil
}

func (r *SubmissionRepo) LatestByOrganization(_ context.Context, organizationID string) (*entity.MIDSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	list := r.sorted(func(s entity.MIDSubmission) bool { return s.OrganizationID == organizationID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *SubmissionRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := 0
	for _, s := range r.byID {
		if s.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepo) Update(_ context.Context, sub *entity.MIDSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[sub.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[sub.ID] = *cloneSubmission(*sub)
	return nil
}

func (r *SubmissionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// OnboardingRepo estados de onboarding en memoria. Saves cuenta las escrituras.
type OnboardingRepo struct {
	mu     sync.Mutex
	byUser map[string]entity.OnboardingState
	Saves  int
	Err    error
}

func NewOnboardingRepo() *OnboardingRepo {
	return &OnboardingRepo{byUser: map[string]entity.OnboardingState{}}
}

func (r *OnboardingRepo) Get(_ context.Context, userID string) (*entity.OnboardingState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	st, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	out := st.Clone()
	return &out, nil
}

// Save replica el upsert de Postgres: completed_at guardado no se pisa con NULL.
func (r *OnboardingRepo) Save(_ context.Context, state *entity.OnboardingState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	next := state.Clone()
	if prev, ok := r.byUser[state.UserID]; ok && next.CompletedAt == nil && prev.CompletedAt != nil {
		at := *prev.CompletedAt
		next.CompletedAt = &at
	}
	r.byUser[state.UserID] = next
	r.Saves++
	return nil
}

// Put siembra un estado sin contar como escritura.
func (r *OnboardingRepo) Put(state entity.OnboardingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[state.UserID] = state.Clone()
}

// InviteRepo invitaciones en memoria.
type InviteRepo struct {
	mu      sync.Mutex
	invites []entity.Invite
	Err     error
}

func NewInviteRepo() *InviteRepo { return &InviteRepo{} }

func (r *InviteRepo) Create(_ context.Context, invite *entity.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, i := range r.invites {
		if i.OrganizationID == invite.OrganizationID && i.Email == invite.Email {
			return domain.ErrConflict
		}
	}
	r.invites = append(r.invites, *invite)
	return nil
}

func (r *InviteRepo) ListByOrganization(_ context.Context, organizationID string) ([]*entity.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Invite
	for _, i := range r.invites {
		if i.OrganizationID == organizationID {
			inv := i
			out = append(out, &inv)
		}
	}
	return out, nil
}

func (r *InviteRepo) ExistsForOrganization(ctx context.Context, organizationID string) (bool, error) {
	list, err := r.ListByOrganization(ctx, organizationID)
	return len(list) > 0, err
}

// Feed feed de onboarding manual: los tests publican con Publish.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]feedSub
}

type feedSub struct {
	userID   string
	onChange func(entity.OnboardingState)
}

func NewFeed() *Feed { return &Feed{subs: map[int]feedSub{}} }

func (f *Feed) Subscribe(_ context.Context, userID string, onChange func(entity.OnboardingState)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = feedSub{userID: userID, onChange: onChange}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}, nil
}

// Publish entrega state a los suscriptores de su usuario, en la goroutine del llamador.
func (f *Feed) Publish(state entity.OnboardingState) {
	f.mu.Lock()
	var targets []func(entity.OnboardingState)
	for _, s := range f.subs {
		if s.userID == state.UserID {
			targets = append(targets, s.onChange)
		}
	}
	f.mu.Unlock()
	for _, fn := range targets {
		fn(state.Clone())
	}
}

// Subscribers número de suscripciones activas.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
