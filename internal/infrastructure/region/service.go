// Package region decide si un código postal alemán pertenece al estado federado
// elegible. Consulta una API de localidades, guarda el resultado en Redis y, si la
// API no responde, recurre a la tabla estática de NRW, que sólo contesta cuando
// está segura.
package region

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/mid-portal-api/internal/application/mid"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// Asegura que Service implementa mid.RegionLookup.
var _ mid.RegionLookup = (*Service)(nil)

var (
	// ErrInvalidPostalCode el código no tiene cinco dígitos.
	ErrInvalidPostalCode = errors.New("region: código postal inválido")
	// ErrRegionUnknown ninguna fuente sabe ubicar el código (API caída y zona no cubierta por la tabla).
	ErrRegionUnknown = errors.New("region: estado federado desconocido")
)

// StateResolver fuente remota del estado federado de un código postal.
type StateResolver interface {
	FederalState(ctx context.Context, postalCode string) (string, error)
}

// Service combina API remota, caché y tabla estática. remote y cache pueden ser nil.
type Service struct {
	remote        StateResolver
	cache         *Cache
	eligibleState string
	log           *logger.Logger
}

// NewService construye el servicio. eligibleState vacío usa NRW.
func NewService(remote StateResolver, cache *Cache, eligibleState string, log *logger.Logger) *Service {
	if strings.TrimSpace(eligibleState) == "" {
		eligibleState = NorthRhineWestphalia
	}
	return &Service{
		remote:        remote,
		cache:         cache,
		eligibleState: eligibleState,
		log:           log.Component("region"),
	}
}

// IsInEligibleRegion informa si el código postal está en el estado elegible.
// Un código mal formado o que ninguna fuente sabe ubicar es error: el llamador
// decide no bloquear por ello.
func (s *Service) IsInEligibleRegion(ctx context.Context, postalCode string) (bool, error) {
	pc := strings.TrimSpace(postalCode)
	if _, ok := validPostalCode(pc); !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidPostalCode, postalCode)
	}
	if state, ok := s.FederalState(ctx, pc); ok {
		return strings.EqualFold(state, s.eligibleState), nil
	}

	switch StaticVerdict(pc) {
	case VerdictInside:
		return strings.EqualFold(NorthRhineWestphalia, s.eligibleState), nil
	case VerdictOutside:
		// La tabla sólo sabe que no es NRW.
		if strings.EqualFold(NorthRhineWestphalia, s.eligibleState) {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrRegionUnknown, pc)
}

// FederalState resuelve el estado con la caché y después con la API remota.
// ok=false si ninguna de las dos lo conoce; la tabla estática no nombra estados.
func (s *Service) FederalState(ctx context.Context, postalCode string) (string, bool) {
	if s.cache != nil {
		state, ok, err := s.cache.Get(ctx, postalCode)
		if err != nil {
			s.log.Warn().Err(err).Str("postal_code", postalCode).Msg("caché de región no disponible")
		} else if ok && state != "" {
			return state, true
		}
	}
	if s.remote == nil {
		return "", false
	}
	state, err := s.remote.FederalState(ctx, postalCode)
	switch {
	case err == nil && strings.TrimSpace(state) != "":
		s.store(ctx, postalCode, state)
		return state, true
	case err == nil, errors.Is(err, ErrPostalCodeNotFound):
		s.log.Debug().Str("postal_code", postalCode).Msg("código postal desconocido para la API")
	default:
		s.log.Warn().Err(err).Str("postal_code", postalCode).Msg("consulta remota de región fallida; se usa la tabla estática")
	}
	return "", false
}

func (s *Service) store(ctx context.Context, postalCode, state string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, postalCode, state); err != nil {
		s.log.Warn().Err(err).Str("postal_code", postalCode).Msg("no se pudo cachear la región")
	}
}
