package mid

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

var integerToken = regexp.MustCompile(`\d+`)

// ParseHeadcount extrae el primer número entero de un valor libre ("120", "ca. 45 MA", "12").
// ok es false si el valor está vacío o no contiene dígitos; la regla de plantilla
// no se aplica en ese caso. Un número que no cabe en int satura a math.MaxInt.
func ParseHeadcount(raw string) (n int, ok bool) {
	tok := integerToken.FindString(raw)
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// Headcount plantilla del perfil: primero el campo dedicado, si no el genérico.
func Headcount(p *entity.OrganizationProfile) (int, bool) {
	if p == nil {
		return 0, false
	}
	for _, raw := range []*string{p.EmployeeCount, p.TotalEmployees} {
		if raw == nil {
			continue
		}
		if n, ok := ParseHeadcount(*raw); ok {
			return n, true
		}
	}
	return 0, false
}
