package mid

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// MaxEntriesPerField entradas de historial que se conservan por campo.
const MaxEntriesPerField = 2

// TrackedField campo de la solicitud sujeto a auditoría.
type TrackedField struct {
	Key   string
	Label string
	value func(d *entity.SubmissionData) string
}

var trackedFields = []TrackedField{
	{"legalName", "Firmenname", func(d *entity.SubmissionData) string { return d.LegalName }},
	{"taxId", "Steuernummer", func(d *entity.SubmissionData) string { return d.TaxID }},
	{"foundingDate", "Gründungsdatum", func(d *entity.SubmissionData) string { return d.FoundingDate }},
	{"street", "Straße", func(d *entity.SubmissionData) string { return d.Street }},
	{"postalCode", "Postleitzahl", func(d *entity.SubmissionData) string { return d.PostalCode }},
	{"city", "Ort", func(d *entity.SubmissionData) string { return d.City }},
	{"country", "Land", func(d *entity.SubmissionData) string { return d.Country }},
	{"iban", "IBAN", func(d *entity.SubmissionData) string { return d.IBAN }},
	{"bic", "BIC", func(d *entity.SubmissionData) string { return d.BIC }},
	{"bankName", "Bank", func(d *entity.SubmissionData) string { return d.BankName }},
	{"accountHolder", "Kontoinhaber", func(d *entity.SubmissionData) string { return d.AccountHolder }},
	{"industry", "Branche", func(d *entity.SubmissionData) string { return d.Industry }},
	{"companyCategory", "Unternehmenskategorie", func(d *entity.SubmissionData) string { return d.CompanyCategory }},
	{"totalEmployees", "Mitarbeiter gesamt", func(d *entity.SubmissionData) string { return d.TotalEmployees }},
	{"employeeCount", "Anzahl Beschäftigte", func(d *entity.SubmissionData) string { return d.EmployeeCount }},
	{"fullTimeEquivalents", "Vollzeitäquivalente", func(d *entity.SubmissionData) string {
		if d.FullTimeEquivalents == nil {
			return ""
		}
		return d.FullTimeEquivalents.String()
	}},
	{"firstName", "Vorname", func(d *entity.SubmissionData) string { return d.FirstName }},
	{"lastName", "Nachname", func(d *entity.SubmissionData) string { return d.LastName }},
	{"fundingType", "Förderlinie", func(d *entity.SubmissionData) string { return string(d.FundingType) }},
}

var trackedIndex = func() map[string]int {
	m := make(map[string]int, len(trackedFields))
	for i, f := range trackedFields {
		m[f.Key] = i
	}
	return m
}()

// TrackedFields devuelve el conjunto de campos auditados en orden.
func TrackedFields() []TrackedField {
	out := make([]TrackedField, len(trackedFields))
	copy(out, trackedFields)
	return out
}

// IsTrackedField informa si key pertenece al conjunto auditado.
func IsTrackedField(key string) bool {
	_, ok := trackedIndex[key]
	return ok
}

// RecordChanges compara prev y next sobre los campos auditados. Un cambio existe cuando
// las representaciones de texto, sin espacios externos, difieren. Con prev nil (primer
// guardado) no hay diff y el historial empieza vacío.
func RecordChanges(prev, next *entity.SubmissionData, changedBy string, now time.Time) []entity.ChangeHistoryEntry {
	if prev == nil || next == nil {
		return nil
	}
	var out []entity.ChangeHistoryEntry
	for _, f := range trackedFields {
		before := strings.TrimSpace(f.value(prev))
		after := strings.TrimSpace(f.value(next))
		if before == after {
			continue
		}
		out = append(out, entity.ChangeHistoryEntry{
			Field:      f.Key,
			FieldLabel: f.Label,
			OldValue:   before,
			NewValue:   after,
			Timestamp:  now,
			ChangedBy:  changedBy,
		})
	}
	return out
}

// MergeHistory añade added al historial y conserva, por campo, las MaxEntriesPerField
// entradas más recientes. El límite es por campo, no global. El resultado queda
// ordenado por campo (orden de TrackedFields) y luego por fecha descendente.
// Entradas de campos no auditados se descartan.
func MergeHistory(existing, added []entity.ChangeHistoryEntry) []entity.ChangeHistoryEntry {
	all := make([]entity.ChangeHistoryEntry, 0, len(existing)+len(added))
	all = append(all, existing...)
	all = append(all, added...)

	byField := make(map[string][]entity.ChangeHistoryEntry)
	// Recorrido inverso: ante timestamps iguales gana la entrada añadida después.
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if !IsTrackedField(e.Field) {
			continue
		}
		byField[e.Field] = append(byField[e.Field], e)
	}

	out := make([]entity.ChangeHistoryEntry, 0, len(all))
	for _, f := range trackedFields {
		entries := byField[f.Key]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
		if len(entries) > MaxEntriesPerField {
			entries = entries[:MaxEntriesPerField]
		}
		out = append(out, entries...)
	}
	return out
}
