package mid

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// SnapshotProfile copia el perfil en el documento de la solicitud. contactEmail
// es el correo de la cuenta; el del perfil sólo se usa si aquel viene vacío.
func SnapshotProfile(p *entity.OrganizationProfile, contactEmail string) entity.SubmissionData {
	if p == nil {
		return entity.SubmissionData{}
	}
	email := strings.TrimSpace(contactEmail)
	if email == "" {
		email = deref(p.Email)
	}
	data := entity.SubmissionData{
		LegalName:       deref(p.LegalName),
		TaxID:           deref(p.TaxID),
		Street:          deref(p.Street),
		PostalCode:      deref(p.PostalCode),
		City:            deref(p.City),
		Country:         deref(p.Country),
		IBAN:            deref(p.IBAN),
		BIC:             deref(p.BIC),
		BankName:        deref(p.BankName),
		AccountHolder:   deref(p.AccountHolder),
		Industry:        deref(p.Industry),
		CompanyCategory: deref(p.CompanyCategory),
		TotalEmployees:  deref(p.TotalEmployees),
		EmployeeCount:   deref(p.EmployeeCount),
		FirstName:       deref(p.FirstName),
		LastName:        deref(p.LastName),
		Email:           email,
	}
	if p.FoundingDate != nil {
		data.FoundingDate = p.FoundingDate.Format(usecase.DateLayout)
	}
	if p.FullTimeEquivalents != nil {
		fte := *p.FullTimeEquivalents
		data.FullTimeEquivalents = &fte
	}
	return data
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// applySubmissionFields superpone los campos informados sobre data.
func applySubmissionFields(data *entity.SubmissionData, in dto.SubmissionFields) error {
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&data.LegalName, in.LegalName},
		{&data.TaxID, in.TaxID},
		{&data.Street, in.Street},
		{&data.PostalCode, in.PostalCode},
		{&data.City, in.City},
		{&data.Country, in.Country},
		{&data.IBAN, in.IBAN},
		{&data.BIC, in.BIC},
		{&data.BankName, in.BankName},
		{&data.AccountHolder, in.AccountHolder},
		{&data.Industry, in.Industry},
		{&data.CompanyCategory, in.CompanyCategory},
		{&data.TotalEmployees, in.TotalEmployees},
		{&data.EmployeeCount, in.EmployeeCount},
		{&data.FirstName, in.FirstName},
		{&data.LastName, in.LastName},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if in.BIC != nil {
		data.BIC = strings.ToUpper(data.BIC)
	}
	if in.FoundingDate != nil {
		s := strings.TrimSpace(*in.FoundingDate)
		if s != "" {
			if _, err := time.Parse(usecase.DateLayout, s); err != nil {
				return fmt.Errorf("%w: foundingDate: %v", domain.ErrInvalidInput, err)
			}
		}
		data.FoundingDate = s
	}
	if in.FullTimeEquivalents != nil {
		fte := *in.FullTimeEquivalents
		data.FullTimeEquivalents = &fte
	}
	if in.FundingType != nil {
		ft, err := parseFundingType(*in.FundingType, false)
		if err != nil {
			return err
		}
		data.FundingType = ft
	}
	return nil
}

// ToSubmissionResponse mapea la entidad a la respuesta HTTP.
func ToSubmissionResponse(s *entity.MIDSubmission) *dto.SubmissionResponse {
	if s == nil {
		return nil
	}
	out := &dto.SubmissionResponse{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		OrganizationID: s.OrganizationID,
		Data:           s.Data,
		Status:         s.Status,
		SubmittedAt:    s.SubmittedAt,
		SignatureHash:  s.SignatureHash,
		DigitalSignature: dto.DigitalSignatureResponse{
			Accepted:          s.DigitalSignature.Accepted,
			AcceptedAt:        s.DigitalSignature.AcceptedAt,
			ClientFingerprint: s.DigitalSignature.ClientFingerprint,
		},
		ChangeHistory: make([]dto.ChangeHistoryEntryResponse, 0, len(s.ChangeHistory)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, e := range s.ChangeHistory {
		out.ChangeHistory = append(out.ChangeHistory, dto.ChangeHistoryEntryResponse{
			Field:      e.Field,
			FieldLabel: e.FieldLabel,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			Timestamp:  e.Timestamp,
			ChangedBy:  e.ChangedBy,
		})
	}
	return out
}
