package domain

import "strings"

// Purpose classifies what a lease is used for.
type Purpose string

const (
	PurposeLive  Purpose = "live"  // residential
	PurposeWork  Purpose = "work"  // business premises
	PurposeHotel Purpose = "hotel" // short-term accommodation
)

// ParsePurpose normalizes a stored purpose value.
func ParsePurpose(raw string) (Purpose, error) {
	switch p := Purpose(strings.ToLower(strings.TrimSpace(raw))); p {
	case PurposeLive, PurposeWork, PurposeHotel:
		return p, nil
	default:
		return "", ErrInvalidPurpose
	}
}

// PartyKind tells individuals and companies apart for tax treatment.
type PartyKind string

const (
	PartyIndividual PartyKind = "individual"
	PartyCompany    PartyKind = "company"
)

// KindOf maps an IsCompany flag to a PartyKind.
func KindOf(isCompany bool) PartyKind {
	if isCompany {
		return PartyCompany
	}
	return PartyIndividual
}

// CaseKey is the triple that selects the VAT treatment of an invoice.
type CaseKey struct {
	Landlord PartyKind
	Tenant   PartyKind
	Purpose  Purpose
}

// NewCaseKey builds a CaseKey from the parties' company flags.
func NewCaseKey(landlordIsCompany, tenantIsCompany bool, purpose Purpose) CaseKey {
	return CaseKey{
		Landlord: KindOf(landlordIsCompany),
		Tenant:   KindOf(tenantIsCompany),
		Purpose:  purpose,
	}
}

func (k CaseKey) String() string {
	return string(k.Landlord) + "/" + string(k.Tenant) + "/" + string(k.Purpose)
}
