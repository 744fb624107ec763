package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// SentRepairFieldsDTO holds the editable fields shared by create and update.
type SentRepairFieldsDTO struct {
	ToMechanic     string      `json:"caseSToMechanic" validate:"omitempty,max=150"`
	OrderNo        string      `json:"caseSOrderNo" validate:"omitempty,max=100"`
	CusName        string      `json:"caseSCusName" validate:"omitempty,max=200"`
	DateOfSent     null.String `json:"DateSOfSent" validate:"omitempty,date_ymd"`
	Type           string      `json:"caseSType"`
	Brand          string      `json:"caseSBrand"`
	Model          string      `json:"caseSModel"`
	SN             string      `json:"caseSSN"`
	BrokenSymptom  string      `json:"brokenSymptom"`
	Equipment      string      `json:"caseSEquipment"`
	DateOfReceived null.String `json:"dateOfReceived" validate:"omitempty,date_ymd"`
	Recipient      string      `json:"caseSRecipient"`
}

type CreateSentRepairDTO struct {
	SentRepairFieldsDTO
	// RefCaseID links the repair case that is being sent out.
	RefCaseID string `json:"refCaseId"`
}

type UpdateSentRepairDTO struct {
	CaseSID string `json:"caseSId" validate:"required"`
	SentRepairFieldsDTO
}

type DeleteSentRepairDTO struct {
	CaseSID string `json:"caseSId" validate:"required"`
}

type SentRepairDTO struct {
	CaseSID        string     `json:"caseSId"`
	ToMechanic     string     `json:"caseSToMechanic"`
	OrderNo        string     `json:"caseSOrderNo"`
	CusName        string     `json:"caseSCusName"`
	DateOfSent     *string    `json:"DateSOfSent"`
	Type           string     `json:"caseSType"`
	Brand          string     `json:"caseSBrand"`
	Model          string     `json:"caseSModel"`
	SN             string     `json:"caseSSN"`
	BrokenSymptom  string     `json:"brokenSymptom"`
	Equipment      string     `json:"caseSEquipment"`
	DateOfReceived *string    `json:"dateOfReceived"`
	Recipient      string     `json:"caseSRecipient"`
	Status         string     `json:"status"`
	CreatedAt      *time.Time `json:"created_at"`
}

type CreatedSentRepairDTO struct {
	CaseSID string `json:"caseSId"`
	// Linked is false when refCaseId named no existing repair case.
	Linked *bool `json:"linked,omitempty"`
}
