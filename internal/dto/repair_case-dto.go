package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateRepairCaseDTO struct {
	CusFirstName        string      `json:"cusFirstName" validate:"required,max=100"`
	CusLastName         string      `json:"cusLastName" validate:"omitempty,max=100"`
	CusPhone            string      `json:"cusPhone" validate:"omitempty,max=30"`
	CaseInstitution     string      `json:"caseInstitution"`
	BrokenSymptom       string      `json:"brokenSymptom"`
	CaseType            string      `json:"caseType" validate:"omitempty,max=100"`
	CaseStatus          string      `json:"caseStatus" validate:"omitempty,max=50"`
	CaseBrand           string      `json:"caseBrand"`
	CaseModel           string      `json:"caseModel"`
	CaseSN              string      `json:"caseSN"`
	CaseDurableArticles string      `json:"caseDurableArticles"`
	CaseEquipment       string      `json:"caseEquipment"`
	DatePickUp          null.String `json:"datePickUp" validate:"omitempty,date_ymd"`
	DateBeforePicUp     null.String `json:"dateBeforePicUp" validate:"omitempty,date_ymd"`
	DateComplete        null.String `json:"dateComplete" validate:"omitempty,date_ymd"`
	DateDelivered       null.String `json:"dateDelivered" validate:"omitempty,date_ymd"`
}

// UpdateRepairCaseDTO replaces every editable field. A blank caseStatus keeps
// the stored one.
type UpdateRepairCaseDTO struct {
	CaseID string `json:"caseId" validate:"required"`
	CreateRepairCaseDTO
}

type DeleteRepairCaseDTO struct {
	CaseID string `json:"caseId" validate:"required"`
}

type RepairCaseDTO struct {
	CaseID              string     `json:"caseId"`
	CusFirstName        string     `json:"cusFirstName"`
	CusLastName         string     `json:"cusLastName"`
	CusPhone            string     `json:"cusPhone"`
	CaseInstitution     string     `json:"caseInstitution"`
	BrokenSymptom       string     `json:"brokenSymptom"`
	CaseType            string     `json:"caseType"`
	CaseStatus          string     `json:"caseStatus"`
	CaseBrand           string     `json:"caseBrand"`
	CaseModel           string     `json:"caseModel"`
	CaseSN              string     `json:"caseSN"`
	CaseDurableArticles string     `json:"caseDurableArticles"`
	CaseEquipment       string     `json:"caseEquipment"`
	DatePickUp          *string    `json:"datePickUp"`
	DateBeforePicUp     *string    `json:"dateBeforePicUp"`
	DateComplete        *string    `json:"dateComplete"`
	DateDelivered       *string    `json:"dateDelivered"`
	RefSentRepairID     *string    `json:"refSentRepairId"`
	CreatedAt           *time.Time `json:"created_at"`
}

type CreatedRepairCaseDTO struct {
	CaseID string `json:"caseId"`
}
