package entities

import (
	"time"

	"repair-office/pkg/types"
)

const (
	RepairStatusReceived  = "รับเครื่องแล้ว"
	RepairStatusRepairing = "กำลังซ่อม"
	RepairStatusComplete  = "ซ่อมเสร็จ"
	// RepairStatusSentOut is forced onto a case when a sent repair links to it.
	RepairStatusSentOut = "ส่งซ่อมอยู่"
)

type RepairCase struct {
	CaseID              string
	CusFirstName        string
	CusLastName         string
	CusPhone            string
	CaseInstitution     string
	BrokenSymptom       string
	CaseType            string
	CaseStatus          string
	CaseBrand           string
	CaseModel           string
	CaseSN              string
	CaseDurableArticles string
	CaseEquipment       string
	DatePickUp          *time.Time
	DateBeforePickUp    *time.Time
	DateComplete        *time.Time
	DateDelivered       *time.Time
	RefSentRepairID     *string

	types.BaseEntity
}

var repairCasePrefixes = map[string]string{
	"ซ่อมคอมพิวเตอร์":     "PC",
	"ซ่อมโน็ตบุ๊ค":        "NB",
	"ซ่อมปริ้นเตอร์":      "PR",
	"ซ่อมมือถือ/แท็บเล็ต": "MB",
	"ลงโปรแกรม/OS":        "SW",
}

// RepairCasePrefix picks the identifier prefix for a case type; unknown
// types share CT.
func RepairCasePrefix(caseType string) string {
	if p, ok := repairCasePrefixes[caseType]; ok {
		return p
	}
	return "CT"
}

type RepairFilterOptions struct {
	Statuses []string `json:"statuses"`
	Types    []string `json:"types"`
}
