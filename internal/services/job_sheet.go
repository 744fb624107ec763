package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"repair-office/internal/entities"
	"repair-office/pkg/utils"
)

//go:embed templates/job_sheet.html
var templateFS embed.FS

var jobSheetTemplate = template.Must(template.New("job_sheet.html").ParseFS(templateFS, "templates/job_sheet.html"))

const blankDate = "______/______/______"

type jobSheetView struct {
	Case          entities.RepairCase
	CustomerName  string
	Computer      bool
	Notebook      bool
	Printer       bool
	UPS           bool
	Other         bool
	PickUpDate    string
	ReceivedDate  string
	DeliveredDate string
	TechRows      []int
}

func newJobSheetView(c entities.RepairCase) jobSheetView {
	v := jobSheetView{
		Case:          c,
		CustomerName:  strings.TrimSpace(c.CusFirstName + " " + c.CusLastName),
		Computer:      strings.Contains(c.CaseType, "คอมพิวเตอร์"),
		Notebook:      strings.Contains(c.CaseType, "โน็ตบุ๊ค"),
		Printer:       strings.Contains(c.CaseType, "ปริ้นเตอร์"),
		UPS:           strings.Contains(c.CaseType, "UPS"),
		PickUpDate:    orBlank(utils.FormatThaiShortDate(c.DatePickUp)),
		ReceivedDate:  blankDate,
		DeliveredDate: orBlank(utils.FormatThaiShortDate(c.DateDelivered)),
		TechRows:      []int{1, 2, 3, 4, 5},
	}
	v.Other = !v.Computer && !v.Notebook && !v.Printer && !v.UPS
	return v
}

func orBlank(s string) string {
	if s == "" {
		return blankDate
	}
	return s
}

func renderJobSheet(c entities.RepairCase) (string, error) {
	var buf bytes.Buffer
	if err := jobSheetTemplate.Execute(&buf, newJobSheetView(c)); err != nil {
		return "", fmt.Errorf("render job sheet %s: %w", c.CaseID, err)
	}
	return buf.String(), nil
}
