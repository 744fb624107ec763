package entities

import (
	"time"

	"repair-office/pkg/types"
)

const (
	SentRepairPrefix = "S"

	// A sent repair has no status column; date_of_received decides it.
	SentRepairStatusReturned = "รับคืนแล้ว"
	SentRepairStatusOut      = "ส่งซ่อมอยู่"
)

type SentRepair struct {
	CaseSID        string
	ToMechanic     string
	OrderNo        string
	CusName        string
	DateOfSent     *time.Time
	Type           string
	Brand          string
	Model          string
	SN             string
	BrokenSymptom  string
	Equipment      string
	DateOfReceived *time.Time
	Recipient      string

	types.BaseEntity
}

func (s SentRepair) Status() string {
	if s.DateOfReceived != nil {
		return SentRepairStatusReturned
	}
	return SentRepairStatusOut
}
