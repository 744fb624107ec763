package types

import "time"

type RepairStats struct {
	Total          int64 `json:"total"`
	Received       int64 `json:"received"`
	Repairing      int64 `json:"repairing"`
	RepairComplete int64 `json:"repairComplete"`
}

type SentRepairStats struct {
	Total    int64 `json:"total"`
	Sending  int64 `json:"sending"`
	Received int64 `json:"received"`
}

type ProjectStats struct {
	Total      int64 `json:"total"`
	Waiting    int64 `json:"waiting"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

type DashboardSummary struct {
	TotalCases int64 `json:"totalCases"`
	Completed  int64 `json:"completed"`
}

type DashboardStatistics struct {
	CaseRepair  RepairStats      `json:"caseRepair"`
	SentRepair  SentRepairStats  `json:"sentRepair"`
	CaseProject ProjectStats     `json:"caseProject"`
	Summary     DashboardSummary `json:"summary"`
}

// Activity sources
const (
	ActivityRepairCase = "caseRepair"
	ActivitySentRepair = "sentRepair"
	ActivityProject    = "caseProject"
)

type RecentActivity struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   *time.Time `json:"createdAt"`
}
