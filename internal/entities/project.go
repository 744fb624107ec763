package entities

import (
	"time"

	"repair-office/pkg/types"
)

const (
	ProjectPrefix = "PJ"

	ProjectStatusWaiting    = "รอดำเนินการ"
	ProjectStatusInProgress = "กำลังดำเนินการ"
	ProjectStatusCompleted  = "เสร็จสิ้น"
)

type Project struct {
	PID          string
	Address      string
	Detail       string
	Status       string
	DateCreate   *time.Time
	DateComplete *time.Time
	Images       []ProjectImage

	types.BaseEntity
}

type ProjectImage struct {
	ID        int64
	ProjectID string
	Path      string
	SortOrder int
}

// ImagePaths returns the stored paths in display order.
func (p Project) ImagePaths() []string {
	paths := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		paths = append(paths, img.Path)
	}
	return paths
}
