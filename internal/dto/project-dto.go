package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateProjectDTO struct {
	Address      string      `json:"pAddress" validate:"required,max=500"`
	Detail       string      `json:"pDetail"`
	Status       string      `json:"pStatus" validate:"omitempty,max=50"`
	DateCreate   null.String `json:"dateCreate" validate:"omitempty,date_ymd"`
	DateComplete null.String `json:"dateComplete" validate:"omitempty,date_ymd"`
}

type UpdateProjectDTO struct {
	PID string `json:"pId" validate:"required"`
	CreateProjectDTO
}

type DeleteProjectDTO struct {
	PID string `json:"pId" validate:"required"`
}

type ProjectDTO struct {
	PID          string     `json:"pId"`
	Address      string     `json:"pAddress"`
	Detail       string     `json:"pDetail"`
	Status       string     `json:"pStatus"`
	DateCreate   *string    `json:"dateCreate"`
	DateComplete *string    `json:"dateComplete"`
	Images       []string   `json:"images"`
	CreatedAt    *time.Time `json:"created_at"`
}

type CreatedProjectDTO struct {
	PID string `json:"pId"`
}
