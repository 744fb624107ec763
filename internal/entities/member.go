package entities

import "time"

type Member struct {
	ID        int64
	Email     string
	Password  string
	FName     string
	LName     string
	CreatedAt time.Time
}
