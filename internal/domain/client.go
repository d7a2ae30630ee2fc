package domain

import "time"

// Client represents a barbershop customer
type Client struct {
	ID                  int64
	Name                string
	Phone               string
	Email               string
	LastVisit           *time.Time
	PreferredEmployeeID *int64
	Notes               *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
