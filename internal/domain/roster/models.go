package roster

import "time"

type Employee struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	HomeWorkplaceID    string    `json:"homeWorkplaceId"`
	MonthlyTargetHours float64   `json:"monthlyTargetHours"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
}

type Workplace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
