package leave

import "time"

// Type is the portal's concediu taxonomy.
type Type string

const (
	TypeOdihna    Type = "odihna"
	TypeMedical   Type = "medical"
	TypeFaraPlata Type = "fara_plata"
	TypeEveniment Type = "eveniment"
)

var ValidTypes = []Type{TypeOdihna, TypeMedical, TypeFaraPlata, TypeEveniment}

func (t Type) Valid() bool {
	for _, candidate := range ValidTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Status values are the Romanian labels the portal displays; only approved
// leaves participate in timesheet conflict checks.
type Status string

const (
	StatusPending  Status = "În așteptare"
	StatusApproved Status = "Aprobată"
	StatusRejected Status = "Respinsă"
)

type Leave struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       Type      `json:"type"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}
