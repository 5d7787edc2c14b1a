package models

// Requirements is the descriptive staffing document attached to a booking.
// It is never checked against the resources actually assigned.
type Requirements struct {
	People    []PersonRequirement    `json:"people,omitempty"`
	Vehicles  []VehicleRequirement   `json:"vehicles,omitempty"`
	Equipment []EquipmentRequirement `json:"equipment,omitempty"`
}

type PersonRequirement struct {
	Role           *string  `json:"role,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Quantity       int      `json:"quantity"`
}

type VehicleRequirement struct {
	Type        *string  `json:"type,omitempty"`
	MinCapacity *float64 `json:"min_capacity,omitempty"`
	Quantity    int      `json:"quantity"`
}

type EquipmentRequirement struct {
	Type         *string `json:"type,omitempty"`
	MinCondition *string `json:"min_condition,omitempty"`
	Quantity     int     `json:"quantity"`
}

// IsEmpty reports whether the document carries no requirement entries.
func (r Requirements) IsEmpty() bool {
	return len(r.People) == 0 && len(r.Vehicles) == 0 && len(r.Equipment) == 0
}
