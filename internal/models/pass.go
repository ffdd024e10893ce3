package models

import "time"

// Pass представляет выданный пропуск в реестре.
// Ссылка самодостаточна, реестр нужен проходной для справок и аудита.
type Pass struct {
	ID                string     `json:"id" db:"id"`
	TruckPlate        string     `json:"truckPlate" db:"truck_plate"`
	TruckModel        string     `json:"truckModel" db:"truck_model"`
	CompanyName       string     `json:"companyName" db:"company_name"`
	DriverName        string     `json:"driverName" db:"driver_name"`
	DriverDocument    string     `json:"driverDocument" db:"driver_document"`
	EntryGateID       int        `json:"entryGateId" db:"entry_gate_id"`
	DestinationDockID int        `json:"destinationDockId" db:"destination_dock_id"`
	ExpiryHours       int        `json:"expiryHours" db:"expiry_hours"`
	Token             string     `json:"token" db:"token"`
	URL               string     `json:"url" db:"url"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt         time.Time  `json:"expiresAt" db:"expires_at"`
	OpenCount         int        `json:"openCount" db:"open_count"`
	LastOpenedAt      *time.Time `json:"lastOpenedAt,omitempty" db:"last_opened_at"`
}

// NewPass собирает запись реестра из выданной ссылки
func NewPass(issued IssuedRoute) Pass {
	r := issued.Request
	return Pass{
		ID:                r.ID,
		TruckPlate:        r.TruckPlate,
		TruckModel:        r.TruckModel,
		CompanyName:       r.CompanyName,
		DriverName:        r.DriverName,
		DriverDocument:    r.DriverDocument,
		EntryGateID:       r.EntryGateID,
		DestinationDockID: r.DestinationDockID,
		ExpiryHours:       r.ExpiryHours,
		Token:             issued.Token,
		URL:               issued.URL,
		CreatedAt:         r.CreatedAt().UTC(),
		ExpiresAt:         r.ExpiresAt().UTC(),
	}
}
