package models

import "time"

// MillisPerHour количество миллисекунд в часе
const MillisPerHour int64 = 3_600_000

// RouteRequest представляет данные маршрута, зашитые в ссылку для водителя.
// Создается один раз при выдаче и сразу сериализуется, после этого не меняется.
type RouteRequest struct {
	ID                 string `json:"id"`
	TruckPlate         string `json:"truckPlate"`
	TruckModel         string `json:"truckModel"`
	CompanyName        string `json:"companyName"`
	DriverName         string `json:"driverName"`
	DriverDocument     string `json:"driverDocument"`
	EntryGateID        int    `json:"entryGateId"`
	DestinationDockID  int    `json:"destinationDockId"`
	ExpiryHours        int    `json:"expiryHours"`
	ExpiryTimestamp    int64  `json:"expiryTimestamp"`
	CreatedAtTimestamp int64  `json:"createdAtTimestamp"`
}

// ExpiresAt возвращает момент истечения ссылки
func (r RouteRequest) ExpiresAt() time.Time {
	return time.UnixMilli(r.ExpiryTimestamp)
}

// CreatedAt возвращает момент выдачи ссылки
func (r RouteRequest) CreatedAt() time.Time {
	return time.UnixMilli(r.CreatedAtTimestamp)
}

// IsExpired проверяет, истекла ли ссылка к моменту now
func (r RouteRequest) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= r.ExpiryTimestamp
}

// RouteForm представляет данные формы проходной
type RouteForm struct {
	TruckPlate        string `json:"truckPlate"`
	TruckModel        string `json:"truckModel"`
	CompanyName       string `json:"companyName"`
	DriverName        string `json:"driverName"`
	DriverDocument    string `json:"driverDocument"`
	EntryGateID       int    `json:"entryGateId"`
	DestinationDockID int    `json:"destinationDockId"`
	ExpiryHours       int    `json:"expiryHours"`
}
