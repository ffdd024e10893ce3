package token

import (
	"math"
	"time"

	"truck-route-system/internal/directory"
	"truck-route-system/internal/models"
)

// Validator проверяет раскодированные записи против справочников.
// Часы читаются в момент проверки, а не в момент декодирования.
type Validator struct {
	dir *directory.Directory
	now func() time.Time
}

// NewValidator создает валидатор с системными часами
func NewValidator(dir *directory.Directory) *Validator {
	return &Validator{dir: dir, now: time.Now}
}

// WithClock возвращает копию валидатора с другими часами
func (v *Validator) WithClock(now func() time.Time) *Validator {
	return &Validator{dir: v.dir, now: now}
}

// Validate проверяет запись на текущий момент
func (v *Validator) Validate(r models.RouteRequest) models.Verdict {
	return v.ValidateAt(r, v.now())
}

// ValidateAt проверяет запись на момент now. Порядок проверок фиксирован:
// обязательные поля, срок действия, проходная, дока. Возвращается первая причина.
func (v *Validator) ValidateAt(r models.RouteRequest, now time.Time) models.Verdict {
	if field := MissingField(r); field != "" {
		return models.Verdict{Reason: models.ReasonMissingField, MissingField: field}
	}

	if r.IsExpired(now) {
		return models.Verdict{Reason: models.ReasonExpired}
	}

	gate, ok := directory.FindByID(v.dir.EntryGates, r.EntryGateID)
	if !ok {
		return models.Verdict{Reason: models.ReasonUnknownGate}
	}

	dock, ok := directory.FindByID(v.dir.Docks, r.DestinationDockID)
	if !ok {
		return models.Verdict{Reason: models.ReasonUnknownDock}
	}

	return models.Verdict{
		Valid:                   true,
		ResolvedEntryGate:       &gate,
		ResolvedDestinationDock: &dock,
	}
}

// MissingField возвращает имя первого отсутствующего обязательного поля.
// Нулевое значение считается отсутствием: id справочников начинаются с 1.
func MissingField(r models.RouteRequest) string {
	switch {
	case r.ID == "":
		return "id"
	case r.TruckPlate == "":
		return "truckPlate"
	case r.DriverName == "":
		return "driverName"
	case r.EntryGateID == 0:
		return "entryGateId"
	case r.DestinationDockID == 0:
		return "destinationDockId"
	case r.ExpiryTimestamp == 0:
		return "expiryTimestamp"
	}
	return ""
}

// maxRemainingMillis наибольший остаток, который помещается в time.Duration
const maxRemainingMillis = math.MaxInt64 / int64(time.Millisecond)

// TimeRemaining возвращает время до истечения ссылки, не меньше нуля.
// Срок из далекого будущего ограничивается максимумом time.Duration.
func TimeRemaining(expiryTimestamp int64, now time.Time) time.Duration {
	nowMs := now.UnixMilli()
	if expiryTimestamp <= nowMs {
		return 0
	}
	if nowMs < 0 && expiryTimestamp > math.MaxInt64+nowMs {
		return time.Duration(maxRemainingMillis) * time.Millisecond
	}

	diff := expiryTimestamp - nowMs
	if diff > maxRemainingMillis {
		diff = maxRemainingMillis
	}
	return time.Duration(diff) * time.Millisecond
}
