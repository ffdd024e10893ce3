package models

// VerdictReason причина, по которой ссылка признана недействительной
type VerdictReason string

const (
	ReasonMissingField VerdictReason = "MISSING_FIELD"
	ReasonExpired      VerdictReason = "EXPIRED"
	ReasonUnknownGate  VerdictReason = "UNKNOWN_GATE"
	ReasonUnknownDock  VerdictReason = "UNKNOWN_DOCK"
)

// Verdict результат проверки раскодированной ссылки. Не хранится, пересчитывается каждый раз.
type Verdict struct {
	Valid                   bool          `json:"valid"`
	Reason                  VerdictReason `json:"reason,omitempty"`
	MissingField            string        `json:"missingField,omitempty"`
	ResolvedEntryGate       *Location     `json:"resolvedEntryGate,omitempty"`
	ResolvedDestinationDock *Location     `json:"resolvedDestinationDock,omitempty"`
}

// OpenStatus состояние страницы водителя
type OpenStatus string

const (
	OpenStatusValid   OpenStatus = "valid"
	OpenStatusExpired OpenStatus = "expired"
	OpenStatusInvalid OpenStatus = "invalid"
)

// CountdownLevel уровень срочности обратного отсчета
type CountdownLevel string

const (
	CountdownNormal  CountdownLevel = "normal"
	CountdownWarning CountdownLevel = "warning"
	CountdownDanger  CountdownLevel = "danger"
	CountdownExpired CountdownLevel = "expired"
)

// RouteEstimate оценка маршрута по прямой между проходной и докой
type RouteEstimate struct {
	DistanceMeters    float64 `json:"distanceMeters"`
	DurationSeconds   int     `json:"durationSeconds"`
	DistanceFormatted string  `json:"distance"`
	DurationFormatted string  `json:"duration"`
}

// OpenResult представляет ответ страницы водителя
type OpenResult struct {
	Status          OpenStatus     `json:"status"`
	Reason          VerdictReason  `json:"reason,omitempty"`
	Message         string         `json:"message"`
	Request         *RouteRequest  `json:"request,omitempty"`
	EntryGate       *Location      `json:"entryGate,omitempty"`
	DestinationDock *Location      `json:"destinationDock,omitempty"`
	RemainingMillis int64          `json:"remainingMillis"`
	Remaining       string         `json:"remaining,omitempty"`
	CountdownLevel  CountdownLevel `json:"countdownLevel,omitempty"`
	Estimate        *RouteEstimate `json:"estimate,omitempty"`
}

// IssuedRoute представляет результат выдачи ссылки на проходной
type IssuedRoute struct {
	Request     RouteRequest `json:"request"`
	Token       string       `json:"token"`
	URL         string       `json:"url"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

// RecentCode запись истории выданных ссылок
type RecentCode struct {
	RouteRequest
	URL             string    `json:"url"`
	EntryGate       *Location `json:"entryGate,omitempty"`
	DestinationDock *Location `json:"destinationDock,omitempty"`
	Expired         bool      `json:"expired"`
	Remaining       string    `json:"remaining,omitempty"`
}
