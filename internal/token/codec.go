// Package token кодирует данные маршрута в ссылку и проверяет их при открытии.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"truck-route-system/internal/models"
)

// wireRecord схема записи в ссылке. Указатели отличают отсутствующее поле от нулевого.
// expiryDate и createdAt приходят из ссылок, выданных старой страницей проходной.
type wireRecord struct {
	ID                 *string `json:"id"`
	TruckPlate         *string `json:"truckPlate"`
	TruckModel         *string `json:"truckModel"`
	CompanyName        *string `json:"companyName"`
	DriverName         *string `json:"driverName"`
	DriverDocument     *string `json:"driverDocument"`
	EntryGateID        *int    `json:"entryGateId"`
	DestinationDockID  *int    `json:"destinationDockId"`
	ExpiryHours        *int    `json:"expiryHours"`
	ExpiryTimestamp    *int64  `json:"expiryTimestamp"`
	ExpiryDate         *int64  `json:"expiryDate"`
	CreatedAtTimestamp *int64  `json:"createdAtTimestamp"`
	CreatedAt          *int64  `json:"createdAt"`
}

func (w wireRecord) empty() bool {
	return w.ID == nil && w.TruckPlate == nil && w.TruckModel == nil &&
		w.CompanyName == nil && w.DriverName == nil && w.DriverDocument == nil &&
		w.EntryGateID == nil && w.DestinationDockID == nil && w.ExpiryHours == nil &&
		w.ExpiryTimestamp == nil && w.ExpiryDate == nil &&
		w.CreatedAtTimestamp == nil && w.CreatedAt == nil
}

func (w wireRecord) toRequest() models.RouteRequest {
	var r models.RouteRequest
	setString(&r.ID, w.ID)
	setString(&r.TruckPlate, w.TruckPlate)
	setString(&r.TruckModel, w.TruckModel)
	setString(&r.CompanyName, w.CompanyName)
	setString(&r.DriverName, w.DriverName)
	setString(&r.DriverDocument, w.DriverDocument)
	setInt(&r.EntryGateID, w.EntryGateID)
	setInt(&r.DestinationDockID, w.DestinationDockID)
	setInt(&r.ExpiryHours, w.ExpiryHours)
	setInt64(&r.ExpiryTimestamp, w.ExpiryDate)
	setInt64(&r.ExpiryTimestamp, w.ExpiryTimestamp)
	setInt64(&r.CreatedAtTimestamp, w.CreatedAt)
	setInt64(&r.CreatedAtTimestamp, w.CreatedAtTimestamp)
	return r
}

// Encode сериализует запись в JSON и превращает в base64 без паддинга,
// пригодный для параметра data в URL
func Encode(r models.RouteRequest) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", &EncodingError{Err: err}
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode восстанавливает запись из ссылки. Принимает URL-safe и стандартный алфавит,
// с паддингом и без; пробел трактуется как потерянный в query string плюс.
func Decode(token string) (models.RouteRequest, error) {
	normalized := normalize(token)
	if normalized == "" {
		return models.RouteRequest{}, &DecodingError{Reason: "empty token"}
	}

	data, err := base64.RawURLEncoding.DecodeString(normalized)
	if err != nil {
		return models.RouteRequest{}, &DecodingError{Reason: "invalid base64", Err: err}
	}

	if !utf8.Valid(data) {
		return models.RouteRequest{}, &DecodingError{Reason: "payload is not UTF-8 text"}
	}

	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.RouteRequest{}, &DecodingError{Reason: "payload is not a route record", Err: err}
	}

	if wire.empty() {
		return models.RouteRequest{}, &DecodingError{Reason: "payload has no route fields"}
	}

	return wire.toRequest(), nil
}

func normalize(token string) string {
	s := strings.TrimSpace(token)
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return strings.TrimRight(s, "=")
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setInt64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}
