package token

import "fmt"

// DecodingError ссылка не раскодируется: неверный base64 или это не запись маршрута
type DecodingError struct {
	Reason string
	Err    error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode route token: %s: %v", e.Reason, e.Err)
	}
	return "decode route token: " + e.Reason
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// EncodingError запись маршрута не сериализуется
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode route token: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
