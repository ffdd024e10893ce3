package services

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppLink строит ссылку wa.me с текстом сообщения.
// Без номера WhatsApp предлагает выбрать контакт.
func WhatsAppLink(message, phone string) string {
	text := url.QueryEscape(message)
	text = strings.ReplaceAll(text, "+", "%20")

	phone = strings.TrimSpace(phone)
	if phone != "" {
		return fmt.Sprintf("%s%s?text=%s", whatsAppBaseURL, phone, text)
	}
	return fmt.Sprintf("%s?text=%s", whatsAppBaseURL, text)
}

// ShareMessage собирает текст для отправки водителю
func ShareMessage(prefix, truckPlate, driverName, link string) string {
	return fmt.Sprintf("%s\n\n🚛 Placa: %s\n👤 Motorista: %s\n\n%s",
		strings.TrimSpace(prefix), truckPlate, driverName, link)
}
