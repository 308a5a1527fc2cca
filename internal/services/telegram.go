package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService pushes order notifications to the barman chat.
type TelegramService struct {
	botToken     string
	barmanChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, barmanChatID string) *TelegramService {
	return &TelegramService{
		botToken:     botToken,
		barmanChatID: barmanChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToBarman sends a message to the barman chat.
func (s *TelegramService) SendToBarman(text string) error {
	if s.barmanChatID == "" {
		log.Println("[Telegram] Barman chat ID not configured")
		return nil
	}
	return s.SendMessage(s.barmanChatID, text)
}

// OrderNotification contains order data for a Telegram notification.
type OrderNotification struct {
	Drink      string
	Size       string
	Ice        bool
	Strength   string
	PickupCode string
	UserName   string
	UserPhone  string
}

// NotifyNewOrder tells the barman chat about a freshly placed order.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.barmanChatID == "" {
		return nil
	}

	ice := "cu gheață"
	if !order.Ice {
		ice = "fără gheață"
	}

	details := fmt.Sprintf("%s, %s", order.Size, ice)
	if order.Strength != "" {
		details += ", " + order.Strength
	}

	message := fmt.Sprintf(`<b>🍹 COMANDĂ NOUĂ!</b>
<b>Băutură:</b> %s (%s)
<b>Cod ridicare:</b> <code>%s</code>
<b>Client:</b> %s
<b>Telefon:</b> %s`,
		order.Drink,
		details,
		order.PickupCode,
		order.UserName,
		order.UserPhone,
	)

	return s.SendToBarman(strings.TrimSpace(message))
}

// NotifyOrderReady tells the barman chat that an order was marked ready.
func (s *TelegramService) NotifyOrderReady(drink, pickupCode string) error {
	if s.barmanChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>✅ COMANDĂ GATA</b>
<b>Băutură:</b> %s
<b>Cod ridicare:</b> <code>%s</code>`,
		drink,
		pickupCode,
	)

	return s.SendToBarman(strings.TrimSpace(message))
}
