// file: internals/features/notifications/service/notifications_service.go
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"time"
)

// Semua pengiriman di sini best-effort: gagal dicatat, tidak pernah
// mengubah state caller atau menggagalkan registrasi.

/* =========================
   Email tiket (SMTP)
   ========================= */

type SMTPTicketMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPTicketMailer(host, port, username, password, from string) *SMTPTicketMailer {
	return &SMTPTicketMailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (m *SMTPTicketMailer) SendTicket(toEmail, toName, ticketID, eventTitle, qrRef string) error {
	if m.Host == "" {
		return fmt.Errorf("SMTP_HOST kosong, email tiket dilewati")
	}

	subject := fmt.Sprintf("Tiket %s — %s", eventTitle, ticketID)
	body := fmt.Sprintf(
		"Halo %s,\r\n\r\n"+
			"Registrasi kamu untuk %s berhasil!\r\n"+
			"Ticket ID: %s\r\n"+
			"QR tiket: %s\r\n\r\n"+
			"Tunjukkan QR ini saat check-in.\r\n",
		toName, eventTitle, ticketID, qrRef,
	)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.From, toEmail, subject, body))

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{toEmail}, msg)
}

/* =========================
   Webhook pengumuman (Discord-style)
   ========================= */

type AnnouncementWebhook struct {
	URL    string
	Client *http.Client
}

func NewAnnouncementWebhook(url string) *AnnouncementWebhook {
	return &AnnouncementWebhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *AnnouncementWebhook) AnnounceEventPublished(eventTitle, organizerName string, startDate time.Time) error {
	if w.URL == "" {
		return fmt.Errorf("ANNOUNCEMENT_WEBHOOK_URL kosong, pengumuman dilewati")
	}

	payload := map[string]any{
		"content": fmt.Sprintf("📣 Event baru dipublish: **%s** oleh %s — mulai %s",
			eventTitle, organizerName, startDate.Format("02 Jan 2006 15:04")),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook balas status %d", resp.StatusCode)
	}
	return nil
}

// DispatchAnnouncement: fire-and-forget di goroutine sendiri.
func DispatchAnnouncement(w *AnnouncementWebhook, eventTitle, organizerName string, startDate time.Time) {
	go func() {
		if err := w.AnnounceEventPublished(eventTitle, organizerName, startDate); err != nil {
			log.Printf("[WARN] pengumuman event %q gagal: %v", eventTitle, err)
		}
	}()
}
