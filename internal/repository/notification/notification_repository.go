package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type MailConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
	SenderEmail       string
	SenderName        string
}

type MailRepository struct {
	mailConfig MailConfig
}

func NewMailRepository(cfg MailConfig) *MailRepository {
	return &MailRepository{
		cfg,
	}
}

type payloadSendEmail struct {
	Messages []message `json:"Messages"`
}

type party struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type message struct {
	From     party   `json:"From"`
	To       []party `json:"To"`
	Subject  string  `json:"Subject"`
	TextPart string  `json:"TextPart"`
	HTMLPart string  `json:"HTMLPart"`
}

func (r MailRepository) SendEmail(toName, toEmail, subject, body string) (err error) {
	url := r.mailConfig.BaseURL + "/v3.1/send"

	payload := payloadSendEmail{
		Messages: []message{
			{
				From: party{
					Email: r.mailConfig.SenderEmail,
					Name:  r.mailConfig.SenderName,
				},
				To: []party{
					{Email: toEmail, Name: toName},
				},
				Subject:  subject,
				TextPart: body,
				HTMLPart: body,
			},
		},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")
	req.SetBasicAuth(r.mailConfig.BasicAuthUsername, r.mailConfig.BasicAuthPassword)

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mail provider returned status %d", res.StatusCode)
	}

	return nil
}
