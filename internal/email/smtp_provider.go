package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх SMTP
type SMTPProvider struct {
	config Config
	dialer *gomail.Dialer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config Config) *SMTPProvider {
	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Validate проверяет конфигурацию провайдера
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if p.config.Port == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendStatusNotification отправляет письмо о смене статуса заявки
func (p *SMTPProvider) SendStatusNotification(to, fullName, status, reason string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)

	switch status {
	case "APPROVED":
		m.SetHeader("Subject", "Ваша заявка одобрена")
		m.SetBody("text/plain", fmt.Sprintf(
			"%s, ваша заявка на детский праздник одобрена. Ждем вас!", fullName))
	case "REJECTED":
		m.SetHeader("Subject", "Ваша заявка отклонена")
		m.SetBody("text/plain", fmt.Sprintf(
			"%s, к сожалению, ваша заявка отклонена. Причина: %s", fullName, reason))
	default:
		m.SetHeader("Subject", "Статус вашей заявки изменен")
		m.SetBody("text/plain", fmt.Sprintf(
			"%s, статус вашей заявки: %s", fullName, status))
	}

	return p.dialer.DialAndSend(m)
}
