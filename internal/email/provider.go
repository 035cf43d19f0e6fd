package email

// Provider определяет интерфейс для отправки уведомлений заявителям
type Provider interface {
	// SendStatusNotification отправляет письмо о смене статуса заявки.
	// reason передается только при отклонении.
	SendStatusNotification(to, fullName, status, reason string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// Config содержит конфигурацию SMTP сервера
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
