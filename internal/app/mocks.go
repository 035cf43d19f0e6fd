package app

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendStatusNotification(to, fullName, status, reason string) error {
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
