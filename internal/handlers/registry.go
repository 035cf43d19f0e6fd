package handlers

// AppHandlers - контейнер всех хендлеров приложения
type AppHandlers struct {
	ApplicationHandler *ApplicationHandler
	AdminHandler       *AdminHandler
}
