// @title           kidsfest API
// @version         1.0
// @description     API приема заявок на детский праздник (публичная форма + админка).
// @contact.name    Отдел поддержки
// @contact.email   support@company.com
// @host            localhost:4000
// @BasePath        /

package main

import "kidsfest_backend/internal/app"

func main() {
	app.Run()
}
