package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidsfest_backend/internal/dto"
	"kidsfest_backend/internal/services"
	"kidsfest_backend/pkg/apperrors"
)

// ============================================
// PUBLIC APPLICATION HANDLER
// ============================================

type ApplicationHandler struct {
	*BaseHandler
	applicationService *services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/public")
	{
		public.POST("/applications", h.Submit)
		public.GET("/check-registration", h.CheckRegistration)
	}
}

// Submit - подача заявки: поле payload с JSON плюс файлы детей.
// Поддерживаются два формата формы: старый files[] (один файл на ребенка)
// и новый birth_certs[] + опциональный second_docs[].
func (h *ApplicationHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	payloadStr := c.PostForm("payload")
	if payloadStr == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("payload field is required"))
		return
	}

	var payload dto.ApplicationCreate
	if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid payload JSON"))
		return
	}

	if !h.validateStruct(c, &payload) {
		return
	}

	form := c.Request.MultipartForm
	legacy := form.File["files"]
	primary := form.File["birth_certs"]
	secondary := form.File["second_docs"]

	response, err := h.applicationService.Submit(c.Request.Context(), h.GetDB(c), &payload, legacy, primary, secondary)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// CheckRegistration - проверка наличия заявки по email
func (h *ApplicationHandler) CheckRegistration(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("email query parameter is required"))
		return
	}

	response, err := h.applicationService.CheckRegistration(h.GetDB(c), email)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
