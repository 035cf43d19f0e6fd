package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kidsfest_backend/internal/auth"
	"kidsfest_backend/internal/dto"
	"kidsfest_backend/internal/middleware"
	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/services"
	"kidsfest_backend/internal/types"
	"kidsfest_backend/internal/utils"
	"kidsfest_backend/pkg/apperrors"
)

// ============================================
// ADMIN HANDLER
// ============================================

type AdminHandler struct {
	*BaseHandler
	applicationService *services.ApplicationService
	moderationService  *services.ModerationService
	fileService        *services.FileService
	tokens             *auth.TokenManager

	adminUsername     string
	adminPasswordHash string
	maxPerPage        int
}

func NewAdminHandler(
	base *BaseHandler,
	applicationService *services.ApplicationService,
	moderationService *services.ModerationService,
	fileService *services.FileService,
	tokens *auth.TokenManager,
	adminUsername, adminPasswordHash string,
	maxPerPage int,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		moderationService:  moderationService,
		fileService:        fileService,
		tokens:             tokens,
		adminUsername:      adminUsername,
		adminPasswordHash:  adminPasswordHash,
		maxPerPage:         maxPerPage,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.POST("/auth/login", h.Login)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware(h.tokens))
		{
			protected.GET("/applications", h.List)
			protected.GET("/applications/:id", h.Detail)
			protected.POST("/applications/:id/approve", h.Approve)
			protected.POST("/applications/:id/reject", h.Reject)
			protected.POST("/applications/bulk", h.Bulk)

			protected.POST("/children/:id/approve", h.ApproveChild)
			protected.POST("/children/:id/reject", h.RejectChild)

			protected.GET("/files/:id", h.GetFile)
		}
	}
}

// Login - вход админа по статической паре логин/пароль
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if req.Username != h.adminUsername || !auth.CheckPasswordHash(req.Password, h.adminPasswordHash) {
		apperrors.HandleError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(req.Username)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, dto.AdminLoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// List - список заявок с фильтрами, сортировкой и пагинацией
func (h *AdminHandler) List(c *gin.Context) {
	page, perPage, ok := h.parsePagination(c)
	if !ok {
		return
	}

	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	response, err := h.applicationService.List(h.GetDB(c), filters, page, perPage)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) parsePagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidPagination)
		return 0, 0, false
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "1000"))
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidPagination)
		return 0, 0, false
	}

	if page < 1 || perPage < 1 || perPage > h.maxPerPage {
		apperrors.HandleError(c, apperrors.ErrInvalidPagination)
		return 0, 0, false
	}
	return page, perPage, true
}

func (h *AdminHandler) parseFilters(c *gin.Context) (types.ApplicationFilters, bool) {
	var filters types.ApplicationFilters

	if v := c.Query("status"); v != "" {
		filters.Status = &v
	}
	if v := c.Query("is_investor"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("invalid is_investor value"))
			return filters, false
		}
		filters.IsInvestor = &b
	}
	if v := c.Query("object"); v != "" {
		filters.Object = &v
	}
	if v := c.Query("phone_search"); v != "" {
		filters.PhoneSearch = &v
	}
	if v := c.Query("email"); v != "" {
		normalized := utils.NormEmail(v)
		filters.Email = &normalized
	}
	if v := c.Query("created_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("invalid created_from date"))
			return filters, false
		}
		filters.CreatedFrom = &t
	}
	if v := c.Query("created_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("invalid created_to date"))
			return filters, false
		}
		filters.CreatedTo = &t
	}

	return filters, true
}

// parseDate принимает ISO-дату или полный timestamp
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// Detail - полная заявка с детьми и ссылками на документы
func (h *AdminHandler) Detail(c *gin.Context) {
	detail, err := h.applicationService.Detail(h.GetDB(c), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Approve - одобрение заявки целиком
func (h *AdminHandler) Approve(c *gin.Context) {
	err := h.moderationService.Approve(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Reject - отклонение заявки с обязательной причиной
func (h *AdminHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.moderationService.Reject(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetActor(c), req.Reason)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Bulk - массовое действие над заявками, best-effort
func (h *AdminHandler) Bulk(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.Bulk(
		c.Request.Context(), h.GetDB(c),
		req.IDs, models.BulkAction(req.Action), middleware.GetActor(c),
	)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ApproveChild - одобрение документа ребенка с пересчетом статуса заявки
func (h *AdminHandler) ApproveChild(c *gin.Context) {
	err := h.moderationService.ApproveChild(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RejectChild - отклонение документа ребенка с пересчетом статуса заявки
func (h *AdminHandler) RejectChild(c *gin.Context) {
	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.moderationService.RejectChild(c.Request.Context(), h.GetDB(c), c.Param("id"), middleware.GetActor(c), req.Reason)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetFile - выдача сохраненного документа с исходным именем и MIME-типом
func (h *AdminHandler) GetFile(c *gin.Context) {
	meta, reader, err := h.fileService.Fetch(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+meta.OriginalName+`"`)
	c.DataFromReader(http.StatusOK, meta.Size, meta.Mime, reader, nil)
}
