package dto

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=2,max=500"`
}

type BulkRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Action string   `json:"action" validate:"required,is-bulk-action"`
}

type BulkError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type BulkResponse struct {
	Updated int         `json:"updated"`
	Errors  []BulkError `json:"errors"`
}
