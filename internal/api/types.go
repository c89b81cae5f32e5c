// Package api はHTTPレスポンスの共通型とエラーからステータスへのマッピングを提供します。
package api

// ErrorResponse は単一メッセージのエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse はフィールドごとのバリデーションエラーを返します。
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse carries a short status message.
type MessageResponse struct {
	Message string `json:"message"`
}
