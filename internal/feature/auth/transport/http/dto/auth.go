// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/registroエンドポイントのリクエストボディを表します。
// 必須チェックはユースケース側で行い、エラーメッセージを統一します。
type RegisterReq struct {
	Username        string `json:"username"`
	Correo          string `json:"correo"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Telefono        string `json:"telefono"`
	Genero          string `json:"genero"`
}

// LoginReq は/loginと/admin-loginのリクエストボディです。
// Emailにはユーザー名も指定できます。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse はログイン成功時のレスポンスです。
type LoginResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// UserStatusResponse は/api/user-statusのレスポンスです。
type UserStatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
}
