package api

import "errors"

// LoginRequest is the body of POST /api/auth/public/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the credential issued on login.
type LoginResponse struct {
	Token    string
	Username string
}

// loginBody accepts the token field names the backend has used.
type loginBody struct {
	Token       string `json:"token"`
	JWTToken    string `json:"jwtToken"`
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
}

func (b *loginBody) validate() error {
	if b.token() == "" {
		return errors.New("login response has no token")
	}
	return nil
}

func (b loginBody) token() string {
	switch {
	case b.Token != "":
		return b.Token
	case b.JWTToken != "":
		return b.JWTToken
	default:
		return b.AccessToken
	}
}

// RegisterRequest is the body of POST /api/auth/public/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type shortenRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// URLMapping is a shortened link as the backend reports it.
type URLMapping struct {
	ID          int64  `json:"id"`
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	ClickCount  int64  `json:"clickCount"`
	CreatedDate string `json:"createdDate"`
	Username    string `json:"username"`
}

// ClickEvent is one day of clicks for a single link.
type ClickEvent struct {
	ClickDate string `json:"clickDate"`
	Count     int64  `json:"count"`
}
