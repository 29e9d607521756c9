package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries identity information inside access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Staff    bool   `json:"staff"`
	jwt.RegisteredClaims
}

// AuthActor identifies the acting user for authorization decisions.
// Both the JWT claims (REST) and the session user (pages) convert into
// this shape so ownership checks live in one place.
type AuthActor struct {
	UserID   string
	Username string
	Staff    bool
}

// Actor converts claims to an AuthActor.
func (c *JWTClaims) Actor() *AuthActor {
	if c == nil {
		return nil
	}
	return &AuthActor{UserID: c.UserID, Username: c.Username, Staff: c.Staff}
}

// Actor converts a user row to an AuthActor.
func (u *User) Actor() *AuthActor {
	if u == nil {
		return nil
	}
	return &AuthActor{UserID: u.ID, Username: u.Username, Staff: u.Staff}
}
