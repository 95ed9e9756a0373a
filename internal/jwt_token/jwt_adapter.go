package jwttoken

import (
	authmw "tradeverify/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims maps token claims to the auth middleware's claim view.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Subject: claims.Subject,
		Scopes:  claims.Scope,
		JTI:     claims.ID,
	}
}

// JWTServiceAdapter lets JWTService satisfy authmw.JWTValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
