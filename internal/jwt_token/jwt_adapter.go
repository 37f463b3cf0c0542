package jwttoken

import (
	authmw "qrgen/pkg/platform/middleware/auth"
)

// JWTServiceAdapter exposes JWTService through the narrow validator interface
// RequireAuth consumes, so the middleware never sees signing details.
type JWTServiceAdapter struct {
	service *JWTService
}

var _ authmw.JWTValidator = (*JWTServiceAdapter)(nil)

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{UserID: claims.UserID}, nil
}
