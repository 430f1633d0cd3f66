package jwttoken

import "tripmatch/pkg/platform/middleware/auth"

// MiddlewareAdapter exposes a JWTService as an auth.TokenValidator.
type MiddlewareAdapter struct {
	service *JWTService
}

func NewMiddlewareAdapter(service *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{UserID: claims.Subject, Role: claims.Role}, nil
}
