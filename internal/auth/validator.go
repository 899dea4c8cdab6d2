package auth

import "docroute/internal/platform/middleware"

// Validator adapts the token service to the middleware contract.
type Validator struct {
	tokens *TokenService
}

func NewValidator(tokens *TokenService) *Validator {
	return &Validator{tokens: tokens}
}

func (v *Validator) Validate(tokenString string) (middleware.ClaimsView, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return middleware.ClaimsView{}, err
	}
	return middleware.ClaimsView{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		Division: claims.Division,
	}, nil
}
