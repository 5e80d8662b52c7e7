// Package auth authentifie le compte administrateur unique de l'application.
// Pas de table d'utilisateurs : le login et le hash bcrypt du mot de passe
// viennent de la configuration.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/pkg/jwt"
)

// Config paramètres du compte administrateur et de l'émission des tokens.
type Config struct {
	AdminLogin        string
	AdminPasswordHash string // hash bcrypt
	JWTSecret         string
	JWTIssuer         string
	JWTExpMinutes     int
}

// UseCase émission de tokens pour le compte administrateur.
type UseCase struct {
	cfg Config
}

func NewUseCase(cfg Config) *UseCase {
	return &UseCase{cfg: cfg}
}

// Login vérifie le couple login/mot de passe contre la configuration et émet
// un token JWT. Même erreur pour un login inconnu et un mot de passe faux.
func (uc *UseCase) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Login != uc.cfg.AdminLogin {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.cfg.AdminPasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.cfg.JWTSecret, in.Login, uc.cfg.JWTIssuer, uc.cfg.JWTExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: uc.cfg.JWTExpMinutes * 60}, nil
}
