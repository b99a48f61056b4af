package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims describes the identity carried by an access token
type Claims struct {
	UserID       string
	Email        string
	IsAdmin      bool     // platform administrator, may manage every tenant
	AdminTenants []string // tenants the user administers
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	adminTenants := c.AdminTenants
	if adminTenants == nil {
		adminTenants = []string{}
	}

	claims := map[string]interface{}{
		"user_id":       c.UserID,
		"email":         c.Email,
		"is_admin":      c.IsAdmin,
		"admin_tenants": adminTenants,
		"type":          "access",
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
