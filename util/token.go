package util

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long a doctor token stays valid after login.
const TokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid token")

var (
	jwtSecretByte = []byte(os.Getenv("JWTSECRET"))
	jwtMutex      sync.RWMutex
)

// SetJWTSecret allows tests or runtime code to update the JWT secret used
// for token signing. This function is thread-safe.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

// DoctorClaims is the signed payload issued on login.
type DoctorClaims struct {
	DoctorID string `json:"doctorId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateDoctorToken signs an HS256 token for the doctor that expires TokenTTL after now.
func GenerateDoctorToken(doctorID, email string, now time.Time) (string, error) {
	secret := GetJWTSecretByte()
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	claims := DoctorClaims{
		DoctorID: doctorID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseDoctorToken verifies the signature and expiry of tokenString and returns its claims.
func ParseDoctorToken(tokenString string) (*DoctorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DoctorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*DoctorClaims)
	if !ok || !token.Valid || claims.DoctorID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
