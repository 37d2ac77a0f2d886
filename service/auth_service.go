package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthDisabled 未配置签名密钥
var ErrAuthDisabled = errors.New("auth: jwt secret not configured")

// JWTClaims 访问本服务API的令牌声明
type JWTClaims struct {
	Client string `json:"client"` // 调用方标识，如机器人实例名
	jwt.RegisteredClaims
}

// AuthService 校验调用本服务API的令牌
// 只负责本服务自身的访问控制，与上游API密钥无关
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService 创建认证服务，secret为空时认证关闭
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// Enabled 是否启用了令牌校验
func (s *AuthService) Enabled() bool {
	return s != nil && len(s.jwtSecret) > 0
}

// GenerateToken 为调用方签发令牌
func (s *AuthService) GenerateToken(client string, ttl time.Duration) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAuthDisabled
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &JWTClaims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken 校验令牌并返回声明
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("无效的令牌")
}
