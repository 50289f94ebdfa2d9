package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const IdentityTTL = time.Hour * 12

// IdentitySecret 与校园身份服务共享的签名密钥，main 里从环境变量覆盖
var IdentitySecret = []byte("secret-key")

// Claims 身份服务签发的 token 只携带用户 id，本服务不做认证，
// 只拿 user_id 去 membership 表做授权
type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueIdentityToken 本地开发和测试用的签发入口，线上 token 来自身份服务
func IssueIdentityToken(userID uint64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(IdentityTTL)),
			Subject:   "identity",
		},
	})
	return token.SignedString(IdentitySecret)
}

// ParseIdentityToken 校验并解析身份 token
func ParseIdentityToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return IdentitySecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}
