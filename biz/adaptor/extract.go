package adaptor

import (
	"context"
	"errors"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v4"
)

const hertzContext = "hertz_context"

func InjectContext(ctx context.Context, c *app.RequestContext) context.Context {
	return context.WithValue(ctx, hertzContext, c)
}

func ExtractContext(ctx context.Context) (*app.RequestContext, error) {
	c, ok := ctx.Value(hertzContext).(*app.RequestContext)
	if !ok {
		return nil, errors.New("hertz context not found")
	}
	return c, nil
}

// ExtractAdmin 校验请求头中的管理 token
func ExtractAdmin(ctx context.Context, auth config.Auth) (ok bool) {
	var err error
	defer func() {
		if err != nil {
			log.CtxInfo(ctx, "extract admin fail, err=%v", err)
		}
	}()
	c, err := ExtractContext(ctx)
	if err != nil {
		return false
	}
	tokenString := strings.TrimPrefix(string(c.GetHeader(consts.Authorization)), consts.Bearer)
	if tokenString == "" {
		err = errors.New("token is empty")
		return false
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(auth.SecretKey), nil
	})
	if err != nil {
		return false
	}
	if !token.Valid {
		err = errors.New("token is not valid")
		return false
	}
	claims, _ := token.Claims.(jwt.MapClaims)
	if role, _ := claims["role"].(string); role != consts.RoleTeacher {
		err = errors.New("token role mismatch")
		return false
	}
	return true
}

// GenerateJwtToken 生成管理 token
func GenerateJwtToken(auth config.Auth) (string, int64, error) {
	iat := time.Now().Unix()
	exp := iat + auth.AccessExpire
	claims := make(jwt.MapClaims)
	claims["exp"] = exp
	claims["iat"] = iat
	claims["role"] = consts.RoleTeacher
	token := jwt.New(jwt.SigningMethodHS256)
	token.Claims = claims
	tokenString, err := token.SignedString([]byte(auth.SecretKey))
	if err != nil {
		return "", 0, err
	}
	return tokenString, exp, nil
}
