package adaptor

import (
	"context"
	"homework-wall/biz/infrastructure/config"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v4"
)

func ctxWithAuthorization(header string) context.Context {
	c := app.NewContext(0)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return InjectContext(context.Background(), c)
}

func TestExtractAdmin(t *testing.T) {
	auth := config.Auth{SecretKey: "secret", AccessExpire: 60}
	token, exp, err := GenerateJwtToken(auth)
	if err != nil {
		t.Fatalf("GenerateJwtToken: %v", err)
	}
	if exp == 0 {
		t.Fatalf("GenerateJwtToken: empty expiry")
	}

	other, _, _ := GenerateJwtToken(config.Auth{SecretKey: "other", AccessExpire: 60})
	expired, _, _ := GenerateJwtToken(config.Auth{SecretKey: "secret", AccessExpire: -60})
	student := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "student"})
	studentToken, _ := student.SignedString([]byte("secret"))

	cases := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"valid", ctxWithAuthorization("Bearer " + token), true},
		{"no header", ctxWithAuthorization(""), false},
		{"wrong secret", ctxWithAuthorization("Bearer " + other), false},
		{"expired", ctxWithAuthorization("Bearer " + expired), false},
		{"wrong role", ctxWithAuthorization("Bearer " + studentToken), false},
		{"no hertz context", context.Background(), false},
	}
	for _, c := range cases {
		if got := ExtractAdmin(c.ctx, auth); got != c.want {
			t.Fatalf("%s: want=%v got=%v", c.name, c.want, got)
		}
	}
}
