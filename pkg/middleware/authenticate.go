package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"fixengine/pkg/logs"
	"fixengine/pkg/model"
)

// Authenticate requires an HS256 bearer token signed with secret. An empty
// secret leaves the routes open.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		claims, err := parseToken(c.GetHeader("Authorization"), []byte(secret))
		if err != nil {
			logs.Log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("unauthorized admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, &model.Response{
				Error:   true,
				Message: err.Error(),
			})
			return
		}
		if sub, ok := claims["sub"].(string); ok {
			c.Set("operator", sub)
		}
		c.Next()
	}
}

func parseToken(authorization string, key []byte) (jwt.MapClaims, error) {
	tokenString := strings.TrimPrefix(authorization, "Bearer ")
	if tokenString == "" || tokenString == authorization {
		return nil, errors.New("missing bearer token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errors.New("token is expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
