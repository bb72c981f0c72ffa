package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xianlu/trips/acl"
	"github.com/xianlu/trips/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextAdminKey stores the admin capability flag inside Gin context.
	ContextAdminKey = "is_admin"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		claims, errCode, errMsg := claimsFromHeader(authHeader)
		if claims == nil {
			utils.Error(ctx, http.StatusUnauthorized, errCode, errMsg)
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextAdminKey, claims.Admin)
		ctx.Next()
	}
}

// OptionalAuth resolves JWT claims when a bearer token is present but never
// rejects the request; anonymous requests proceed with no identity set.
// Read-only endpoints use it so owners can see their private resources.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader != "" {
			if claims, _, _ := claimsFromHeader(authHeader); claims != nil {
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextUsernameKey, claims.Username)
				ctx.Set(ContextAdminKey, claims.Admin)
			}
		}
		ctx.Next()
	}
}

func claimsFromHeader(authHeader string) (*utils.Claims, int, string) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, 40102, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, 40103, "empty bearer token"
	}

	if utils.IsTokenBlacklisted(tokenString) {
		return nil, 40104, "token revoked"
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return nil, 40105, "invalid token"
	}
	return claims, 0, ""
}

// CurrentActor builds the capability snapshot for the request; the zero
// Actor represents an anonymous requester.
func CurrentActor(ctx *gin.Context) acl.Actor {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return acl.Actor{}
	}
	userID, ok := value.(uint)
	if !ok {
		return acl.Actor{}
	}
	username, _ := ctx.Get(ContextUsernameKey)
	uname, _ := username.(string)
	return acl.Actor{
		UserID:        userID,
		Username:      uname,
		Authenticated: true,
		Admin:         ctx.GetBool(ContextAdminKey),
	}
}
