package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/teamkudos/awards-backend/internal/config"
	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerKey is the gin context key under which the verified caller is stored
const callerKey = "caller"

// JWTAuthMiddleware validates the bearer token and stores the verified
// identity triple (user id, roles, team ids) in the request context. This
// is the resolveCaller boundary: downstream code trusts the triple for the
// duration of one request.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.JWT.Secret == "" {
		log.Fatal("[FATAL] JWTAuthMiddleware: JWT secret is not configured")
	}
	jwtSecret := []byte(cfg.JWT.Secret)

	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}
		tokenString := authHeader[len(bearerSchema):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		caller, err := callerFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole rejects requests whose caller lacks the given role
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok || !caller.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s role required", role)})
			return
		}
		c.Next()
	}
}

// CallerFromContext returns the verified caller stored by JWTAuthMiddleware
func CallerFromContext(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}

func callerFromClaims(claims jwt.MapClaims) (models.Caller, error) {
	sub, _ := claims["sub"].(string)
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return models.Caller{}, fmt.Errorf("invalid subject claim: %w", err)
	}

	caller := models.Caller{UserID: userID}

	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				caller.Roles = append(caller.Roles, models.Role(s))
			}
		}
	}
	if rawTeams, ok := claims["teams"].([]interface{}); ok {
		for _, t := range rawTeams {
			s, ok := t.(string)
			if !ok {
				continue
			}
			teamID, err := primitive.ObjectIDFromHex(s)
			if err != nil {
				continue
			}
			caller.TeamIDs = append(caller.TeamIDs, teamID)
		}
	}
	return caller, nil
}
