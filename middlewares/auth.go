package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contendo/utils"
)

// AuthMiddleware verifies the bearer access token against Cognito and sets
// userId and userEmail in the request context.
func AuthMiddleware(verifier *utils.CognitoVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Falta el token de autorización."})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de token inválido."})
			c.Abort()
			return
		}

		userID, email, err := verifier.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido o caducado."})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("userEmail", email)
		c.Next()
	}
}
