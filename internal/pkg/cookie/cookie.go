package cookie

import "github.com/gin-gonic/gin"

// AccessTokenName is shared with browser clients that keep the token in a
// cookie instead of an Authorization header.
const AccessTokenName = "access_token"

// AccessToken returns the token cookie value, or "" when absent.
func AccessToken(c *gin.Context) string {
	token, err := c.Cookie(AccessTokenName)
	if err != nil {
		return ""
	}
	return token
}
