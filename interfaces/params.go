package interfaces

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nrro-site/domain"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return max(n, 0)
}

// requestLocale reads ?locale=, falling back to the site's default.
func requestLocale(c *gin.Context) domain.Locale {
	if l, ok := domain.ParseLocale(c.Query("locale")); ok {
		return l
	}
	return siteFrom(c).DefaultLocale
}

func editorFrom(c *gin.Context) string {
	return c.GetString(ctxAdmin)
}
