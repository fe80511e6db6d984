// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/easyretail/shop-backend/internal/i18n"
)

// I18nMiddleware stores the preferred catalogue under "lang". A ?lang= query
// parameter overrides Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		c.Set("lang", resolveLang(lang))
		c.Next()
	}
}

func resolveLang(header string) string {
	if header == "" {
		return i18n.DefaultLang
	}
	// Handle cases like "zh-TW,zh;q=0.9,en;q=0.8"
	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	switch first {
	case "zh-TW", "zh-Hant", "zh_TW", "zh-HK", "zh":
		return "zh_TW"
	default:
		return i18n.DefaultLang
	}
}
