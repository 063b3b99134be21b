package middleware

import (
	"context"
	"net/http"
	"time"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. Default ("id")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if !i18n.IsSupported(lang) {
					lang = i18n.DefaultLanguage
				}
				c.SetCookie(languageCookie(lang, cfg != nil && cfg.IsProduction()))
			} else if cookie, err := c.Cookie("lang"); err == nil && i18n.IsSupported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = i18n.MatchAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = i18n.DefaultLanguage
			}

			c.Set("locale", lang)

			// Request context carries the locale for templ components
			ctx := context.WithValue(c.Request().Context(), i18n.LocaleContextKey, lang)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func languageCookie(lang string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     "lang",
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour), // 1 year
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	cfg, ok := c.Get("config").(*config.Config)
	c.SetCookie(languageCookie(lang, ok && cfg.IsProduction()))
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok {
		return lang
	}
	return i18n.DefaultLanguage
}
