package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/services/i18n"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runLocale(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Locale(&config.Config{Environment: "development"})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return c, rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLocale(t *testing.T) {
	t.Run("PriorityQueryParam", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
		req.AddCookie(&http.Cookie{Name: "lang", Value: "id"})
		c, rec := runLocale(t, req)

		assert.Equal(t, "en", c.Get("locale"))
		cookie := findCookie(rec, "lang")
		if assert.NotNil(t, cookie) {
			assert.Equal(t, "en", cookie.Value)
			assert.False(t, cookie.Secure)
		}
	})

	t.Run("UnsupportedQueryParamFallsBackToDefault", func(t *testing.T) {
		c, rec := runLocale(t, httptest.NewRequest(http.MethodGet, "/?lang=es", nil))

		assert.Equal(t, "id", c.Get("locale"))
		cookie := findCookie(rec, "lang")
		if assert.NotNil(t, cookie) {
			assert.Equal(t, "id", cookie.Value)
		}
	})

	t.Run("PriorityCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
		req.Header.Set("Accept-Language", "id-ID")
		c, _ := runLocale(t, req)

		assert.Equal(t, "en", c.Get("locale"))
	})

	t.Run("PriorityHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9,id;q=0.8")
		c, _ := runLocale(t, req)

		assert.Equal(t, "en", c.Get("locale"))
	})

	t.Run("IndonesianHeaderMentioningEnglish", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")
		c, _ := runLocale(t, req)

		assert.Equal(t, "id", c.Get("locale"))
	})

	t.Run("DefaultLanguage", func(t *testing.T) {
		c, rec := runLocale(t, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "id", c.Get("locale"))
		assert.Nil(t, findCookie(rec, "lang"))
	})

	t.Run("RequestContext", func(t *testing.T) {
		c, _ := runLocale(t, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
		assert.Equal(t, "en", c.Request().Context().Value(i18n.LocaleContextKey))
	})
}

func TestSetLanguageCookie(t *testing.T) {
	e := echo.New()

	t.Run("Development", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("config", &config.Config{Environment: "development"})

		SetLanguageCookie(c, "en")

		cookie := findCookie(rec, "lang")
		if assert.NotNil(t, cookie) {
			assert.Equal(t, "en", cookie.Value)
			assert.False(t, cookie.Secure)
		}
	})

	t.Run("Production", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("config", &config.Config{Environment: "production"})

		SetLanguageCookie(c, "id")

		cookie := findCookie(rec, "lang")
		if assert.NotNil(t, cookie) {
			assert.True(t, cookie.Secure)
		}
	})
}

func TestGetLocale(t *testing.T) {
	e := echo.New()

	t.Run("WithLocale", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set("locale", "en")
		assert.Equal(t, "en", GetLocale(c))
	})

	t.Run("WithoutLocale", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		assert.Equal(t, "id", GetLocale(c))
	})
}
