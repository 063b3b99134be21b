package handlers

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services/i18n"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func render(c echo.Context, component templ.Component) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return component.Render(c.Request().Context(), c.Response().Writer)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// alert writes an HTMX alert fragment
func alert(c echo.Context, status int, kind string, message string) error {
	return c.HTML(status, `<div class="alert alert-`+kind+`" role="alert">`+html.EscapeString(message)+`</div>`)
}

// errorResponse answers with a localized error, as an alert fragment for HTMX
// requests and as JSON {"error": ...} otherwise
func errorResponse(c echo.Context, status int, key string) error {
	message := i18n.T(c.Request().Context(), key)
	if isHTMX(c) {
		return alert(c, status, "error", message)
	}
	return c.JSON(status, map[string]interface{}{"error": message})
}

// validationResponse answers 400 with the fields that failed validation
func validationResponse(c echo.Context, err error) error {
	message := i18n.T(c.Request().Context(), "errors.invalidData")
	if isHTMX(c) {
		return alert(c, http.StatusBadRequest, "error", message)
	}

	body := map[string]interface{}{"error": message}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	return c.JSON(http.StatusBadRequest, body)
}

// letterRequest is a letter plus the extra fields some endpoints accept
type letterRequest struct {
	models.LetterData
	Email string `json:"email"`
	Label string `json:"label"`
}

// bindLetter reads a letter from a JSON body, from a "data" form field holding
// JSON, or from the individual fields of the web form. The letter is normalized
// but not validated.
func bindLetter(c echo.Context) (letterRequest, error) {
	var req letterRequest

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		if err := c.Bind(&req); err != nil {
			return req, err
		}
	} else if raw := c.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return req, err
		}
		if req.Email == "" {
			req.Email = c.FormValue("email")
		}
		if req.Label == "" {
			req.Label = c.FormValue("label")
		}
	} else {
		req.LetterData = letterFromForm(c)
		req.Email = c.FormValue("email")
		req.Label = c.FormValue("label")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.LetterData.Normalize()
	return req, nil
}

func letterFromForm(c echo.Context) models.LetterData {
	optional := func(name string) *string {
		v := strings.TrimSpace(c.FormValue(name))
		if v == "" {
			return nil
		}
		return &v
	}

	kopEnabled := c.FormValue("kopEnabled")

	return models.LetterData{
		Nama:         c.FormValue("nama"),
		NIK:          c.FormValue("nik"),
		Pekerjaan:    c.FormValue("pekerjaan"),
		Alamat:       c.FormValue("alamat"),
		JudulSurat:   c.FormValue("judulSurat"),
		NomorSurat:   c.FormValue("nomorSurat"),
		TempatSurat:  c.FormValue("tempatSurat"),
		TanggalSurat: c.FormValue("tanggalSurat"),
		Isi:          c.FormValue("isi"),
		SignatureURL: optional("signatureUrl"),
		StampURL:     optional("stampUrl"),
		KopSurat: models.KopSurat{
			Enabled:      kopEnabled == "true" || kopEnabled == "on",
			NamaInstansi: c.FormValue("kopNamaInstansi"),
			Alamat:       c.FormValue("kopAlamat"),
			Kontak:       c.FormValue("kopKontak"),
			LogoURL:      optional("kopLogoUrl"),
		},
	}
}
