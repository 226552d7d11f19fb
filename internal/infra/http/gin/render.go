package ginserver

import (
	"embed"
	"html/template"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomies/internal/app/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// render answers with HTML for browsers and JSON for clients that ask for it.
func render(c *gin.Context, status int, name string, data any) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		Data:     data,
	})
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", dto.ErrorPage{Error: message})
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
