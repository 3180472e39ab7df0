package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// HandleSwagger serves a Swagger UI page pointed at the projected
// specification. The page uses the official CDN-hosted assets so no static
// files need to be checked into version control.
// (GET /swagger)
func (s *Server) HandleSwagger(c echo.Context) error {
	html := strings.ReplaceAll(swaggerHTML, "${SPEC_URL}", "/openapi.json")
	return c.HTML(http.StatusOK, html)
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Swagger UI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
  window.onload = function() {
    window.ui = SwaggerUIBundle({
      url: "${SPEC_URL}",
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout"
    });
  }
  </script>
</body>
</html>`
