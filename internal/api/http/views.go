package httpapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/i474232898/weather-history/internal/weather"
)

//go:embed views
var viewsFS embed.FS

// NewViews loads the embedded page templates.
func NewViews() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	return html.NewFileSystem(http.FS(sub), ".html"), nil
}

// viewData adds the values every page needs: the request identity, the
// pending notice and the page theme.
func viewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	data["Identity"] = identityFrom(c)
	data["Flash"] = popFlash(c)
	if _, ok := data["Condition"]; !ok {
		data["Condition"] = weather.ConditionDefault
	}
	return data
}
