package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/layouts"
)

// Error renders the full-page error view used by the central error handler
// for non-htmx browser requests.
func Error(code int, message string) templ.Component {
	return layouts.Base(fmt.Sprintf("Error %d", code), errorContent(code, message))
}

func errorContent(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="error-page">
<h1>%d</h1>
<p>%s</p>
<a class="cta" href="/">Back to the riad</a>
</div>
`, code, templ.EscapeString(message))
		return err
	})
}
