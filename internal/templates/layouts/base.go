// base.go holds the page shell shared by every full-page render: document
// head, navigation bar, and footer. Individual pages supply their content as
// a child component.
//
// Components are written directly against the templ runtime
// (templ.ComponentFunc) rather than generated from .templ sources; the
// render contract and escaping rules are the same either way.
package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Base wraps a page body in the common document shell. The title is shown
// as "<title> | MoroccoGuide" in the browser tab.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		htmlClass := ""
		if IsDarkMode(ctx) {
			htmlClass = ` class="dark"`
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en"%s>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | MoroccoGuide</title>
<link rel="stylesheet" href="/static/css/app.css">
<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>
<script src="/static/js/app.js" defer></script>
</head>
<body hx-boost="true">
`, htmlClass, templ.EscapeString(title)); err != nil {
			return err
		}

		if err := Nav().Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main>
<footer class="site-footer"><p>MoroccoGuide &mdash; your AI companion for Moroccan adventures.</p></footer>
</body>
</html>
`); err != nil {
			return err
		}

		return nil
	})
}

// Nav renders the top navigation bar. Links switch between login/signup and
// the traveler's name + logout depending on the session, and the current
// path gets the active class.
func Nav() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="site-nav">
<a class="brand" href="/">Morocco<span class="brand-accent">Guide</span></a>
<div class="nav-links">
`); err != nil {
			return err
		}

		writeLink := func(href, label string) error {
			active := ""
			if GetActivePath(ctx) == href {
				active = ` class="active"`
			}
			_, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`, href, active, templ.EscapeString(label))
			return err
		}

		if err := writeLink("/", "Home"); err != nil {
			return err
		}
		if err := writeLink("/chat", "Chat"); err != nil {
			return err
		}

		if IsAuthenticated(ctx) {
			if name := GetUserName(ctx); name != "" {
				if _, err := fmt.Fprintf(w, `<span class="nav-user">%s</span>`, templ.EscapeString(name)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<form method="post" action="/logout" class="logout-form">
<input type="hidden" name="csrf_token" value="%s">
<button type="submit" class="nav-button">Log out</button>
</form>`, templ.EscapeString(GetCSRFToken(ctx))); err != nil {
				return err
			}
		} else {
			if err := writeLink("/login", "Log in"); err != nil {
				return err
			}
			if err := writeLink("/signup", "Sign up"); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<button type="button" id="theme-toggle" class="nav-button" aria-label="Toggle dark mode">&#9681;</button>
</div>
</nav>
`); err != nil {
			return err
		}

		return nil
	})
}
