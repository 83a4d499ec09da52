package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/layouts"
)

// LoginForm carries the state of the login form between renders: the email
// sticks after a failed attempt, the password never does.
type LoginForm struct {
	Email string
	Error string
}

// SignupForm carries the state of the signup form between renders.
type SignupForm struct {
	Name  string
	Email string
	Error string
}

// Login renders the full login page.
func Login(form LoginForm) templ.Component {
	return layouts.Base("Log in", LoginFormFragment(form))
}

// LoginFormFragment renders just the login form card. Failed submissions
// re-render this fragment in place via htmx so the rest of the page stays
// put.
func LoginFormFragment(form LoginForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="auth-card" id="login-form">
<h2>Welcome back</h2>
<p class="auth-sub">Log in to continue your journey</p>
<form method="post" action="/login" hx-post="/login" hx-target="#login-form" hx-swap="outerHTML">
<input type="hidden" name="csrf_token" value="%s">
<label for="email">Email</label>
<input type="email" id="email" name="email" value="%s" required autocomplete="email">
<label for="password">Password</label>
<input type="password" id="password" name="password" required autocomplete="current-password">
`, templ.EscapeString(layouts.GetCSRFToken(ctx)), templ.EscapeString(form.Email)); err != nil {
			return err
		}

		if err := writeFormError(w, form.Error); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<button type="submit" class="auth-submit">Log in</button>
</form>
<p class="auth-switch">New here? <a href="/signup">Create an account</a></p>
</div>
`); err != nil {
			return err
		}

		return nil
	})
}

// Signup renders the full signup page.
func Signup(form SignupForm) templ.Component {
	return layouts.Base("Sign up", SignupFormFragment(form))
}

// SignupFormFragment renders just the signup form card.
func SignupFormFragment(form SignupForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="auth-card" id="signup-form">
<h2>Start exploring</h2>
<p class="auth-sub">Create an account to chat with the guide</p>
<form method="post" action="/signup" hx-post="/signup" hx-target="#signup-form" hx-swap="outerHTML">
<input type="hidden" name="csrf_token" value="%s">
<label for="name">Name</label>
<input type="text" id="name" name="name" value="%s" required autocomplete="name">
<label for="email">Email</label>
<input type="email" id="email" name="email" value="%s" required autocomplete="email">
<label for="password">Password</label>
<input type="password" id="password" name="password" required minlength="8" autocomplete="new-password">
`, templ.EscapeString(layouts.GetCSRFToken(ctx)),
			templ.EscapeString(form.Name), templ.EscapeString(form.Email)); err != nil {
			return err
		}

		if err := writeFormError(w, form.Error); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<button type="submit" class="auth-submit">Sign up</button>
</form>
<p class="auth-switch">Already have an account? <a href="/login">Log in</a></p>
</div>
`); err != nil {
			return err
		}

		return nil
	})
}

func writeFormError(w io.Writer, msg string) error {
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<p class="form-error" role="alert">%s</p>
`, templ.EscapeString(msg))
	return err
}
