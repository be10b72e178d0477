// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"net/url"
	"strings"
)

// MsgBadCredentials is shown when the username or password does not match.
const MsgBadCredentials = "Por favor, introduzca un nombre de usuario y clave correctos. Observe que ambos campos pueden ser sensibles a mayúsculas."

// LoginForm is the username/password form. Next is where to go after a
// successful login.
type LoginForm struct {
	Username string
	Password string
	Next     string
}

// BindLogin reads a LoginForm from submitted values.
func BindLogin(v url.Values) LoginForm {
	return LoginForm{
		Username: v.Get("username"),
		Password: v.Get("password"),
		Next:     v.Get("next"),
	}
}

// Validate checks that both credentials were given. The password is not
// trimmed.
func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	f.Username = checkText(errs, "username", f.Username, true, 150)
	if f.Password == "" {
		errs.Add("password", msgRequired)
	}
	f.Next = SafeNext(f.Next)
	return errs
}

// SafeNext returns next when it is a path on this site, or "/" otherwise.
// Absolute URLs, scheme-relative URLs ("//host") and backslash tricks are
// rejected.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || next[0] != '/' {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
