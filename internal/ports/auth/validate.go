package auth

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidateRegister mapea el form de registro a field -> mensaje.
// Mapa vacío = válido. Puro; no toca la red.
func ValidateRegister(in RegisterInput) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(in.Username) == "" {
		errs["username"] = "Username is required"
	}
	if strings.TrimSpace(in.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	switch {
	case strings.TrimSpace(in.Email) == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(strings.TrimSpace(in.Email)):
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(in.Phone) == "" {
		errs["phone"] = "Phone number is required"
	}
	if in.Password == "" {
		errs["password"] = "Password is required"
	}

	return errs
}

// ValidateLogin aplica las reglas mínimas del form de login.
func ValidateLogin(username, password string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(username) == "" {
		errs["username"] = "Username is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}
