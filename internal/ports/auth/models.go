package auth

// Credentials es lo que el backend devuelve en un login exitoso.
type Credentials struct {
	Token       string
	DisplayName string
}

// RegisterInput son los datos del alta de usuario de staff.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Phone    string
}
