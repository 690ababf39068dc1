package model

// RegisterParams is the input of a registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams is the input of a login.
type LoginParams struct {
	Email    string
	Password string
}

// LoginResult is a successful login.
type LoginResult struct {
	Name    string
	Session Session
}
