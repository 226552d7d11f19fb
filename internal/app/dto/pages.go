package dto

// HomePage is the landing page.
type HomePage struct {
	LoggedIn bool `json:"logged_in"`
}

// AuthPage backs the login and signup forms. Message carries the outcome
// of the previous attempt, if any.
type AuthPage struct {
	Message  string `json:"message,omitempty"`
	LoggedIn bool   `json:"logged_in"`
}

type ErrorPage struct {
	Error string `json:"error"`
}
