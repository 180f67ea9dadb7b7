package model

// User is the authenticated admin profile returned by the login and
// profile endpoints.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// ImportResult is the bulk-import summary. Errors carries per-row failure
// descriptions for a partially successful import.
type ImportResult struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type HealthDetails struct {
	Engine string `json:"engine"`
	Name   string `json:"name"`
}

type HealthResponse struct {
	Database string        `json:"database"`
	Details  HealthDetails `json:"details"`
}

// TemplateFile is a downloaded import template, passed through to the
// operator unchanged.
type TemplateFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
