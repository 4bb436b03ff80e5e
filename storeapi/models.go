package storeapi

import "fmt"

// App is the catalog entry owned by the upstream API. The storefront never
// mutates apps, it only renders and filters them. Rating and downloads are
// display strings and are not guaranteed numeric.
type App struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon,omitempty"`
	Developer   string `json:"developer"`
	Rating      string `json:"rating"`
	Downloads   string `json:"downloads"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Platform    string `json:"platform"`

	// extended fields returned by the detail endpoint
	Screenshots  []string `json:"screenshots,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	DownloadUrl  string   `json:"download_url,omitempty"`
}

// UploadRequest carries one app package plus its metadata to the upstream
// publish endpoint as a multipart form.
type UploadRequest struct {
	Filename    string
	File        []byte
	Title       string
	Developer   string
	Description string
	CategoryId  string
	Platform    string
}

// upstreamErrorBody is the structured failure envelope the upstream API
// returns on 4xx/5xx responses.
type upstreamErrorBody struct {
	Error string `json:"error"`
}

// APIError is the error surface exposed to the UI: the upstream-provided
// message when the response carried one, else the transport-level message.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}
