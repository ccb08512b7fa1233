package customers

import "customer-svc/internal/types"

// ListParams are the server-side filters forwarded to the record store. All
// provided filters combine with AND; search is a case-insensitive substring
// match against name OR email. Both dates must be present for the range to
// apply.
type ListParams struct {
	Nationality string
	StartDate   string
	EndDate     string
	Search      string
}

// CreateRequest carries the multipart create form. Name, email and phone are
// required; everything else is optional. Photo failure never blocks creation.
type CreateRequest struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Dob         string
	Nationality string
	Country     string
	Photo       *types.PhotoUpload
}

// UpdateRequest is a partial field set: nil pointers mean "leave unchanged".
type UpdateRequest struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Dob         *string
	Nationality *string
	Country     *string
	Photo       *types.PhotoUpload
}

// UpdateFields is the store-level projection of an update; PhotoURL is set by
// the service after a successful replacement upload.
type UpdateFields struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Dob         *string
	Nationality *string
	Country     *string
	PhotoURL    *string
}

// DeleteResponse returns the pre-delete snapshot alongside a success message.
type DeleteResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    types.Customer `json:"data"`
}

// ImportResponse acknowledges an accepted bulk intake job.
type ImportResponse struct {
	JobID    string   `json:"jobId"`
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}
