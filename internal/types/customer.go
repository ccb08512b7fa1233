package types

import "time"

// ====== ENUMS ======

// Nationality classifies a customer as domestic or foreign. The two literal
// codes come from the upstream data set and gate whether Country is meaningful.
type Nationality string

const (
	NationalityDomestic Nationality = "WNI"
	NationalityForeign  Nationality = "WNA"
)

// DateLayout is the ISO form used for dob values and date-range query
// parameters. Lexicographic comparison of strings in this layout matches
// chronological order, which the dob validation relies on.
const DateLayout = "2006-01-02"

// ====== CORE TYPES ======

// Customer is one person record. ID and CreatedAt are assigned by the record
// store at insertion and never change afterwards.
type Customer struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Dob         string      `json:"dob"`
	Nationality Nationality `json:"nationality"`
	Country     string      `json:"country"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// PhotoUpload carries the raw bytes of a multipart photo field together with
// the metadata needed to derive a storage key.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
