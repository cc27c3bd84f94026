package models

import "time"

// Status is the moderation state of a pass submission.
type Status string

const (
	StatusNew      Status = "new"
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Editable reports whether a pass in this state may still be patched.
// Only passes that have not entered moderation are editable.
func (s Status) Editable() bool {
	return s == StatusNew
}

// User represents a reporter. Users are deduplicated by email: submitting
// the same email again reuses the existing record.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Fam   string `json:"fam"`
	Name  string `json:"name"`
	Otc   string `json:"otc"`
	Phone string `json:"phone"`
}

// Coords represents the geographic position of a pass.
type Coords struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    int     `json:"height"`
}

// Image represents a photo attached to a pass.
type Image struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
	PassID   int64  `json:"id_pass"`
}

// Pass represents a mountain-pass submission row. UserID and CoordsID are
// plain references; the expanded documents live in PassDetail.
type Pass struct {
	ID          int64     `json:"id"`
	BeautyTitle string    `json:"beautyTitle"`
	Title       string    `json:"title"`
	OtherTitles string    `json:"other_titles"`
	Connect     string    `json:"connect"`
	AddTime     time.Time `json:"add_time"`
	DateAdded   time.Time `json:"date_added"`
	Winter      string    `json:"winter"`
	Summer      string    `json:"summer"`
	Autumn      string    `json:"autumn"`
	Spring      string    `json:"spring"`
	UserID      int64     `json:"user"`
	CoordsID    *int64    `json:"coords"`
	Status      Status    `json:"status"`
}

// PassDetail is the nested response document: a pass expanded with its
// user, coordinates and images.
type PassDetail struct {
	Pass
	User   *User   `json:"user"`
	Coords *Coords `json:"coords"`
	Images []Image `json:"images"`
}

// ImageUpload is one photo entry in a create submission.
type ImageUpload struct {
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
}

// SubmitRequest is the create-submission payload. Field names follow the
// FSTR wire format: the create payload uses camelCase beautyTitle.
type SubmitRequest struct {
	BeautyTitle string        `json:"beautyTitle"`
	Title       string        `json:"title"`
	OtherTitles string        `json:"other_titles"`
	Connect     string        `json:"connect"`
	AddTime     time.Time     `json:"add_time"`
	Winter      string        `json:"winter"`
	Summer      string        `json:"summer"`
	Autumn      string        `json:"autumn"`
	Spring      string        `json:"spring"`
	User        User          `json:"user"`
	Coords      Coords        `json:"coords"`
	Images      []ImageUpload `json:"images"`
}

// ImagePatch updates an existing image by id; url and title only.
type ImagePatch struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
}

// PassPatch is the partial-update payload. The patch wire format uses
// snake_case beauty_title, unlike the create payload.
type PassPatch struct {
	BeautyTitle string       `json:"beauty_title"`
	Title       string       `json:"title"`
	OtherTitles string       `json:"other_titles"`
	Connect     string       `json:"connect"`
	Winter      string       `json:"winter"`
	Summer      string       `json:"summer"`
	Autumn      string       `json:"autumn"`
	Spring      string       `json:"spring"`
	Coords      *Coords      `json:"coords"`
	Images      []ImagePatch `json:"images"`
}
