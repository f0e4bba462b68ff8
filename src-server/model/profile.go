package model

// Free-form profile fields, persisted as one JSON document.
type Profile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Education   string `json:"education"`
	Interests   string `json:"interests"`
	Location    string `json:"location"`
}
