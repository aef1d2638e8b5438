package models

// PersonalDetails holds the seven fields collected for an enrollment.
// All fields must be non-empty and valid before the wizard can move
// past the personal details step.
type PersonalDetails struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`      // Male, Female or Other
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	NationalID  string `json:"nationalId"`
}
