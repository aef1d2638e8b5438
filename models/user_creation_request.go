package models

// UserCreationRequest is the payload posted to the remote issuance API
// once all wizard steps are complete. The phone number is expected in
// national format, without a country calling code.
type UserCreationRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	Gender           string `json:"gender"`
	DateOfBirth      string `json:"date_of_birth"`
	NationalIDNumber string `json:"national_id_number"`
	Photo            string `json:"photo"` // base64 data URL of the selfie
}

type UserCreationResponse struct {
	Message string `json:"message"`
}
