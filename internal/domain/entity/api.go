package entity

// VerifyUserRequest is the body of POST /api/verify-user
type VerifyUserRequest struct {
	UserPhoneNumber string `json:"user_phone_number"`
}

// VerifyUserResponse is the success body of POST /api/verify-user
type VerifyUserResponse struct {
	User *Salesperson `json:"user"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}
