package domain

type BookingRequest struct {
	UserID   ID     `json:"user_id"`
	HotelID  ID     `json:"hotel_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Phone    string `json:"phone"`
}

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what login and register return on success.
type AuthResponse struct {
	Token ID     `json:"token"`
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User builds the session user, falling back to the account id when the
// response carries no token.
func (r AuthResponse) User() User {
	tok := r.Token
	if tok.Absent() {
		tok = r.ID
	}
	return User{Token: tok, Name: r.Name, Email: r.Email}
}
