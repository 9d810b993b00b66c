// Package identity exposes player registration and sign in.
package identity

// AuthRequest carries the credentials of a player.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful sign in. Token is the player
// token that opens campaign sessions.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
