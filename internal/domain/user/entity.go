package user

// User represents a user record in the system.
type User struct {
	ID       int64  // ID is assigned by the store on creation and never changes
	Name     string // Name is the display name of the user
	Email    string // Email is unique across all users
	Password string // Password is stored verbatim
}
