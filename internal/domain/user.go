package domain

// User is an account that analyses may reference.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // opaque; never serialized
}

// NewUser is an insertable user.
type NewUser struct {
	Username string
	Password string
}

// DemoUsername is the account seeded when storage is initialized.
const DemoUsername = "demo"
