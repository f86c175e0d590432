package domain

// User is a record owned by the user service. The password never comes back.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserDraft struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"min=6"`
	Email    string `json:"email" validate:"required,simple_email"`
}

// FirstEmail returns the email of the first listed user, or "" for an empty list.
func FirstEmail(users []User) string {
	if len(users) == 0 {
		return ""
	}
	return users[0].Email
}

// HasEmail reports whether any listed user owns email.
func HasEmail(users []User, email string) bool {
	for _, u := range users {
		if u.Email == email {
			return true
		}
	}
	return false
}
