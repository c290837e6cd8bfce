package model

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Address struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	IsDefault    bool   `json:"is_default"`
}

type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name"`
	Phone               string    `json:"phone"`
	Role                Role      `json:"role"`
	Addresses           []Address `json:"addresses"`
	CreatedAt           string    `json:"created_at,omitempty"`
	ForcePasswordChange bool      `json:"force_password_change,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DefaultAddress returns the address flagged default, else the first one.
func (u *User) DefaultAddress() *Address {
	if u == nil || len(u.Addresses) == 0 {
		return nil
	}
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	return &u.Addresses[0]
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AuthToken struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
