package domain

// Role is the access role carried by a user and their session.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleManager       Role = "manager"
	RoleClerk         Role = "clerk"
	RoleCustomer      Role = "customer"
	RoleTravelCompany Role = "travel_company"
)

var roleHomes = map[Role]string{
	RoleSuperAdmin:    "/admin",
	RoleManager:       "/manager/billing",
	RoleClerk:         "/clerk/check-in",
	RoleCustomer:      "/customer",
	RoleTravelCompany: "/customer",
}

// ParseRole returns the role for s and whether it is known.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleHomes[r]
	return r, ok
}

func (r Role) String() string { return string(r) }

// Home is the landing page for the role; unknown roles land on "/".
func (r Role) Home() string {
	if home, ok := roleHomes[r]; ok {
		return home
	}
	return "/"
}

// IsStaff reports whether the role is bound to a single branch.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleClerk
}

// IsGuest reports whether the role books stays for itself.
func (r Role) IsGuest() bool {
	return r == RoleCustomer || r == RoleTravelCompany
}

// SelfRegistrable reports whether the role may be chosen on the public
// registration form.
func (r Role) SelfRegistrable() bool {
	return r.IsGuest()
}
