package domain

import "time"

// Role is the marketplace side a user acts on.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleDeveloper Role = "developer"
)

// DefaultRating is assigned to every newly registered user.
const DefaultRating = 5.0

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleDeveloper
}

// User models a registered marketplace participant. Identity is the opaque
// subject supplied by the identity provider and is never exposed publicly.
type User struct {
	ID              string    `json:"id" bson:"_id"`
	Identity        string    `json:"-" bson:"identity"`
	Nickname        string    `json:"nickname" bson:"nickname"`
	Avatar          string    `json:"avatar" bson:"avatar"`
	Role            Role      `json:"userType" bson:"role"`
	Skills          []string  `json:"skills" bson:"skills"`
	Rating          float64   `json:"rating" bson:"rating"`
	CompletedOrders int       `json:"completedOrders" bson:"completed_orders"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// PublicProfile is the subset of a user shown to other participants.
type PublicProfile struct {
	ID              string   `json:"id"`
	Nickname        string   `json:"nickname"`
	Avatar          string   `json:"avatar"`
	Role            Role     `json:"userType"`
	Skills          []string `json:"skills"`
	Rating          float64  `json:"rating"`
	CompletedOrders int      `json:"completedOrders"`
}

// Public returns the user's public profile, or nil for a nil user.
func (u *User) Public() *PublicProfile {
	if u == nil {
		return nil
	}
	return &PublicProfile{
		ID:              u.ID,
		Nickname:        u.Nickname,
		Avatar:          u.Avatar,
		Role:            u.Role,
		Skills:          u.Skills,
		Rating:          u.Rating,
		CompletedOrders: u.CompletedOrders,
	}
}

// NormalizeSkills keeps skills only for developers.
func NormalizeSkills(role Role, skills []string) []string {
	if role != RoleDeveloper {
		return []string{}
	}
	if skills == nil {
		return []string{}
	}
	return skills
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Role     *Role
	Skills   []string
	Avatar   *string
	Nickname *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Role == nil && p.Skills == nil && p.Avatar == nil && p.Nickname == nil
}

// Caller is the explicit per-request session: the opaque identity asserted by
// the identity provider. It is empty for anonymous requests.
type Caller struct {
	Identity string
}

// Anonymous reports whether no identity was supplied.
func (c Caller) Anonymous() bool {
	return c.Identity == ""
}
