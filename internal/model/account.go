package model

// Role codes carried in session tokens.
const (
	RoleAdmin      = "ADM"
	RoleInfluencer = "INF"
	RoleSponsor    = "SPR"
)

// AvailableRoles lists every role code accepted at login.
var AvailableRoles = []string{RoleAdmin, RoleInfluencer, RoleSponsor}

// FullRole returns the display label for a role code.
func FullRole(role string) string {
	switch role {
	case RoleAdmin:
		return "Admin"
	case RoleInfluencer:
		return "Influencer"
	case RoleSponsor:
		return "Sponsor"
	}
	return ""
}

// Influencer represents a row in the influencers table.
type Influencer struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Password  string `db:"password" json:"-"`
	Category  string `db:"category" json:"category"`
	Niche     string `db:"niche" json:"niche"`
	Reach     int64  `db:"reach" json:"reach"`
	IsFlagged bool   `db:"is_flagged" json:"is_flagged"`
}

// Sponsor represents a row in the sponsors table.
type Sponsor struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	Password   string `db:"password" json:"-"`
	Industry   string `db:"industry" json:"industry"`
	MaxBudget  int64  `db:"max_budget" json:"max_budget"`
	IsApproved bool   `db:"is_approved" json:"is_approved"`
	IsFlagged  bool   `db:"is_flagged" json:"is_flagged"`
}

// Admin represents a row in the admins table. Admins are pre-provisioned
// and carry no flag or approval state.
type Admin struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}
