package types

// MembershipType distinguishes team memberships from organization memberships
type MembershipType string

const (
	MembershipTeam         MembershipType = "team"
	MembershipOrganization MembershipType = "organization"
)

// Membership links a site to a team or an organization
type Membership struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type MembershipType `json:"type"`
}

// SiteDescriptor is the static metadata of one hosted site as returned by the inventory.
type SiteDescriptor struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Framework   string       `json:"framework"`
	Owner       string       `json:"owner"`
	Memberships []Membership `json:"memberships"`
	Frozen      bool         `json:"frozen"`
}

// IsTeamMember reports whether the calling user reaches the site through a team membership
func (s SiteDescriptor) IsTeamMember() bool {
	for _, m := range s.Memberships {
		if m.Type == MembershipTeam {
			return true
		}
	}
	return false
}

// InOrganization reports whether the site belongs to the given organization.
// The organization is matched by id or name; "all" matches any organization membership.
func (s SiteDescriptor) InOrganization(id string) bool {
	for _, m := range s.Memberships {
		if m.Type != MembershipOrganization {
			continue
		}
		if id == OrganizationAll || m.ID == id || m.Name == id {
			return true
		}
	}
	return false
}

const (
	// OrganizationAll selects sites with any organization membership
	OrganizationAll = "all"

	// OwnerMe resolves to the authenticated user id
	OwnerMe = "me"
)
