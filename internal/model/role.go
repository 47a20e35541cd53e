package model

// Role is stored on the user record and carried in access-token claims.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// Capability names a privileged action a role may perform.
type Capability string

// CapabilityViewFullProfile lets a viewer see another user's unrestricted
// record, email included.
const CapabilityViewFullProfile Capability = "view_full_profile"

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleModerator: {
		CapabilityViewFullProfile: {},
	},
}

func (r Role) Can(c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator
}
