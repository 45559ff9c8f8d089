package services

// Actor identifies the authenticated user invoking an operation. Controllers
// build it from the verified JWT claims.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

func requireRole(actor Actor, roles ...string) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return ForbiddenError("Anda tidak memiliki akses ke resource ini")
}
