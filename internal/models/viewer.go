package models

// Viewer is the identity the entitlement engine sees. The access gate builds
// it from a verified token, or leaves the zero value for anonymous callers.
// Anonymous viewers may browse; everything is locked for them.
type Viewer struct {
	AccountID uint
	Role      Role
	Gender    Gender
	Tier      Tier
}

// Anonymous reports whether the viewer carries no verified identity.
func (v Viewer) Anonymous() bool {
	return v.AccountID == 0
}

// IsAdmin reports whether the viewer bypasses credit, expiry and gender rules.
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// Unlimited reports whether the viewer's tier bypasses credit accounting.
func (v Viewer) Unlimited() bool {
	return !v.Anonymous() && v.Tier.Unlimited()
}
