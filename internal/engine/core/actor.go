package core

// Role is the capability set of the caller
type Role string

const (
	RoleIssuer   Role = "ISSUER"
	RoleInvestor Role = "INVESTOR"
)

func (r Role) Valid() bool {
	return r == RoleIssuer || r == RoleInvestor
}

// Actor is the resolved caller passed explicitly into every operation.
// For investors ID is the investor id minted at invite time and DealID
// scopes the session to the deal they were invited to.
type Actor struct {
	Role   Role
	ID     string
	DealID string
}

func Issuer(id string) Actor {
	return Actor{Role: RoleIssuer, ID: id}
}

func Investor(id, dealID string) Actor {
	return Actor{Role: RoleInvestor, ID: id, DealID: dealID}
}

func (a Actor) IsIssuer() bool {
	return a.Role == RoleIssuer && a.ID != ""
}

func (a Actor) IsInvestor() bool {
	return a.Role == RoleInvestor && a.ID != ""
}

// RequireIssuer rejects anyone but the issuer identified by ownerID
func (a Actor) RequireIssuer(ownerID string) error {
	if !a.IsIssuer() {
		return ErrForbidden.With("only the issuer may perform this operation", "role", string(a.Role))
	}
	if a.ID != ownerID {
		return ErrNotOwner.With("deal belongs to another issuer")
	}
	return nil
}

// RequireInvestorOf rejects anyone but an investor session scoped to dealID
func (a Actor) RequireInvestorOf(dealID string) error {
	if !a.IsInvestor() {
		return ErrForbidden.With("only invited investors may perform this operation", "role", string(a.Role))
	}
	if a.DealID != "" && a.DealID != dealID {
		return ErrNotInvited
	}
	return nil
}
