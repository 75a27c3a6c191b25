package booking

import "github.com/CareBridgeServices/care-marketplace/internal/httperr"

// ===============================
// Autorização por papel
// ===============================

type Op string

const (
	OpCreate   Op = "create"
	OpAccept   Op = "accept"
	OpReject   Op = "reject"
	OpStart    Op = "start"
	OpComplete Op = "complete"
	OpCancel   Op = "cancel"
	OpView     Op = "view"
)

type Actor struct {
	ID   uint
	Role string // family | care | admin
}

const (
	RoleFamily    = "family"
	RoleCaregiver = "care"
	RoleAdmin     = "admin"
)

// Authorize concentra os checks de papel + vínculo com a entidade que o
// restante do código consumia via ifs espalhados. fam/care são as partes
// do booking alvo (zero para OpCreate).
func Authorize(op Op, actor Actor, familyID, caregiverID uint) error {
	switch op {
	case OpCreate, OpCancel:
		if actor.Role != RoleFamily {
			return httperr.ErrBusinessMsg("forbidden_role", "Only families can perform this action")
		}
		if op == OpCancel && actor.ID != familyID {
			return httperr.ErrBusiness("not_party")
		}
		return nil

	case OpAccept, OpReject:
		if actor.Role != RoleCaregiver {
			return httperr.ErrBusinessMsg("forbidden_role", "Only caregivers can perform this action")
		}
		if actor.ID != caregiverID {
			return httperr.ErrBusiness("not_party")
		}
		return nil

	case OpStart, OpComplete, OpView:
		switch actor.Role {
		case RoleFamily:
			if actor.ID != familyID {
				return httperr.ErrBusiness("not_party")
			}
		case RoleCaregiver:
			if actor.ID != caregiverID {
				return httperr.ErrBusiness("not_party")
			}
		case RoleAdmin:
			if op != OpView {
				return httperr.ErrBusiness("forbidden_role")
			}
		default:
			return httperr.ErrBusiness("forbidden_role")
		}
		return nil
	}

	return httperr.ErrBusiness("forbidden_role")
}
