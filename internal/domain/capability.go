package domain

// Capability names an action that is only offered to some operators.
type Capability int

const (
	ViewPlanets Capability = iota
	EditEvaluations
	ManageCriteria
)

// Can is the single role check used by navigation and by every protected page.
// A nil user holds no capability.
func Can(u *User, c Capability) bool {
	if u == nil {
		return false
	}
	switch c {
	case ViewPlanets, EditEvaluations:
		return true
	case ManageCriteria:
		return u.UserType == SuperAdmin
	}
	return false
}
