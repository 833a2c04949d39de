package entity

import "errors"

var ErrPersonNotFound = errors.New("email not found in roster")

// ResolveRole maps an email to its role. HR wins over board, and both win
// over the employee list, so an approver who is also listed as an employee
// resolves as an approver.
func ResolveRole(email string, r Roster) (Role, error) {
	p, err := LookupPerson(email, r)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// LookupPerson returns the roster entry that ResolveRole would pick.
func LookupPerson(email string, r Roster) (Person, error) {
	key := NormalizeEmail(email)
	if key == "" {
		return Person{}, ErrPersonNotFound
	}
	if p, ok := find(r.hr, key); ok {
		return p, nil
	}
	if p, ok := find(r.board, key); ok {
		return p, nil
	}
	if p, ok := find(r.employees, key); ok {
		return p, nil
	}
	return Person{}, ErrPersonNotFound
}

// IsDesignatedSender reports whether email is the single identity allowed to
// trigger the approval notification. An empty designated identity matches nobody.
func IsDesignatedSender(email, designated string) bool {
	d := NormalizeEmail(designated)
	return d != "" && NormalizeEmail(email) == d
}
