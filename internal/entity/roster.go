package entity

import "strings"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleBoard    Role = "board"
)

// NormalizeEmail is the comparison key for every email in the campaign.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Person is a roster entry.
type Person struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  Role   `json:"role,omitempty" yaml:"-"`
}

// Roster is the read-only list of signers (employees) and approvers (HR, board).
// Build it with NewRoster; the zero value is an empty roster.
type Roster struct {
	employees []Person
	hr        []Person
	board     []Person
}

// NewRoster normalizes emails, drops entries without an email and removes
// duplicates inside each list, keeping the first occurrence.
func NewRoster(employees, hr, board []Person) Roster {
	return Roster{
		employees: normalizePeople(employees, RoleEmployee),
		hr:        normalizePeople(hr, RoleHR),
		board:     normalizePeople(board, RoleBoard),
	}
}

func normalizePeople(people []Person, role Role) []Person {
	out := make([]Person, 0, len(people))
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		email := NormalizeEmail(p.Email)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, Person{Name: strings.TrimSpace(p.Name), Email: email, Role: role})
	}
	return out
}

func (r Roster) Employees() []Person { return clonePeople(r.employees) }
func (r Roster) HR() []Person        { return clonePeople(r.hr) }
func (r Roster) Board() []Person     { return clonePeople(r.board) }

// Len is the number of signers the campaign waits for.
func (r Roster) Len() int { return len(r.employees) }

func (r Roster) HREmails() []string    { return emails(r.hr) }
func (r Roster) BoardEmails() []string { return emails(r.board) }

func clonePeople(people []Person) []Person {
	out := make([]Person, len(people))
	copy(out, people)
	return out
}

func emails(people []Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.Email)
	}
	return out
}

func find(people []Person, email string) (Person, bool) {
	for _, p := range people {
		if p.Email == email {
			return p, true
		}
	}
	return Person{}, false
}
