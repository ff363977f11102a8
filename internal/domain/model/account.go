package model

import (
	"encoding/json"
)

// Account is a registered user with the student records they own.
type Account struct {
	Username string
	Password string
	Email    string
	Students []StudentRecord
}

// accountDoc fixes the document field order: password, email, students.
type accountDoc struct {
	Password string          `json:"password"`
	Email    string          `json:"email"`
	Students []StudentRecord `json:"students"`
}

// MarshalJSON writes the account body; the username is the enclosing key.
func (a Account) MarshalJSON() ([]byte, error) {
	students := a.Students
	if students == nil {
		students = []StudentRecord{}
	}
	return json.Marshal(accountDoc{Password: a.Password, Email: a.Email, Students: students})
}

// UnmarshalJSON reads the account body.
func (a *Account) UnmarshalJSON(data []byte) error {
	var doc accountDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	a.Password = doc.Password
	a.Email = doc.Email
	a.Students = doc.Students
	if a.Students == nil {
		a.Students = []StudentRecord{}
	}
	return nil
}

// Clone returns a deep copy.
func (a Account) Clone() Account {
	c := a
	c.Students = CloneRecords(a.Students)
	return c
}

// Session identifies the authenticated user for the lifetime of one run.
type Session struct {
	ID         string
	Username   string
	Privileged bool
}
