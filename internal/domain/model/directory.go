package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Directory maps usernames to accounts and remembers insertion order, which
// is also the order of the persisted document.
type Directory struct {
	order    []string
	accounts map[string]*Account
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[string]*Account)}
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	return len(d.order)
}

// Get returns the account for username.
func (d *Directory) Get(username string) (*Account, bool) {
	a, ok := d.accounts[username]
	return a, ok
}

// Has reports whether username is registered.
func (d *Directory) Has(username string) bool {
	_, ok := d.accounts[username]
	return ok
}

// Add appends a new account. It returns false if the username is taken.
func (d *Directory) Add(a Account) bool {
	if d.Has(a.Username) {
		return false
	}
	if a.Students == nil {
		a.Students = []StudentRecord{}
	}
	d.order = append(d.order, a.Username)
	d.accounts[a.Username] = &a
	return true
}

// Remove deletes an account. Only used to roll back a failed signup.
func (d *Directory) Remove(username string) {
	if !d.Has(username) {
		return
	}
	delete(d.accounts, username)
	for i, u := range d.order {
		if u == username {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Usernames returns usernames in insertion order.
func (d *Directory) Usernames() []string {
	return append([]string(nil), d.order...)
}

// Accounts returns the accounts in insertion order. The pointers are live.
func (d *Directory) Accounts() []*Account {
	out := make([]*Account, 0, len(d.order))
	for _, u := range d.order {
		out = append(out, d.accounts[u])
	}
	return out
}

// Clone returns a deep copy.
func (d *Directory) Clone() *Directory {
	c := NewDirectory()
	for _, a := range d.Accounts() {
		c.Add(a.Clone())
	}
	return c
}

// MarshalJSON writes a JSON object whose keys follow insertion order.
func (d *Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(d.accounts[u])
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", u, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. A repeated key keeps
// its first position and takes the last value.
func (d *Directory) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("account document must be a JSON object")
	}
	fresh := NewDirectory()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		username, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var a Account
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("account %q: %w", username, err)
		}
		a.Username = username
		if existing, ok := fresh.accounts[username]; ok {
			*existing = a
			continue
		}
		fresh.Add(a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = *fresh
	return nil
}
