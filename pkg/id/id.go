// Package id generates and validates the public identifiers of stored documents.
package id

import "github.com/google/uuid"

type PublicID string

func New() PublicID {
	return PublicID(uuid.NewString())
}

// Parse normalizes s and reports whether it is a well-formed identifier.
func Parse(s string) (PublicID, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return PublicID(u.String()), true
}

func (p PublicID) String() string {
	return string(p)
}
