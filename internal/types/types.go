// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and intake can all import types without depending
// on each other.
package types

// Student represents a student record in the portal.
//
// Struct tags serve two purposes:
//
//  1. json:"..." is the key used in HTTP responses. The identifier is
//     exposed as "_id", the key the portal's web clients already read.
//
//  2. bson:"..." is the key used by the document store. ID is skipped here
//     because each backend decides how it stores the identifier.
//
// Text fields are pointers so a field that was never supplied is stored
// as absent and rendered as JSON null, rather than collapsing into "".
type Student struct {
	ID        string  `json:"_id"       bson:"-"`
	StudentID *string `json:"studentID" bson:"studentID,omitempty"`
	FirstName *string `json:"firstName" bson:"firstName,omitempty"`
	LastName  *string `json:"lastName"  bson:"lastName,omitempty"`
	Section   *string `json:"section"   bson:"section,omitempty"`
	File      *string `json:"file"      bson:"file"`
}

// Admin represents an administrator record. Same shape as Student, with
// adminID and department instead of studentID and section.
type Admin struct {
	ID         string  `json:"_id"        bson:"-"`
	AdminID    *string `json:"adminID"    bson:"adminID,omitempty"`
	FirstName  *string `json:"firstName"  bson:"firstName,omitempty"`
	LastName   *string `json:"lastName"   bson:"lastName,omitempty"`
	Department *string `json:"department" bson:"department,omitempty"`
	File       *string `json:"file"       bson:"file"`
}

// Field names accepted on each record kind. The same names are used as
// multipart form keys, JSON keys, and document keys.
var (
	StudentFields = []string{"studentID", "firstName", "lastName", "section", "file"}
	AdminFields   = []string{"adminID", "firstName", "lastName", "department", "file"}
)

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Apply copies every field present in p onto the student. Backends that
// cannot patch in place (memory) use it to merge an update.
func (s *Student) Apply(p Patch) {
	for field, value := range p {
		switch field {
		case "studentID":
			s.StudentID = value
		case "firstName":
			s.FirstName = value
		case "lastName":
			s.LastName = value
		case "section":
			s.Section = value
		case "file":
			s.File = value
		}
	}
}

// Apply copies every field present in p onto the admin.
func (a *Admin) Apply(p Patch) {
	for field, value := range p {
		switch field {
		case "adminID":
			a.AdminID = value
		case "firstName":
			a.FirstName = value
		case "lastName":
			a.LastName = value
		case "department":
			a.Department = value
		case "file":
			a.File = value
		}
	}
}
