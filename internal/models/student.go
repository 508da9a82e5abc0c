package models

import "fmt"

// Gender values accepted by the backend. An empty string means unspecified.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Student represents a learner registered in the institution. ID is the
// system-assigned key used for update/delete; StudentID is the user-assigned
// external identifier that fee records reference. The backend does not
// enforce StudentID uniqueness, so it is a display and lookup key only.
type Student struct {
	ID               string `json:"id"`
	StudentID        string `json:"student_id"`
	Name             string `json:"name"`
	FatherName       string `json:"father_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Phone2           string `json:"phone2"`
	EmergencyContact string `json:"emergency_contact"`
	Gender           string `json:"gender"`
	DOB              string `json:"dob"`
	Address          string `json:"address"`
	Course           string `json:"course"`
	Session          string `json:"session"`
	ProfilePicURL    string `json:"profile_pic_url"`
}

// Label renders the combined autocomplete form "Name: student_id".
func (s Student) Label() string {
	id := s.StudentID
	if id == "" {
		id = "N/A"
	}
	return fmt.Sprintf("%s: %s", s.Name, id)
}

// StudentFilter narrows the directory by exact field values. Empty fields
// match everything.
type StudentFilter struct {
	Course  string
	Gender  string
	Session string
}

// Matches reports whether the student passes every set filter field.
func (f StudentFilter) Matches(s Student) bool {
	if f.Course != "" && s.Course != f.Course {
		return false
	}
	if f.Gender != "" && s.Gender != f.Gender {
		return false
	}
	if f.Session != "" && s.Session != f.Session {
		return false
	}
	return true
}
