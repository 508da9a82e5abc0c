package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentLabel(t *testing.T) {
	assert.Equal(t, "Ann Lee: S1", Student{Name: "Ann Lee", StudentID: "S1"}.Label())
	assert.Equal(t, "Ann Lee: N/A", Student{Name: "Ann Lee"}.Label())
}

func TestStudentFilterMatches(t *testing.T) {
	student := Student{Course: "science", Gender: GenderFemale, Session: "2023-2024"}

	assert.True(t, StudentFilter{}.Matches(student))
	assert.True(t, StudentFilter{Course: "science"}.Matches(student))
	assert.True(t, StudentFilter{Course: "science", Gender: GenderFemale, Session: "2023-2024"}.Matches(student))
	assert.False(t, StudentFilter{Course: "arts"}.Matches(student))
	assert.False(t, StudentFilter{Course: "science", Session: "2022-2023"}.Matches(student))
}
