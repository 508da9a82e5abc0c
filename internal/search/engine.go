package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

// Field weights for directory ranking. Name dominates, identifiers and email
// next, then academic and contact fields, secondary contact and address last.
const (
	weightName      = 4
	weightStudentID = 3
	weightEmail     = 3
	weightFather    = 2
	weightGender    = 2
	weightCourse    = 2
	weightSession   = 2
	weightPhone     = 2
	weightPhone2    = 1
	weightAddress   = 1
)

type weightedField struct {
	weight int
	value  func(models.Student) string
}

var weightedFields = []weightedField{
	{weightName, func(s models.Student) string { return s.Name }},
	{weightStudentID, func(s models.Student) string { return s.StudentID }},
	{weightEmail, func(s models.Student) string { return s.Email }},
	{weightCourse, func(s models.Student) string { return s.Course }},
	{weightSession, func(s models.Student) string { return s.Session }},
	{weightPhone, func(s models.Student) string { return s.Phone }},
	{weightPhone2, func(s models.Student) string { return s.Phone2 }},
	{weightFather, func(s models.Student) string { return s.FatherName }},
	{weightGender, func(s models.Student) string { return s.Gender }},
	{weightAddress, func(s models.Student) string { return s.Address }},
}

// Match reports whether the field satisfies the per-field predicate for the
// query: exact, prefix, whole token, substring, or token prefix for queries
// of at most two runes. Both sides are normalized first.
func Match(query, field string) bool {
	return matchNormalized(Normalize(query), field)
}

func matchNormalized(nq, field string) bool {
	if nq == "" || field == "" {
		return false
	}
	nf := Normalize(field)
	if nf == "" {
		return false
	}
	if nf == nq {
		return true
	}
	if strings.HasPrefix(nf, nq) {
		return true
	}
	tokens := strings.Fields(nf)
	for _, token := range tokens {
		if token == nq {
			return true
		}
	}
	if strings.Contains(nf, nq) {
		return true
	}
	if utf8.RuneCountInString(nq) <= 2 {
		for _, token := range tokens {
			if strings.HasPrefix(token, nq) {
				return true
			}
		}
	}
	return false
}

// Rank filters and orders students by search relevance. A record's score is
// the sum of the weights of its matching fields; zero-score records are
// dropped and the rest sorted by descending score, stable on ties. An empty
// or whitespace-only query returns the input unchanged.
func Rank(query string, students []models.Student) []models.Student {
	if strings.TrimSpace(query) == "" {
		return students
	}
	nq := Normalize(query)

	type scored struct {
		student models.Student
		score   int
	}
	results := make([]scored, 0, len(students))
	for _, student := range students {
		score := 0
		for _, field := range weightedFields {
			if matchNormalized(nq, field.value(student)) {
				score += field.weight
			}
		}
		if score > 0 {
			results = append(results, scored{student: student, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	ranked := make([]models.Student, len(results))
	for i, r := range results {
		ranked[i] = r.student
	}
	return ranked
}

// FilterFees narrows the fee ledger by a case-insensitive substring match on
// the display name or student identifier. This is deliberately simpler than
// the directory ranking.
func FilterFees(query string, fees []models.Fee) []models.Fee {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return fees
	}
	filtered := make([]models.Fee, 0, len(fees))
	for _, fee := range fees {
		if strings.Contains(strings.ToLower(fee.Name), term) ||
			strings.Contains(strings.ToLower(fee.StudentID), term) {
			filtered = append(filtered, fee)
		}
	}
	return filtered
}
