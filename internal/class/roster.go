package class

import (
	"slices"

	"cantinho/internal/remote"
)

// Roster is the ordered list of student IDs enrolled in a class.
type Roster []int

func RosterOf(c remote.Class) Roster {
	r := make(Roster, 0, len(c.Students))
	for _, s := range c.Students {
		r = append(r, s.ID)
	}
	return r
}

func (r Roster) Contains(studentID int) bool {
	return slices.Contains(r, studentID)
}

// Add appends studentID unless it is already enrolled.
func (r Roster) Add(studentID int) Roster {
	if r.Contains(studentID) {
		return r
	}
	return append(slices.Clone(r), studentID)
}

// Remove drops the first occurrence of studentID. Absent IDs leave r unchanged.
func (r Roster) Remove(studentID int) Roster {
	i := slices.Index(r, studentID)
	if i < 0 {
		return r
	}
	return slices.Delete(slices.Clone(r), i, i+1)
}

// enroll rebuilds c.Students in r's order. Students already on c keep their
// names; new IDs get a bare reference.
func enroll(c *remote.Class, r Roster) {
	known := make(map[int]remote.StudentRef, len(c.Students))
	for _, s := range c.Students {
		known[s.ID] = s
	}

	students := make([]remote.StudentRef, 0, len(r))
	for _, id := range r {
		ref, ok := known[id]
		if !ok {
			ref = remote.StudentRef{ID: id}
		}
		students = append(students, ref)
	}
	c.Students = students
}
