package models

import "time"

// Role identifies which kind of account a token was issued to
type Role string

const (
	RoleTrainer Role = "personal"
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleStudent
}

// DayOfWeek is the weekday tag a workout is scheduled for
type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

// weekdays is indexed by time.Weekday
var weekdays = [...]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOfWeekFor maps a calendar weekday to its tag
func DayOfWeekFor(d time.Weekday) DayOfWeek {
	return weekdays[d]
}

// Valid reports whether d is one of the seven tags
func (d DayOfWeek) Valid() bool {
	for _, w := range weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Plan is the subscription tier derived from a trainer's student ceiling
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

// Student ceilings per tier
const (
	PlanFreeMaxStudents = 2
	PlanProMaxStudents  = 999
)

// PlanFor maps a student ceiling to its tier
func PlanFor(maxStudents int) Plan {
	if maxStudents >= PlanProMaxStudents {
		return PlanPro
	}
	return PlanFree
}
