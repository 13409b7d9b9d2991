package services

import (
	"strings"
	"time"
)

// Services defined in this package:
// - AuthService: trainer registration and login, student access-code login
// - TrainerService: the trainer's own profile and password
// - StudentService: students owned by a trainer, and a student's own profile
// - WorkoutService: workouts, today's workout and workout logs
// - MessageService: trainer and student conversation
// - ProgressService: body measurement records
// - SubscriptionService: PRO checkout, cancellation and gateway webhooks

// Clock returns the current time; tests replace it to pin the weekday
type Clock func() time.Time

// trimmedOrNil returns nil for a nil or blank value, otherwise the trimmed copy
func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// applyOptional overwrites dst when src is present; a blank src clears dst
func applyOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	*dst = trimmedOrNil(src)
}
