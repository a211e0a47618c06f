// Package outtake records the samples that never make it onto a curve.
//
// The recorder is best-effort by design: a missing curve, an unset binding or
// absent animation data is a silent no-op, never an error that propagates to
// a caller. Outtakes keep those no-ops observable - like footage left on the
// cutting-room floor, they are collected with context so a failed take can be
// reviewed after the fact.
package outtake

import (
	"fmt"
	"strings"
	"time"
)

// Outtake is one sample or operation that did not make the cut, with enough
// context to explain why.
//
// Reasons:
//   - "channel": the channel had no keyframe-bearing curve to write to
//   - "rig": no rig, no animation data, or no bones to sample
//   - "binding": a manipulation kind had no trigger binding configured
//   - "render": a curve plot or report artifact could not be produced
type Outtake struct {
	Reason    string    // Category for systematic handling
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When it happened
	Severity  Severity  // How serious it is
}

// Context carries structured debugging information for an outtake, typically
// the channel key and live value at the moment the sample was dropped.
type Context map[string]interface{}

// Severity says how an outtake should be treated.
type Severity int

const (
	// Skip is an expected no-op: the recorder only keeps up with channels
	// that are already animated, so skipping an un-animated one is normal.
	Skip Severity = iota

	// Flub is a significant issue that may make the take incomplete.
	Flub

	// Ruin invalidates the take, e.g. the host's data vanished mid-session.
	Ruin
)

func (s Severity) String() string {
	switch s {
	case Skip:
		return "skip"
	case Flub:
		return "flub"
	case Ruin:
		return "ruin"
	default:
		return "unknown"
	}
}

// NewSkip creates an outtake with Skip severity.
func NewSkip(reason, message string, context Context) *Outtake {
	return &Outtake{
		Reason:    reason,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Skip,
	}
}

// NewFlub creates an outtake with Flub severity.
func NewFlub(reason, message string, context Context) *Outtake {
	return &Outtake{
		Reason:    reason,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Flub,
	}
}

// NewRuin creates an outtake with Ruin severity.
func NewRuin(reason, message string, context Context) *Outtake {
	return &Outtake{
		Reason:    reason,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Ruin,
	}
}

// WithSeverity overrides the severity and returns the outtake for chaining.
func (o *Outtake) WithSeverity(severity Severity) *Outtake {
	o.Severity = severity
	return o
}

// Error implements the error interface so an outtake can travel as one when
// a caller insists, even though the recorder itself never returns errors.
func (o *Outtake) Error() string {
	return fmt.Sprintf("[%s:%s] %s", o.Reason, o.Severity, o.Message)
}

// Routine reports whether the take is still considered complete despite this
// outtake.
func (o *Outtake) Routine() bool {
	return o.Severity == Skip
}

// IsRuin reports whether this outtake invalidates the take.
func (o *Outtake) IsRuin() bool {
	return o.Severity == Ruin
}

// GetContext returns a specific context value if it exists.
func (o *Outtake) GetContext(key string) (interface{}, bool) {
	if o.Context == nil {
		return nil, false
	}
	val, exists := o.Context[key]
	return val, exists
}

// DetailedString returns a comprehensive description with context.
func (o *Outtake) DetailedString() string {
	var details strings.Builder

	details.WriteString(fmt.Sprintf("[%s:%s] %s", o.Reason, o.Severity, o.Message))
	details.WriteString(fmt.Sprintf("\n  Time: %s", o.Timestamp.Format("15:04:05.000")))

	if len(o.Context) > 0 {
		details.WriteString("\n  Context:")
		for key, value := range o.Context {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, value))
		}
	}

	return details.String()
}

// Reel collects outtakes for one recording component.
//
// The reel separates routine skips from flubs so the common case - channels
// that were never animated - does not drown out real problems in a report.
type Reel struct {
	component string
	flubs     []*Outtake // Flub and Ruin severity, in order
	skips     []*Outtake // Skip severity, in order
	policy    *Policy
}

// Policy defines how accumulated outtakes should be judged.
type Policy struct {
	// HaltOnRuin marks the reel as not-continuable once a ruin is recorded.
	HaltOnRuin bool

	// MaxSkips caps accumulated skips before the reel reports the take as
	// questionable; zero means unlimited.
	MaxSkips int

	// RoutineReasons lists outtake reasons considered part of normal
	// operation. The recorder never retries anything, so there is no retry
	// configuration here.
	RoutineReasons []string
}

// DefaultPolicy returns the policy the recorder uses out of the box.
func DefaultPolicy() *Policy {
	return &Policy{
		HaltOnRuin:     true,
		MaxSkips:       0,
		RoutineReasons: []string{"channel", "binding"},
	}
}

// NewReel creates an outtake reel for a named component.
func NewReel(component string, policy *Policy) *Reel {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Reel{
		component: component,
		flubs:     make([]*Outtake, 0),
		skips:     make([]*Outtake, 0),
		policy:    policy,
	}
}

// Record adds an outtake to the reel.
func (r *Reel) Record(o *Outtake) {
	if o.Severity == Skip {
		r.skips = append(r.skips, o)
	} else {
		r.flubs = append(r.flubs, o)
	}
}

// Clean reports whether the take can still be considered complete.
func (r *Reel) Clean() bool {
	if r.policy.HaltOnRuin {
		for _, o := range r.flubs {
			if o.IsRuin() {
				return false
			}
		}
	}

	if r.policy.MaxSkips > 0 && len(r.skips) > r.policy.MaxSkips {
		return false
	}

	return true
}

// HasFlubs returns true if any non-skip outtakes were recorded.
func (r *Reel) HasFlubs() bool {
	return len(r.flubs) > 0
}

// HasSkips returns true if any skips were recorded.
func (r *Reel) HasSkips() bool {
	return len(r.skips) > 0
}

// Flubs returns all recorded flubs and ruins.
func (r *Reel) Flubs() []*Outtake {
	return r.flubs
}

// Skips returns all recorded skips.
func (r *Reel) Skips() []*Outtake {
	return r.skips
}

// Routine reports whether the given reason is part of normal operation.
func (r *Reel) Routine(reason string) bool {
	for _, routine := range r.policy.RoutineReasons {
		if routine == reason {
			return true
		}
	}
	return false
}

// Summary provides a one-line overview of the reel.
func (r *Reel) Summary() string {
	if len(r.flubs) == 0 && len(r.skips) == 0 {
		return fmt.Sprintf("[%s] clean take", r.component)
	}

	return fmt.Sprintf("[%s] %d flubs, %d skips",
		r.component, len(r.flubs), len(r.skips))
}

// DetailedReport provides a comprehensive report of everything on the reel.
func (r *Reel) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s Outtake Reel ===\n", r.component))
	report.WriteString(r.Summary() + "\n")

	if len(r.flubs) > 0 {
		report.WriteString("\nFlubs:\n")
		for i, o := range r.flubs {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, o.DetailedString()))
		}
	}

	if len(r.skips) > 0 {
		report.WriteString("\nSkips:\n")
		for i, o := range r.skips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, o.DetailedString()))
		}
	}

	return report.String()
}
