// internal/identity/verifier.go
package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Identity is a candidate email and/or phone. At least one must be set.
type Identity struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (i Identity) Empty() bool {
	return i.Email == "" && i.Phone == ""
}

// Method describes how a verification attempt was resolved.
type Method string

const (
	// Verified methods
	MethodDirectoryMatch          Method = "directory_match"
	MethodFormatOnly              Method = "format_only"
	MethodDeliverabilityConfirmed Method = "deliverability_confirmed"

	// Unverified reasons
	MethodInvalidFormat        Method = "invalid_format"
	MethodLookupError          Method = "lookup_error"
	MethodTimeout              Method = "timeout"
	MethodDeliverabilityFailed Method = "deliverability_failed"
)

// Outcome is the result of one verification attempt. CanonicalPhone carries
// the E.164 form when the phone path was taken and the format check passed.
type Outcome struct {
	Verified       bool   `json:"verified"`
	Method         Method `json:"method"`
	Detail         string `json:"detail,omitempty"`
	RawStatus      int    `json:"raw_status,omitempty"`
	CanonicalPhone string `json:"canonical_phone,omitempty"`
}

// LookupResult is the directory capability's answer for one identity.
type LookupResult struct {
	Found     bool
	RawStatus int
}

// DirectoryLookup is the primary verification tier: an external user
// directory searched by email or phone.
type DirectoryLookup interface {
	Lookup(ctx context.Context, email, phone string) (LookupResult, error)
}

// DeliverabilityResult is the fallback capability's answer for an email.
type DeliverabilityResult struct {
	Deliverable bool
	RawResult   string
}

// DeliverabilityChecker is the fallback tier used for emails the directory
// does not know.
type DeliverabilityChecker interface {
	CheckEmail(ctx context.Context, email string) (DeliverabilityResult, error)
}

// Verifier runs the two-tier verification waterfall. It performs no retries;
// the caller decides whether a failed attempt is worth repeating.
type Verifier struct {
	formatter      *Formatter
	directory      DirectoryLookup
	deliverability DeliverabilityChecker
	timeout        time.Duration
}

func NewVerifier(formatter *Formatter, directory DirectoryLookup, deliverability DeliverabilityChecker, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Verifier{
		formatter:      formatter,
		directory:      directory,
		deliverability: deliverability,
		timeout:        timeout,
	}
}

// Verify evaluates exactly one identity channel per call; phone takes
// priority when both are given. A timed-out external call never verifies.
func (v *Verifier) Verify(ctx context.Context, id Identity) Outcome {
	if id.Phone != "" {
		return v.verifyPhone(ctx, id.Phone)
	}
	return v.verifyEmail(ctx, id.Email)
}

func (v *Verifier) verifyPhone(ctx context.Context, raw string) Outcome {
	phone, err := v.formatter.NormalizePhone(raw)
	if err != nil {
		return Outcome{Method: MethodInvalidFormat, Detail: err.Error()}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	result, err := v.directory.Lookup(lookupCtx, "", phone)
	if err != nil {
		return unverifiedFromError(err, phone)
	}

	if result.Found {
		return Outcome{Verified: true, Method: MethodDirectoryMatch, RawStatus: result.RawStatus, CanonicalPhone: phone}
	}

	// A well-formed number the directory does not know is still acceptable:
	// the format check is the floor for phones.
	return Outcome{Verified: true, Method: MethodFormatOnly, RawStatus: result.RawStatus, CanonicalPhone: phone}
}

func (v *Verifier) verifyEmail(ctx context.Context, email string) Outcome {
	if !strings.Contains(email, "@") {
		return Outcome{Method: MethodInvalidFormat, Detail: "email must contain @"}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	result, err := v.directory.Lookup(lookupCtx, email, "")
	if err != nil {
		return unverifiedFromError(err, "")
	}

	if result.Found {
		return Outcome{Verified: true, Method: MethodDirectoryMatch, RawStatus: result.RawStatus}
	}

	// Directory miss: fall back to the deliverability tier.
	checkCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	check, err := v.deliverability.CheckEmail(checkCtx, email)
	if err != nil {
		return unverifiedFromError(err, "")
	}

	if check.Deliverable {
		return Outcome{Verified: true, Method: MethodDeliverabilityConfirmed, Detail: check.RawResult}
	}
	return Outcome{Method: MethodDeliverabilityFailed, Detail: check.RawResult}
}

func unverifiedFromError(err error, phone string) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Method: MethodTimeout, Detail: err.Error(), CanonicalPhone: phone}
	}
	return Outcome{Method: MethodLookupError, Detail: err.Error(), CanonicalPhone: phone}
}
