package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newVerifier(t *testing.T) (*identity.Verifier, *mocks.MockDirectoryLookup, *mocks.MockDeliverabilityChecker) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockDirectoryLookup(ctrl)
	deliverability := mocks.NewMockDeliverabilityChecker(ctrl)
	verifier := identity.NewVerifier(identity.NewFormatter("+971"), directory, deliverability, time.Second)
	return verifier, directory, deliverability
}

func TestVerifyPhone(t *testing.T) {
	t.Run("directory match", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true, RawStatus: 200}, nil)

		outcome := verifier.Verify(context.Background(), identity.Identity{Phone: "0501234567"})

		assert.True(t, outcome.Verified)
		assert.Equal(t, identity.MethodDirectoryMatch, outcome.Method)
		assert.Equal(t, "+971501234567", outcome.CanonicalPhone)
	})

	t.Run("directory miss still verifies on format", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: false, RawStatus: 404}, nil)

		outcome := verifier.Verify(context.Background(), identity.Identity{Phone: "0501234567"})

		assert.True(t, outcome.Verified)
		assert.Equal(t, identity.MethodFormatOnly, outcome.Method)
		assert.Equal(t, "+971501234567", outcome.CanonicalPhone)
	})

	t.Run("invalid format never reaches the directory", func(t *testing.T) {
		verifier, _, _ := newVerifier(t)

		outcome := verifier.Verify(context.Background(), identity.Identity{Phone: "abc"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodInvalidFormat, outcome.Method)
	})

	t.Run("timeout never verifies", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{}, context.DeadlineExceeded)

		outcome := verifier.Verify(context.Background(), identity.Identity{Phone: "0501234567"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodTimeout, outcome.Method)
	})

	t.Run("lookup error never verifies", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{}, errors.New("connection refused"))

		outcome := verifier.Verify(context.Background(), identity.Identity{Phone: "0501234567"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodLookupError, outcome.Method)
	})

	t.Run("phone takes priority over email", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		outcome := verifier.Verify(context.Background(), identity.Identity{
			Email: "a@example.com",
			Phone: "0501234567",
		})

		assert.True(t, outcome.Verified)
		assert.Equal(t, identity.MethodDirectoryMatch, outcome.Method)
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("directory match", func(t *testing.T) {
		verifier, directory, _ := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "a@example.com", "").
			Return(identity.LookupResult{Found: true, RawStatus: 200}, nil)

		outcome := verifier.Verify(context.Background(), identity.Identity{Email: "a@example.com"})

		assert.True(t, outcome.Verified)
		assert.Equal(t, identity.MethodDirectoryMatch, outcome.Method)
	})

	t.Run("directory miss falls back to deliverability", func(t *testing.T) {
		verifier, directory, deliverability := newVerifier(t)

		gomock.InOrder(
			directory.EXPECT().
				Lookup(gomock.Any(), "a@example.com", "").
				Return(identity.LookupResult{Found: false, RawStatus: 404}, nil),
			deliverability.EXPECT().
				CheckEmail(gomock.Any(), "a@example.com").
				Return(identity.DeliverabilityResult{Deliverable: true, RawResult: "ok"}, nil),
		)

		outcome := verifier.Verify(context.Background(), identity.Identity{Email: "a@example.com"})

		assert.True(t, outcome.Verified)
		assert.Equal(t, identity.MethodDeliverabilityConfirmed, outcome.Method)
	})

	t.Run("undeliverable email fails", func(t *testing.T) {
		verifier, directory, deliverability := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "a@example.com", "").
			Return(identity.LookupResult{Found: false}, nil)
		deliverability.EXPECT().
			CheckEmail(gomock.Any(), "a@example.com").
			Return(identity.DeliverabilityResult{Deliverable: false, RawResult: "invalid"}, nil)

		outcome := verifier.Verify(context.Background(), identity.Identity{Email: "a@example.com"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodDeliverabilityFailed, outcome.Method)
	})

	t.Run("deliverability timeout never verifies", func(t *testing.T) {
		verifier, directory, deliverability := newVerifier(t)

		directory.EXPECT().
			Lookup(gomock.Any(), "a@example.com", "").
			Return(identity.LookupResult{Found: false}, nil)
		deliverability.EXPECT().
			CheckEmail(gomock.Any(), "a@example.com").
			Return(identity.DeliverabilityResult{}, context.DeadlineExceeded)

		outcome := verifier.Verify(context.Background(), identity.Identity{Email: "a@example.com"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodTimeout, outcome.Method)
	})

	t.Run("missing at sign never reaches the directory", func(t *testing.T) {
		verifier, _, _ := newVerifier(t)

		outcome := verifier.Verify(context.Background(), identity.Identity{Email: "not-an-email"})

		assert.False(t, outcome.Verified)
		assert.Equal(t, identity.MethodInvalidFormat, outcome.Method)
	})
}
