package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/mocks"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type bulkFixture struct {
	svc            *service.BulkValidationService
	orgRepo        *mocks.MockOrganizationRepositoryIface
	allocRepo      *mocks.MockAllocationRepositoryIface
	directory      *mocks.MockDirectoryLookup
	deliverability *mocks.MockDeliverabilityChecker
}

func newBulkFixture(t *testing.T) *bulkFixture {
	ctrl := gomock.NewController(t)

	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	allocRepo := mocks.NewMockAllocationRepositoryIface(ctrl)
	logRepo := mocks.NewMockVerificationLogRepositoryIface(ctrl)
	directory := mocks.NewMockDirectoryLookup(ctrl)
	deliverability := mocks.NewMockDeliverabilityChecker(ctrl)

	logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	verifier := identity.NewVerifier(identity.NewFormatter("+971"), directory, deliverability, time.Second)
	verification := service.NewVerificationService(verifier, logRepo)

	cfg := &config.Config{}
	cfg.License.LowSeatThreshold = 5

	return &bulkFixture{
		svc:            service.NewBulkValidationService(orgRepo, allocRepo, verification, cfg),
		orgRepo:        orgRepo,
		allocRepo:      allocRepo,
		directory:      directory,
		deliverability: deliverability,
	}
}

func TestBulkValidate(t *testing.T) {
	t.Run("mixed batch", func(t *testing.T) {
		f := newBulkFixture(t)
		pool := activePool(10, 0)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)

		// Row 1: phone verifies against the directory.
		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)
		// Row 2: no phone, email falls back to deliverability.
		f.directory.EXPECT().
			Lookup(gomock.Any(), "omar@example.com", "").
			Return(identity.LookupResult{Found: false}, nil)
		f.deliverability.EXPECT().
			CheckEmail(gomock.Any(), "omar@example.com").
			Return(identity.DeliverabilityResult{Deliverable: true}, nil)

		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrAllocationNotFound).
			Times(2)

		rows := []service.RawRow{
			{Row: 1, FullName: "Amina Hassan", Phone: "0501234567"},
			{Row: 2, FullName: "Omar Khalid", Email: "omar@example.com"},
			{Row: 3, FullName: "No Contact"},
		}

		report, err := f.svc.Validate(context.Background(), pool.ID, rows, service.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 2, report.ValidCount)
		assert.Equal(t, 1, report.InvalidCount)
		assert.True(t, report.CanProceed)

		assert.True(t, report.Rows[0].Valid)
		assert.Equal(t, "Amina", report.Rows[0].FirstName)
		assert.Equal(t, "Hassan", report.Rows[0].LastName)
		assert.Equal(t, "+971501234567", report.Rows[0].Phone)

		assert.True(t, report.Rows[1].Valid)
		assert.Equal(t, "deliverability_confirmed", report.Rows[1].Method)

		assert.False(t, report.Rows[2].Valid)
		assert.Contains(t, report.Rows[2].Errors[0], domain.ErrMissingIdentity.Error())
	})

	t.Run("duplicate identity invalidates the row", func(t *testing.T) {
		f := newBulkFixture(t)
		pool := activePool(10, 1)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
			Return(&model.Allocation{ID: uuid.New()}, nil)

		report, err := f.svc.Validate(context.Background(), pool.ID, []service.RawRow{
			{Row: 1, FullName: "Amina Hassan", Phone: "0501234567"},
		}, service.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, 0, report.ValidCount)
		assert.False(t, report.CanProceed)
		assert.Contains(t, report.Rows[0].Errors[0], "already allocated")
	})

	t.Run("more valid rows than seats blocks the batch", func(t *testing.T) {
		f := newBulkFixture(t)
		pool := activePool(10, 8)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.directory.EXPECT().
			Lookup(gomock.Any(), "", gomock.Any()).
			Return(identity.LookupResult{Found: true}, nil).
			Times(3)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrAllocationNotFound).
			Times(3)

		rows := []service.RawRow{
			{Row: 1, FullName: "A One", Phone: "0501234561"},
			{Row: 2, FullName: "B Two", Phone: "0501234562"},
			{Row: 3, FullName: "C Three", Phone: "0501234563"},
		}

		report, err := f.svc.Validate(context.Background(), pool.ID, rows, service.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, 3, report.ValidCount)
		assert.Equal(t, 2, report.AvailableSeats)
		assert.False(t, report.CanProceed)
		assert.Contains(t, report.Warning, "insufficient seats")
	})

	t.Run("low seat warning", func(t *testing.T) {
		f := newBulkFixture(t)
		pool := activePool(10, 7)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
			Return(nil, domain.ErrAllocationNotFound)

		report, err := f.svc.Validate(context.Background(), pool.ID, []service.RawRow{
			{Row: 1, FullName: "Amina Hassan", Phone: "0501234567"},
		}, service.RequestMeta{})

		assert.NoError(t, err)
		assert.True(t, report.CanProceed)
		assert.Contains(t, report.Warning, "3 seats remaining")
	})

	t.Run("unknown organization", func(t *testing.T) {
		f := newBulkFixture(t)
		orgID := uuid.New()

		f.orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(nil, domain.ErrOrganizationNotFound)

		_, err := f.svc.Validate(context.Background(), orgID, []service.RawRow{{Row: 1}}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}
