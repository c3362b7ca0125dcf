package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
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

type allocationFixture struct {
	svc       *service.AllocationService
	orgRepo   *mocks.MockOrganizationRepositoryIface
	allocRepo *mocks.MockAllocationRepositoryIface
	directory *mocks.MockDirectoryLookup
}

func newAllocationFixture(t *testing.T) *allocationFixture {
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
	cfg.License.DefaultCountryCode = "+971"
	cfg.License.DefaultTotalSeats = 100
	cfg.License.LowSeatThreshold = 5

	svc := service.NewAllocationService(orgRepo, allocRepo, verification, nil, nil, nil, cfg)

	return &allocationFixture{
		svc:       svc,
		orgRepo:   orgRepo,
		allocRepo: allocRepo,
		directory: directory,
	}
}

func activePool(seats, used int) *model.Organization {
	return &model.Organization{
		ID:             uuid.New(),
		Name:           "Acme Corp Ltd",
		TotalSeats:     seats,
		UsedSeats:      used,
		AvailableSeats: seats - used,
		LicensePrefix:  "ACL-",
		Status:         model.PoolActive,
	}
}

func TestAllocate(t *testing.T) {
	t.Run("successful allocation consumes a seat and mints a number", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 0)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		gomock.InOrder(
			f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil),
			f.allocRepo.EXPECT().
				FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
				Return(nil, domain.ErrAllocationNotFound),
			f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil),
			f.allocRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		)

		allocation, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			FirstName:      "Amina",
			LastName:       "Hassan",
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, "ACL-00001", allocation.LicenseNumber)
		assert.Equal(t, "+971501234567", allocation.Phone)
		assert.Equal(t, model.AllocationActive, allocation.Status)
		assert.Equal(t, 1, pool.UsedSeats)
		assert.Equal(t, 4, pool.AvailableSeats)
	})

	t.Run("duplicate identity is rejected without mutation", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 1)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
			Return(&model.Allocation{ID: uuid.New()}, nil)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrDuplicateAllocation)
		assert.Equal(t, 1, pool.UsedSeats)
		assert.Equal(t, 0, pool.SeriesCounter)
	})

	t.Run("exhausted pool is rejected without mutation", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(2, 2)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
			Return(nil, domain.ErrAllocationNotFound)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrPoolExhausted)
		assert.Equal(t, 2, pool.UsedSeats)
		assert.Equal(t, 0, pool.SeriesCounter)
	})

	t.Run("malformed phone is a caller error, not a lookup failure", func(t *testing.T) {
		f := newAllocationFixture(t)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: uuid.New(),
			Phone:          "not-a-phone",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrInvalidPhoneFormat)
	})

	t.Run("malformed email is a caller error, not a lookup failure", func(t *testing.T) {
		f := newAllocationFixture(t)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: uuid.New(),
			Email:          "amina.example.com",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("directory failure never reaches the pool", func(t *testing.T) {
		f := newAllocationFixture(t)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{}, errors.New("upstream unavailable"))

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: uuid.New(),
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrLookupFailed)
	})

	t.Run("missing identity is rejected up front", func(t *testing.T) {
		f := newAllocationFixture(t)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: uuid.New(),
			FirstName:      "Amina",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrMissingIdentity)
	})

	t.Run("failed record write releases the seat and burns the number", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 0)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		gomock.InOrder(
			f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil),
			f.allocRepo.EXPECT().
				FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
				Return(nil, domain.ErrAllocationNotFound),
			f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil),
			f.allocRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed")),
			f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil),
		)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrPersistence)
		// Seat returned to the pool, series counter stays advanced.
		assert.Equal(t, 0, pool.UsedSeats)
		assert.Equal(t, 5, pool.AvailableSeats)
		assert.Equal(t, 1, pool.SeriesCounter)
	})

	t.Run("inactive pool refuses allocations", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 0)
		pool.Status = model.PoolInactive

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)

		_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrPoolInactive)
	})

	t.Run("concurrent allocations on the last seat", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(1, 0)

		f.directory.EXPECT().
			Lookup(gomock.Any(), "", gomock.Any()).
			Return(identity.LookupResult{Found: true}, nil).
			Times(2)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil).Times(2)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", gomock.Any()).
			Return(nil, domain.ErrAllocationNotFound).
			AnyTimes()
		f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil).Times(1)
		f.allocRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		phones := []string{"0501234567", "0507654321"}
		errs := make([]error, 2)

		var wg sync.WaitGroup
		for i, phone := range phones {
			wg.Add(1)
			go func(i int, phone string) {
				defer wg.Done()
				_, err := f.svc.Allocate(context.Background(), service.AllocateInput{
					OrganizationID: pool.ID,
					Phone:          phone,
				}, service.RequestMeta{})
				errs[i] = err
			}(i, phone)
		}
		wg.Wait()

		succeeded, exhausted := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrPoolExhausted):
				exhausted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, exhausted)
		assert.Equal(t, 1, pool.UsedSeats)
		assert.Equal(t, 0, pool.AvailableSeats)
	})
}

func TestDeallocate(t *testing.T) {
	t.Run("retires the allocation and returns the seat", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 3)
		allocation := &model.Allocation{
			ID:             uuid.New(),
			OrganizationID: pool.ID,
			LicenseNumber:  "ACL-00002",
			Status:         model.AllocationActive,
		}

		gomock.InOrder(
			f.allocRepo.EXPECT().FindByID(gomock.Any(), allocation.ID).Return(allocation, nil),
			f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil),
			f.allocRepo.EXPECT().Retire(gomock.Any(), allocation, gomock.Any()).Return(nil),
		)

		assert.NoError(t, f.svc.Deallocate(context.Background(), allocation.ID))
		assert.Equal(t, 2, pool.UsedSeats)
		assert.Equal(t, 3, pool.AvailableSeats)
	})

	t.Run("failed retire write leaves the seat consumed and the record active", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 3)
		allocation := &model.Allocation{
			ID:             uuid.New(),
			OrganizationID: pool.ID,
			LicenseNumber:  "ACL-00002",
			Status:         model.AllocationActive,
		}

		gomock.InOrder(
			f.allocRepo.EXPECT().FindByID(gomock.Any(), allocation.ID).Return(allocation, nil),
			f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil),
			f.allocRepo.EXPECT().Retire(gomock.Any(), allocation, gomock.Any()).
				Return(fmt.Errorf("%w: connection reset", domain.ErrPersistence)),
		)

		err := f.svc.Deallocate(context.Background(), allocation.ID)

		assert.ErrorIs(t, err, domain.ErrPersistence)
		// Nothing was persisted, so nothing may drift: the allocation stays
		// active and its seat stays counted.
		assert.Equal(t, model.AllocationActive, allocation.Status)
		assert.Equal(t, 3, pool.UsedSeats)
		assert.Equal(t, 2, pool.AvailableSeats)
	})

	t.Run("pool lookup failure retires nothing", func(t *testing.T) {
		f := newAllocationFixture(t)
		allocation := &model.Allocation{
			ID:             uuid.New(),
			OrganizationID: uuid.New(),
			Status:         model.AllocationActive,
		}

		f.allocRepo.EXPECT().FindByID(gomock.Any(), allocation.ID).Return(allocation, nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), allocation.OrganizationID).
			Return(nil, errors.New("connection refused"))

		err := f.svc.Deallocate(context.Background(), allocation.ID)

		assert.Error(t, err)
		assert.Equal(t, model.AllocationActive, allocation.Status)
	})

	t.Run("already retired allocation is not found", func(t *testing.T) {
		f := newAllocationFixture(t)
		allocation := &model.Allocation{ID: uuid.New(), Status: model.AllocationRetired}

		f.allocRepo.EXPECT().FindByID(gomock.Any(), allocation.ID).Return(allocation, nil)

		assert.ErrorIs(t, f.svc.Deallocate(context.Background(), allocation.ID), domain.ErrAllocationNotFound)
	})

	t.Run("freed seat is reallocated under a fresh number", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(1, 1)
		pool.SeriesCounter = 1
		allocation := &model.Allocation{
			ID:             uuid.New(),
			OrganizationID: pool.ID,
			LicenseNumber:  "ACL-00001",
			Status:         model.AllocationActive,
		}

		f.allocRepo.EXPECT().FindByID(gomock.Any(), allocation.ID).Return(allocation, nil)
		f.allocRepo.EXPECT().Retire(gomock.Any(), allocation, gomock.Any()).Return(nil)
		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil).Times(2)
		f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, "", "+971501234567").
			Return(nil, domain.ErrAllocationNotFound)
		f.allocRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.directory.EXPECT().
			Lookup(gomock.Any(), "", "+971501234567").
			Return(identity.LookupResult{Found: true}, nil)

		assert.NoError(t, f.svc.Deallocate(context.Background(), allocation.ID))

		next, err := f.svc.Allocate(context.Background(), service.AllocateInput{
			OrganizationID: pool.ID,
			Phone:          "0501234567",
		}, service.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, "ACL-00002", next.LicenseNumber)
	})
}

func TestAllocateBatch(t *testing.T) {
	t.Run("capacity pre-flight rejects the whole batch", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 0)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)

		rows := make([]service.BatchRow, 10)
		for i := range rows {
			rows[i] = service.BatchRow{Row: i + 1, Phone: "+97150123456" + string(rune('0'+i)), Valid: true}
		}

		_, err := f.svc.AllocateBatch(context.Background(), pool.ID, rows)

		assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
		assert.Equal(t, 0, pool.UsedSeats)
		assert.Equal(t, 0, pool.SeriesCounter)
	})

	t.Run("commits valid rows and reports invalid ones", func(t *testing.T) {
		f := newAllocationFixture(t)
		pool := activePool(5, 0)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil).Times(3)
		f.allocRepo.EXPECT().
			FindActiveByIdentity(gomock.Any(), pool.ID, gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrAllocationNotFound).
			Times(2)
		f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil).Times(2)
		f.allocRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		rows := []service.BatchRow{
			{Row: 1, FirstName: "Amina", Phone: "+971501234567", Valid: true, Method: "directory_match"},
			{Row: 2, FirstName: "Omar", Phone: "+971507654321", Valid: true, Method: "format_only"},
			{Row: 3, FirstName: "Bad", Valid: false},
		}

		result, err := f.svc.AllocateBatch(context.Background(), pool.ID, rows)

		assert.NoError(t, err)
		assert.Len(t, result.Allocated, 2)
		assert.Len(t, result.Failed, 1)
		assert.Equal(t, "ACL-00001", result.Allocated[0].LicenseNumber)
		assert.Equal(t, "ACL-00002", result.Allocated[1].LicenseNumber)
		assert.Equal(t, 2, pool.UsedSeats)
	})
}
