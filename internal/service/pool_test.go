package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/mocks"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type poolFixture struct {
	svc       *service.PoolService
	orgRepo   *mocks.MockOrganizationRepositoryIface
	allocRepo *mocks.MockAllocationRepositoryIface
}

func newPoolFixture(t *testing.T) *poolFixture {
	ctrl := gomock.NewController(t)

	orgRepo := mocks.NewMockOrganizationRepositoryIface(ctrl)
	allocRepo := mocks.NewMockAllocationRepositoryIface(ctrl)

	cfg := &config.Config{}
	cfg.License.DefaultTotalSeats = 100
	cfg.License.LowSeatThreshold = 5

	return &poolFixture{
		svc:       service.NewPoolService(orgRepo, allocRepo, nil, cfg),
		orgRepo:   orgRepo,
		allocRepo: allocRepo,
	}
}

func TestCreatePool(t *testing.T) {
	t.Run("defaults seats and derives the prefix", func(t *testing.T) {
		f := newPoolFixture(t)

		f.orgRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		pool, err := f.svc.CreatePool(context.Background(), service.CreatePoolInput{
			Name: "Acme Corp Ltd",
		})

		assert.NoError(t, err)
		assert.Equal(t, 100, pool.TotalSeats)
		assert.Equal(t, 100, pool.AvailableSeats)
		assert.Equal(t, "ACL-", pool.LicensePrefix)
		assert.Equal(t, model.PoolActive, pool.Status)
	})

	t.Run("explicit seats are kept", func(t *testing.T) {
		f := newPoolFixture(t)

		f.orgRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		pool, err := f.svc.CreatePool(context.Background(), service.CreatePoolInput{
			Name:       "Acme",
			TotalSeats: 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, 25, pool.TotalSeats)
	})

	t.Run("name is required", func(t *testing.T) {
		f := newPoolFixture(t)

		_, err := f.svc.CreatePool(context.Background(), service.CreatePoolInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSetTotalSeats(t *testing.T) {
	t.Run("resizes the pool", func(t *testing.T) {
		f := newPoolFixture(t)
		pool := activePool(10, 4)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil).Times(2)
		f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil)

		status, err := f.svc.SetTotalSeats(context.Background(), pool.ID, 20)

		assert.NoError(t, err)
		assert.Equal(t, 20, status.TotalSeats)
		assert.Equal(t, 16, status.AvailableSeats)
	})

	t.Run("rejects shrinking below seats in use", func(t *testing.T) {
		f := newPoolFixture(t)
		pool := activePool(10, 4)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)

		_, err := f.svc.SetTotalSeats(context.Background(), pool.ID, 3)

		assert.ErrorIs(t, err, domain.ErrBelowUsedSeats)
	})
}

func TestReconcile(t *testing.T) {
	f := newPoolFixture(t)
	pool := activePool(10, 7)

	f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil).Times(2)
	f.allocRepo.EXPECT().CountActiveByPool(gomock.Any(), pool.ID).Return(int64(4), nil)
	f.orgRepo.EXPECT().Save(gomock.Any(), pool).Return(nil)

	status, err := f.svc.Reconcile(context.Background(), pool.ID)

	assert.NoError(t, err)
	assert.Equal(t, 4, status.UsedSeats)
	assert.Equal(t, 6, status.AvailableSeats)
}

func TestManagers(t *testing.T) {
	t.Run("add appends to the ordered set", func(t *testing.T) {
		f := newPoolFixture(t)
		pool := activePool(10, 0)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.orgRepo.EXPECT().AddManager(gomock.Any(), gomock.Any()).Return(nil)

		manager, err := f.svc.AddManager(context.Background(), pool.ID, service.AddManagerInput{
			UserEmail: "admin@acme.example",
		})

		assert.NoError(t, err)
		assert.Equal(t, "admin@acme.example", manager.UserEmail)
		assert.Equal(t, pool.ID, manager.OrganizationID)
	})

	t.Run("add rejects a bad email", func(t *testing.T) {
		f := newPoolFixture(t)

		_, err := f.svc.AddManager(context.Background(), uuid.New(), service.AddManagerInput{
			UserEmail: "not-an-email",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("remove surfaces unknown managers", func(t *testing.T) {
		f := newPoolFixture(t)
		pool := activePool(10, 0)

		f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
		f.orgRepo.EXPECT().
			RemoveManager(gomock.Any(), pool.ID, "ghost@acme.example").
			Return(domain.ErrManagerNotFound)

		err := f.svc.RemoveManager(context.Background(), pool.ID, "ghost@acme.example")

		assert.ErrorIs(t, err, domain.ErrManagerNotFound)
	})
}

func TestDashboard(t *testing.T) {
	f := newPoolFixture(t)
	pool := activePool(10, 8)

	allocations := []*model.Allocation{
		{ID: uuid.New(), LicenseNumber: "ACL-00001"},
		{ID: uuid.New(), LicenseNumber: "ACL-00002"},
	}

	f.orgRepo.EXPECT().FindByID(gomock.Any(), pool.ID).Return(pool, nil)
	f.allocRepo.EXPECT().FindActiveByPool(gomock.Any(), pool.ID).Return(allocations, nil)

	summary, err := f.svc.Dashboard(context.Background(), pool.ID)

	assert.NoError(t, err)
	assert.Equal(t, 80, summary.UsagePercentage)
	assert.Len(t, summary.Allocations, 2)
	assert.Contains(t, summary.Warning, "2 seats remaining")
}
