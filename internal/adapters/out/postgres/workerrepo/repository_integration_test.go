package workerrepo_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/workerrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// WorkerRepositoryIntegrationTestSuite provides integration tests for
// WorkerRepository, with a focus on the conditional writes that guard the
// claim and release races.
type WorkerRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *workerrepo.GormWorkerRepository
	tracker    *MockAggregateTracker
	tenantID   kernel.UUID
}

func (suite *WorkerRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&workerrepo.WorkerDTO{}))
}

func (suite *WorkerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE workers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = workerrepo.NewGormWorkerRepository(suite.db, suite.tracker)
	suite.tenantID = kernel.NewUUID()
}

func (suite *WorkerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestAdd_ValidWorker_Success() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Once()

	err := suite.repository.Add(ctx, cook)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, suite.tenantID, cook.ID())
	suite.Require().NoError(err)
	suite.Equal(cook.UserID(), retrieved.UserID())
	suite.Equal(kernel.RoleCook, retrieved.Role())
	suite.True(retrieved.IsAvailable())
	suite.Equal(0, retrieved.CurrentLoad())
	suite.Nil(retrieved.CurrentOrderID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestGetByUserID_ExistingWorker_ReturnsWorker() {
	ctx := context.Background()

	driver := suite.createWorker(kernel.RoleDriver, "Colette")
	suite.tracker.On("TrackAggregate", driver.ID(), driver).Once()
	suite.Require().NoError(suite.repository.Add(ctx, driver))

	retrieved, err := suite.repository.GetByUserID(ctx, suite.tenantID, driver.UserID())
	suite.Require().NoError(err)
	suite.Equal(driver.ID(), retrieved.ID())
	suite.Equal("bike", retrieved.VehicleType())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestGet_OtherTenant_ReturnsNotFoundError() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, cook))

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID(), cook.ID())
	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestUpdateIfAvailable_StillAvailable_PersistsClaim() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, cook))

	orderID := kernel.NewUUID()
	suite.Require().NoError(cook.Claim(orderID, time.Now().UTC()))

	err := suite.repository.UpdateIfAvailable(ctx, cook)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, suite.tenantID, cook.ID())
	suite.Require().NoError(err)
	suite.False(retrieved.IsAvailable())
	suite.Equal(1, retrieved.CurrentLoad())
	suite.Require().NotNil(retrieved.CurrentOrderID())
	suite.True(retrieved.CurrentOrderID().IsEqual(orderID))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestUpdateIfAvailable_ConcurrentClaimWon_ReturnsConflict() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, cook))

	// Both handlers loaded the same available snapshot.
	snapshot, err := suite.repository.Get(ctx, suite.tenantID, cook.ID())
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(cook.Claim(kernel.NewUUID(), now))
	suite.Require().NoError(suite.repository.UpdateIfAvailable(ctx, cook))

	// The loser's write must not double-book the worker.
	suite.Require().NoError(snapshot.Claim(kernel.NewUUID(), now))
	err = suite.repository.UpdateIfAvailable(ctx, snapshot)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestUpdateIfLoad_MatchingLoad_PersistsRelease() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, cook))

	now := time.Now().UTC()
	suite.Require().NoError(cook.Claim(kernel.NewUUID(), now))
	suite.Require().NoError(suite.repository.UpdateIfAvailable(ctx, cook))

	preReleaseLoad := cook.CurrentLoad()
	suite.Require().NoError(cook.Release(now))
	err := suite.repository.UpdateIfLoad(ctx, cook, preReleaseLoad)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, suite.tenantID, cook.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.IsAvailable())
	suite.Equal(0, retrieved.CurrentLoad())
	suite.Nil(retrieved.CurrentOrderID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestUpdateIfLoad_StaleLoad_ReturnsConflict() {
	ctx := context.Background()

	cook := suite.createWorker(kernel.RoleCook, "Remy")
	suite.tracker.On("TrackAggregate", cook.ID(), cook).Once()
	suite.Require().NoError(suite.repository.Add(ctx, cook))

	now := time.Now().UTC()
	suite.Require().NoError(cook.Claim(kernel.NewUUID(), now))
	preReleaseLoad := cook.CurrentLoad()
	suite.Require().NoError(cook.Release(now))

	// Stored row still has load 0; the expected pre-release load never matches.
	err := suite.repository.UpdateIfLoad(ctx, cook, preReleaseLoad)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestListAvailable_ReturnsSelectionOrder() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	// Busy cook must not show up as a candidate.
	busy := suite.createWorker(kernel.RoleCook, "Busy")
	suite.Require().NoError(busy.Claim(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, busy))

	idle := suite.createWorker(kernel.RoleCook, "Idle")
	suite.Require().NoError(suite.repository.Add(ctx, idle))

	loaded, err := worker.RestoreWorker(
		kernel.NewUUID(), kernel.NewUUID(), suite.tenantID, kernel.RoleCook,
		"Loaded", "", true, 2, nil,
		time.Now().UTC().Add(-time.Hour), time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, loaded))

	driver := suite.createWorker(kernel.RoleDriver, "Colette")
	suite.Require().NoError(suite.repository.Add(ctx, driver))

	candidates, err := suite.repository.ListAvailable(ctx, suite.tenantID, kernel.RoleCook)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 2)
	suite.Equal("Idle", candidates[0].Name())
	suite.Equal("Loaded", candidates[1].Name())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestListEngaged_ReturnsBusyWorkersAcrossTenants() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)

	busy := suite.createWorker(kernel.RoleCook, "Busy")
	suite.Require().NoError(busy.Claim(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, busy))

	foreignBusy, err := worker.NewWorker(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.RoleDriver, "Foreign", "car", time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(foreignBusy.Claim(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, foreignBusy))

	engaged, err := suite.repository.ListEngaged(ctx)
	suite.Require().NoError(err)
	suite.Len(engaged, 2)

	suite.tracker.AssertExpectations(suite.T())
}

// createWorker builds an available worker in the suite tenant. Drivers get a
// bike so the vehicle rule passes.
func (suite *WorkerRepositoryIntegrationTestSuite) createWorker(role kernel.Role, name string) *worker.Worker {
	vehicleType := ""
	if role == kernel.RoleDriver {
		vehicleType = "bike"
	}

	w, err := worker.NewWorker(
		kernel.NewUUID(), kernel.NewUUID(), suite.tenantID,
		role, name, vehicleType, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return w
}

func TestWorkerRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerRepositoryIntegrationTestSuite))
}
