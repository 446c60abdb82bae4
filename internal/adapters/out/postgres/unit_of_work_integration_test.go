package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/userrepo"
	"orderflow/internal/adapters/out/postgres/workerrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &workerrepo.WorkerDTO{}, &userrepo.UserDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, workers, users").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work
// instances with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.WorkerRepository())
	suite.NotNil(uow1.UserRepository())
	suite.NotNil(uow2.OrderRepository())
	suite.NotNil(uow2.WorkerRepository())
	suite.NotNil(uow2.UserRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit, and rollback
// behavior including the edge cases handlers rely on.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Begin on an active transaction is a no-op, not a nested transaction.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Rollback after commit is the deferred-cleanup path.
	err = uow.Rollback(ctx)
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Commit without an active transaction fails.
	err = uow.Commit(ctx)
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

// TestUnitOfWork_CommitPersistsAcrossRepositories verifies that writes on
// several repositories inside one unit of work land atomically.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsAcrossRepositories() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder(tenantID)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	cook := suite.createTestCook(tenantID)
	suite.Require().NoError(uow.WorkerRepository().Add(ctx, cook))

	suite.Require().NoError(uow.Commit(ctx))

	// A fresh unit of work without a transaction reads the main connection.
	reader := suite.factory.Create()
	persistedOrder, err := reader.OrderRepository().Get(ctx, tenantID, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), persistedOrder.ID())

	persistedCook, err := reader.WorkerRepository().Get(ctx, tenantID, cook.ID())
	suite.Require().NoError(err)
	suite.Equal(cook.ID(), persistedCook.ID())
}

// TestUnitOfWork_RollbackDiscardsWrites verifies nothing leaks out of a
// rolled-back transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsWrites() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder(tenantID)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	suite.Require().NoError(uow.Rollback(ctx))

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Zero(count)
}

// TestUnitOfWork_RepositoriesShareTransaction verifies that a write is
// visible to reads through the same unit of work before commit, and invisible
// outside it.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoriesShareTransaction() {
	ctx := context.Background()
	tenantID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder(tenantID)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	// Same transaction sees the uncommitted row.
	inside, err := uow.OrderRepository().Get(ctx, tenantID, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), inside.ID())

	// A different unit of work does not.
	outside := suite.factory.Create()
	_, err = outside.OrderRepository().Get(ctx, tenantID, testOrder.ID())
	suite.Require().Error(err)

	suite.Require().NoError(uow.Rollback(ctx))
}

// createTestOrder creates a single-line order for the given tenant.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(tenantID kernel.UUID) *order.Order {
	item, err := order.NewItem("pizza-margherita", "Margherita", 1, 1250)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), tenantID, kernel.NewUUID(),
		[]order.Item{item},
		"12 Via Roma", "",
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

// createTestCook creates an available cook for the given tenant.
func (suite *UnitOfWorkIntegrationTestSuite) createTestCook(tenantID kernel.UUID) *worker.Worker {
	cook, err := worker.NewWorker(
		kernel.NewUUID(), kernel.NewUUID(), tenantID,
		kernel.RoleCook, "Remy", "", time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return cook
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
