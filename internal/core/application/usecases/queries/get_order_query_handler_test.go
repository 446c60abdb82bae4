package queries_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
	tenantID  kernel.UUID
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetOrderQueryHandler(db)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders").Error
	suite.Require().NoError(err)
	suite.tenantID = kernel.NewUUID()
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_StaffReadsFullReadModel() {
	customerID := kernel.NewUUID()
	testOrder := suite.seedDeliveringOrder(customerID)

	chef := suite.actor(kernel.NewUUID(), kernel.RoleExecutiveChef)
	query, err := queries.NewGetOrderQuery(testOrder.ID(), chef)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), result.ID)
	suite.Equal(customerID, result.CustomerID)
	suite.Equal("DELIVERING", result.Status)
	suite.Equal(testOrder.TotalCents(), result.TotalCents)
	suite.Equal("12 Via Roma", result.Address)
	suite.Require().NotNil(result.CookID)
	suite.True(result.CookID.IsEqual(*testOrder.CookID()))
	suite.Require().NotNil(result.DriverID)
	suite.True(result.DriverID.IsEqual(*testOrder.DriverID()))
	suite.Equal("Colette", result.DriverName)
	suite.NotNil(result.AssignedAt)

	suite.Require().Len(result.Items, 1)
	suite.Equal("pizza-margherita", result.Items[0].ProductID)
	suite.Equal(2, result.Items[0].Quantity)
	suite.Equal(int64(1250), result.Items[0].UnitPriceCents)

	suite.Require().Len(result.History, 1)
	suite.Equal("DELIVERING", result.History[0].Status)
	suite.Equal("Colette", result.History[0].ActorName)
	suite.Equal("driver", result.History[0].ActorRole)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_CustomerReadsOwnOrder() {
	customerID := kernel.NewUUID()
	testOrder := suite.seedDeliveringOrder(customerID)

	customer := suite.actor(customerID, kernel.RoleCustomer)
	query, err := queries.NewGetOrderQuery(testOrder.ID(), customer)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), result.ID)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_CustomerCannotReadAnotherCustomersOrder() {
	testOrder := suite.seedDeliveringOrder(kernel.NewUUID())

	otherCustomer := suite.actor(kernel.NewUUID(), kernel.RoleCustomer)
	query, err := queries.NewGetOrderQuery(testOrder.ID(), otherCustomer)
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_OtherTenant_ReturnsNotFound() {
	testOrder := suite.seedDeliveringOrder(kernel.NewUUID())

	foreignActor, err := kernel.NewActor(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleExecutiveChef)
	suite.Require().NoError(err)
	query, err := queries.NewGetOrderQuery(testOrder.ID(), foreignActor)
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_NonExistentOrder_ReturnsNotFound() {
	chef := suite.actor(kernel.NewUUID(), kernel.RoleExecutiveChef)
	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), chef)
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrderQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderQuery constructor")
}

// actor builds an actor in the suite tenant.
func (suite *GetOrderQueryHandlerTestSuite) actor(userID kernel.UUID, role kernel.Role) kernel.Actor {
	actor, err := kernel.NewActor(userID, suite.tenantID, role)
	suite.Require().NoError(err)
	return actor
}

// seedDeliveringOrder stores an order deep enough into the lifecycle to
// exercise every read model column: assigned cook and driver, a stamped
// assignment time, and an audit entry.
func (suite *GetOrderQueryHandlerTestSuite) seedDeliveringOrder(customerID kernel.UUID) *order.Order {
	item, err := order.NewItem("pizza-margherita", "Margherita", 2, 1250)
	suite.Require().NoError(err)

	cookID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	assignedAt := now.Add(-5 * time.Minute)

	testOrder, err := order.RestoreOrder(
		kernel.NewUUID(), suite.tenantID, customerID,
		[]order.Item{item}, 2500,
		order.Delivering,
		&cookID, &driverID, "Colette",
		"12 Via Roma", "ring twice",
		now.Add(-time.Hour), now, &assignedAt,
		[]order.StatusChange{
			order.RestoreStatusChange(order.Delivering, "Colette", kernel.RoleDriver, now),
		},
	)
	suite.Require().NoError(err)

	repo := orderrepo.NewGormOrderRepository(suite.db, &noopAggregateTracker{})
	suite.Require().NoError(repo.Add(context.Background(), testOrder))
	return testOrder
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}

// noopAggregateTracker satisfies the repository tracker; query tests have no
// use for tracked aggregates.
type noopAggregateTracker struct{}

func (t *noopAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}
