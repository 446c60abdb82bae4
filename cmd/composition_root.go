package cmd

import (
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/queue"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/userrepo"
	"orderflow/internal/adapters/out/rabbitmq"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires the adapters to the use cases. Handlers are created
// on demand; the shared pieces (database, broker, notifier) live here.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	amqpClient *rabbitmq.Client
	workQueue  *rabbitmq.AmqpWorkQueue
	notifier   *notify.FanoutNotifier
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	amqpClient *rabbitmq.Client,
	logger *slog.Logger,
) CompositionRoot {
	workQueue := rabbitmq.NewAmqpWorkQueue(amqpClient.Channel())
	publisher := rabbitmq.NewNotificationPublisher(amqpClient.Channel())
	mailer := notify.NewSMTPMailer(config.SMTPAddr, config.SMTPFrom, config.SMTPUsername, config.SMTPPassword)
	// Notification lookups read outside any business transaction.
	users := userrepo.NewGormUserRepository(gormDB, untrackedAggregates{})

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		amqpClient: amqpClient,
		workQueue:  workQueue,
		notifier:   notify.NewFanoutNotifier(publisher, mailer, users, logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.workQueue, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(
		f,
		services.NewTransitionPolicy(),
		c.notifier,
		c.workQueue,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAssignWorkerCommandHandler() commands.AssignWorkerCommandHandler {
	var workerFactory commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	var orderFactory commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignWorkerCommandHandler(
		workerFactory,
		orderFactory,
		services.NewWorkerSelector(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateProcessOrderEventCommandHandler() commands.ProcessOrderEventCommandHandler {
	var orderFactory commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	assignHandler := c.CreateAssignWorkerCommandHandler()
	transitionHandler := c.CreateTransitionOrderCommandHandler()
	return commands.NewProcessOrderEventCommandHandler(
		orderFactory,
		&assignHandler,
		&transitionHandler,
		c.workQueue,
		c.logger,
	)
}

func (c *CompositionRoot) CreateCreateWorkerCommandHandler() commands.CreateWorkerCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateWorkerCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateUserCommandHandler() commands.CreateUserCommandHandler {
	var f commands.UserUoWFactory = FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateUserCommandHandler(f)
}

func (c *CompositionRoot) CreateReconcileCommandHandler() commands.ReconcileCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileCommandHandler(f, c.workQueue, c.config.StaleAfter, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListWorkersQueryHandler() queries.ListWorkersQueryHandler {
	return queries.NewListWorkersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateCreateWorkerCommandHandler(),
		c.CreateCreateUserCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListWorkersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateWorkflowConsumer() *queue.Consumer {
	handler := c.CreateProcessOrderEventCommandHandler()
	return queue.NewConsumer(
		c.amqpClient,
		&handler,
		rabbitmq.WorkflowQueue,
		c.config.AmqpPrefetch,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReconcileCommandHandler(),
		c.config.ReconcileSchedule,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// untrackedAggregates satisfies repository tracking for read-only use.
type untrackedAggregates struct{}

func (untrackedAggregates) TrackAggregate(_ kernel.UUID, _ any) {}
