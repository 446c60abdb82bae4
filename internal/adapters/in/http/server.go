// Package http provides the inbound REST adapter. Identity arrives in
// gateway-verified headers; handlers translate requests into commands and
// queries and map domain errors onto HTTP statuses.
package http

import (
	"net/http"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler  commands.CreateOrderCommandHandler
	transitionHandler   commands.TransitionOrderCommandHandler
	createWorkerHandler commands.CreateWorkerCommandHandler
	createUserHandler   commands.CreateUserCommandHandler

	getOrderHandler    queries.GetOrderQueryHandler
	listOrdersHandler  queries.ListOrdersQueryHandler
	listWorkersHandler queries.ListWorkersQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.TransitionOrderCommandHandler,
	createWorkerHandler commands.CreateWorkerCommandHandler,
	createUserHandler commands.CreateUserCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	listWorkersHandler queries.ListWorkersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:  createOrderHandler,
		transitionHandler:   transitionHandler,
		createWorkerHandler: createWorkerHandler,
		createUserHandler:   createUserHandler,
		getOrderHandler:     getOrderHandler,
		listOrdersHandler:   listOrdersHandler,
		listWorkersHandler:  listWorkersHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1 behind the actor middleware.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", ActorMiddleware())

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.TransitionOrder)

	api.GET("/workers", s.ListWorkers)
	api.POST("/workers", s.CreateWorker)

	api.POST("/users", s.CreateUser)
}

type orderLineRequest struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []orderLineRequest `json:"items"`
	Address    string             `json:"address"`
	Notes      string             `json:"notes"`
}

type createdResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders. Customers order for themselves;
// an order taker or admin supplies the customer explicitly. The command
// handler rejects any other actor naming a customer that is not them.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID := actor.UserID()
	if req.CustomerID != "" {
		parsed, err := kernel.UUIDFromString(req.CustomerID)
		if err != nil {
			return badRequest(ctx, "invalid customer_id")
		}
		customerID = parsed
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, commands.OrderLine{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, actor, lines, req.Address, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: orderID.String()})
}

type transitionRequest struct {
	Status string `json:"status"`
}

type transitionResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransitionOrder handles POST /api/v1/orders/:id/status. Requesting the
// status the order already has succeeds without another write.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req transitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	requested, err := order.StatusFromString(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, requested, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	o, err := s.transitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, transitionResponse{
		ID:        o.ID().String(),
		Status:    o.Status().String(),
		UpdatedAt: o.UpdatedAt(),
	})
}

type orderItemResponse struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type statusChangeResponse struct {
	Status    string    `json:"status"`
	ActorName string    `json:"actor_name"`
	ActorRole string    `json:"actor_role"`
	At        time.Time `json:"at"`
}

type orderResponse struct {
	ID         string                 `json:"id"`
	CustomerID string                 `json:"customer_id"`
	Status     string                 `json:"status"`
	Items      []orderItemResponse    `json:"items"`
	TotalCents int64                  `json:"total_cents"`
	CookID     *string                `json:"cook_id,omitempty"`
	DriverID   *string                `json:"driver_id,omitempty"`
	DriverName string                 `json:"driver_name,omitempty"`
	Address    string                 `json:"address"`
	Notes      string                 `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	AssignedAt *time.Time             `json:"assigned_at,omitempty"`
	History    []statusChangeResponse `json:"history"`
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	items := make([]orderItemResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = orderItemResponse(item)
	}
	history := make([]statusChangeResponse, len(result.History))
	for i, change := range result.History {
		history[i] = statusChangeResponse(change)
	}

	return ctx.JSON(http.StatusOK, orderResponse{
		ID:         result.ID.String(),
		CustomerID: result.CustomerID.String(),
		Status:     result.Status,
		Items:      items,
		TotalCents: result.TotalCents,
		CookID:     optionalID(result.CookID),
		DriverID:   optionalID(result.DriverID),
		DriverName: result.DriverName,
		Address:    result.Address,
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
		AssignedAt: result.AssignedAt,
		History:    history,
	})
}

type orderSummaryResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	DriverName string    `json:"driver_name,omitempty"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListOrders handles GET /api/v1/orders with an optional status filter.
func (s *Server) ListOrders(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	var status *order.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.StatusFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		status = &parsed
	}

	query, err := queries.NewListOrdersQuery(actor, status)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]orderSummaryResponse, len(result))
	for i, row := range result {
		response[i] = orderSummaryResponse{
			ID:         row.ID.String(),
			CustomerID: row.CustomerID.String(),
			Status:     row.Status,
			TotalCents: row.TotalCents,
			DriverName: row.DriverName,
			Address:    row.Address,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type workerResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	VehicleType    string  `json:"vehicle_type,omitempty"`
	IsAvailable    bool    `json:"is_available"`
	CurrentLoad    int     `json:"current_load"`
	CurrentOrderID *string `json:"current_order_id,omitempty"`
}

// ListWorkers handles GET /api/v1/workers?role=cook|driver.
func (s *Server) ListWorkers(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	role, err := kernel.RoleFromString(ctx.QueryParam("role"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListWorkersQuery(actor, role)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.listWorkersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]workerResponse, len(result))
	for i, row := range result {
		response[i] = workerResponse{
			ID:             row.ID.String(),
			UserID:         row.UserID.String(),
			Name:           row.Name,
			Role:           row.Role,
			VehicleType:    row.VehicleType,
			IsAvailable:    row.IsAvailable,
			CurrentLoad:    row.CurrentLoad,
			CurrentOrderID: optionalID(row.CurrentOrderID),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type createWorkerRequest struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	VehicleType string `json:"vehicle_type"`
}

// CreateWorker handles POST /api/v1/workers. Admin only.
func (s *Server) CreateWorker(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	var req createWorkerRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "invalid user_id")
	}
	role, err := kernel.RoleFromString(req.Role)
	if err != nil {
		return writeError(ctx, err)
	}

	workerID := kernel.NewUUID()
	cmd, err := commands.NewCreateWorkerCommand(workerID, userID, role, req.Name, req.VehicleType, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createWorkerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: workerID.String()})
}

type createUserRequest struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser handles POST /api/v1/users. Admin only.
func (s *Server) CreateUser(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	var req createUserRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	role, err := kernel.RoleFromString(req.Role)
	if err != nil {
		return writeError(ctx, err)
	}

	userID := kernel.NewUUID()
	cmd, err := commands.NewCreateUserCommand(userID, role, req.Name, req.Email, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createUserHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: userID.String()})
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
