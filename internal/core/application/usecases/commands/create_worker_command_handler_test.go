package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkerCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	tenantID := kernel.NewUUID()
	admin := mustActor(kernel.NewUUID(), tenantID, kernel.RoleSiteAdmin)
	cmd, err := commands.NewCreateWorkerCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleDriver, "Jane Smith", "bike", admin)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Add", ctx, mock.AnythingOfType("*worker.Worker")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkerUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateWorkerCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	added := workerRepo.Calls[0].Arguments[1].(*worker.Worker)
	assert.Equal(t, tenantID, added.TenantID())
	assert.Equal(t, kernel.RoleDriver, added.Role())
	assert.True(t, added.IsAvailable())
	assert.Zero(t, added.CurrentLoad())
	workerRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateWorkerCommandHandler_Handle_NonAdminForbidden(t *testing.T) {
	ctx := t.Context()

	tenantID := kernel.NewUUID()
	cook := mustActor(kernel.NewUUID(), tenantID, kernel.RoleCook)
	cmd, err := commands.NewCreateWorkerCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleCook, "John Doe", "", cook)
	require.NoError(t, err)

	factory := new(MockWorkerUoWFactory)
	handler := commands.NewCreateWorkerCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateWorkerCommandHandler_Handle_DriverNeedsVehicle(t *testing.T) {
	ctx := t.Context()

	tenantID := kernel.NewUUID()
	admin := mustActor(kernel.NewUUID(), tenantID, kernel.RoleExecutiveChef)
	cmd, err := commands.NewCreateWorkerCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleDriver, "Jane Smith", "", admin)
	require.NoError(t, err)

	factory := new(MockWorkerUoWFactory)
	handler := commands.NewCreateWorkerCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	factory.AssertNotCalled(t, "Create")
}

func TestNewCreateWorkerCommand_RejectsNonWorkerRole(t *testing.T) {
	admin := mustActor(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleSiteAdmin)

	_, err := commands.NewCreateWorkerCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RolePacker, "Sam", "", admin)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
