package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stocky/internal/analytics"
	"stocky/internal/caching"
	"stocky/internal/export"
	"stocky/internal/services"
	"stocky/testhelpers"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Archive(ctx context.Context, format export.Format) (*services.ArchivedReport, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ArchivedReport), args.Error(1)
}

type MockTaskEnqueuer struct {
	mock.Mock
}

func (m *MockTaskEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func taskWithFormat(format export.Format) interface{} {
	return mock.MatchedBy(func(task *asynq.Task) bool {
		var payload ReportArchivePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return false
		}
		return task.Type() == TypeReportArchive && payload.Format == string(format)
	})
}

func TestLowStockAlertService_CheckLowStock(t *testing.T) {
	store := testhelpers.SetupTestStore(t)
	testhelpers.SeedStore(t, store, testhelpers.SetupTestSnapshot(time.Now()))
	analyticsService := analytics.NewService(store, caching.NewMemoryCacheService(), time.Minute, zap.NewNop())

	alerts, err := NewLowStockAlertService(analyticsService, zap.NewNop()).CheckLowStock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []LowStockAlert{
		{Item: "chips", Quantity: 1, Minimum: 5, Reorder: 0},
		{Item: "coke", Quantity: 2, Minimum: 5, Reorder: 11},
	}, alerts)
}

func TestLowStockAlertService_NeverSoldItemsGetNoReorder(t *testing.T) {
	store := testhelpers.SetupTestStore(t)
	snapshot := testhelpers.SetupTestSnapshot(time.Now())
	snapshot.Inventory["gum"] = 0
	testhelpers.SeedStore(t, store, snapshot)
	analyticsService := analytics.NewService(store, caching.NewMemoryCacheService(), time.Minute, zap.NewNop())

	alerts, err := NewLowStockAlertService(analyticsService, zap.NewNop()).CheckLowStock(context.Background())
	require.NoError(t, err)

	sold := analytics.SoldTotals(snapshot.History)
	for _, alert := range alerts {
		if sold[alert.Item] == 0 {
			assert.Zero(t, alert.Reorder, "never-sold %q got a reorder suggestion", alert.Item)
		} else {
			assert.Positive(t, alert.Reorder, alert.Item)
		}
	}
	assert.Len(t, alerts, 3)
}

func TestLowStockAlertService_EmptyInventory(t *testing.T) {
	store := testhelpers.SetupTestStore(t)
	analyticsService := analytics.NewService(store, caching.NewMemoryCacheService(), time.Minute, zap.NewNop())
	service := NewLowStockAlertService(analyticsService, zap.NewNop())

	alerts, err := service.CheckLowStock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.NoError(t, service.ScheduledLowStockCheck(context.Background()))
}

type ReportTasksTestSuite struct {
	suite.Suite
	ctx      context.Context
	archive  *MockArchiveService
	archiver *ReportArchiver
}

func (suite *ReportTasksTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.archive = &MockArchiveService{}
	suite.archiver = NewReportArchiver(suite.archive, zap.NewNop())
}

func (suite *ReportTasksTestSuite) TearDownTest() {
	suite.archive.AssertExpectations(suite.T())
}

func TestReportTasksTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTasksTestSuite))
}

func (suite *ReportTasksTestSuite) TestHandlerArchivesRequestedFormat() {
	task, err := NewReportArchiveTask(export.FormatPDF)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), TypeReportArchive, task.Type())

	suite.archive.On("Archive", suite.ctx, export.FormatPDF).
		Return(&services.ArchivedReport{Object: "reports/2024-05-10/stock-report.pdf"}, nil).Once()

	assert.NoError(suite.T(), suite.archiver.ReportArchiveHandler(suite.ctx, task))
}

func (suite *ReportTasksTestSuite) TestHandlerReturnsArchiveErrorForRetry() {
	task, err := NewReportArchiveTask(export.FormatXLSX)
	require.NoError(suite.T(), err)

	suite.archive.On("Archive", suite.ctx, export.FormatXLSX).Return(nil, errors.New("bucket unavailable")).Once()

	err = suite.archiver.ReportArchiveHandler(suite.ctx, task)
	require.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, asynq.SkipRetry))
}

func (suite *ReportTasksTestSuite) TestHandlerSkipsRetryForBadPayload() {
	err := suite.archiver.ReportArchiveHandler(suite.ctx, asynq.NewTask(TypeReportArchive, []byte(`{"format":"csv"}`)))
	assert.ErrorIs(suite.T(), err, asynq.SkipRetry)

	err = suite.archiver.ReportArchiveHandler(suite.ctx, asynq.NewTask(TypeReportArchive, []byte(`not json`)))
	assert.ErrorIs(suite.T(), err, asynq.SkipRetry)
}

func (suite *ReportTasksTestSuite) TestSyncDispatcherArchivesEveryFormat() {
	suite.archive.On("Archive", suite.ctx, export.FormatXLSX).Return(&services.ArchivedReport{Object: "a.xlsx"}, nil).Once()
	suite.archive.On("Archive", suite.ctx, export.FormatPDF).Return(nil, errors.New("upload failed")).Once()

	err := NewSyncArchiveDispatcher(suite.archive, zap.NewNop()).DispatchArchive(suite.ctx)
	assert.EqualError(suite.T(), err, "upload failed")
}

func TestQueuedArchiveDispatcher_EnqueuesEveryFormat(t *testing.T) {
	ctx := context.Background()
	client := &MockTaskEnqueuer{}
	client.On("EnqueueContext", ctx, taskWithFormat(export.FormatXLSX)).Return(&asynq.TaskInfo{ID: "task-1"}, nil).Once()
	client.On("EnqueueContext", ctx, taskWithFormat(export.FormatPDF)).Return(&asynq.TaskInfo{ID: "task-2"}, nil).Once()

	err := NewQueuedArchiveDispatcher(client, zap.NewNop()).DispatchArchive(ctx)
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestQueuedArchiveDispatcher_ReportsEnqueueFailure(t *testing.T) {
	ctx := context.Background()
	client := &MockTaskEnqueuer{}
	client.On("EnqueueContext", ctx, mock.Anything).Return(nil, errors.New("redis down")).Twice()

	err := NewQueuedArchiveDispatcher(client, zap.NewNop()).DispatchArchive(ctx)
	assert.ErrorContains(t, err, "redis down")
	client.AssertExpectations(t)
}
