package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/lending"
	"github.com/AntonStoeckl/lending-tracker-go/shell"
	"github.com/AntonStoeckl/lending-tracker-go/shell/observable"
	"github.com/AntonStoeckl/lending-tracker-go/testutil/testdoubles"
)

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := &mockQueryHandler{result: mockQueryResult{sequenceNumber: 42}}
	metricsCollector := testdoubles.NewMetricsCollectorSpy()
	tracingCollector := testdoubles.NewTracingCollectorSpy()
	contextualLogger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryTracing[mockQuery, mockQueryResult](tracingCollector),
		observable.WithQueryContextualLogging[mockQuery, mockQueryResult](contextualLogger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, uint(42), result.GetSequenceNumber())

	labels := shell.BuildQueryLabels("TestQuery", shell.StatusSuccess)
	assert.True(t, metricsCollector.HasCounterRecord(shell.QueryHandlerCallsMetric, labels))
	assert.True(t, metricsCollector.HasDurationRecord(shell.QueryHandlerDurationMetric, labels))

	span, found := tracingCollector.FinishedSpan(shell.SpanNameQueryHandle)
	require.True(t, found)
	assert.Equal(t, "TestQuery", span.StartAttributes[shell.LogAttrQueryType])

	assert.True(t, contextualLogger.HasRecord("info", shell.LogMsgQueryStarted))
	assert.True(t, contextualLogger.HasRecord("info", shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Statuses(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus string
	}{
		{name: "unknown book", err: lending.ErrUnknownBook, expectedStatus: shell.StatusRejected},
		{name: "canceled", err: context.Canceled, expectedStatus: shell.StatusCanceled},
		{name: "timeout", err: context.DeadlineExceeded, expectedStatus: shell.StatusTimeout},
		{name: "technical error", err: errors.New("replica down"), expectedStatus: shell.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			metricsCollector := testdoubles.NewMetricsCollectorSpy()
			logger := testdoubles.NewContextualLoggerSpy()

			wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
				&mockQueryHandler{err: tt.err},
				observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
				observable.WithQueryLogging[mockQuery, mockQueryResult](logger),
			)
			require.NoError(t, err)

			// act
			_, err = wrapper.Handle(context.Background(), mockQuery{})

			// assert
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, metricsCollector.HasCounterRecord(shell.QueryHandlerCallsMetric,
				shell.BuildQueryLabels("TestQuery", tt.expectedStatus)))
			assert.True(t, logger.HasRecord("error", shell.LogMsgQueryFailed))
		})
	}
}

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryResult struct {
	sequenceNumber uint
}

func (r mockQueryResult) GetSequenceNumber() uint {
	return r.sequenceNumber
}

type mockQueryHandler struct {
	result mockQueryResult
	err    error
}

func (h *mockQueryHandler) Handle(_ context.Context, _ mockQuery) (mockQueryResult, error) {
	return h.result, h.err
}
