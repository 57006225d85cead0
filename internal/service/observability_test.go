package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapUseCaseObserver_LogsSuccessAndFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "update-rice",
		Success: true,
		Fields:  map[string]any{"feature_id": "f1", "new_score": 2000.0},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "update-rice",
		Err:  errors.New("boom"),
	})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "service_use_case", ok.Message)
	assert.Equal(t, "service", ok.LoggerName)
	fields := ok.ContextMap()
	assert.Equal(t, "update-rice", fields["use_case"])
	assert.Equal(t, true, fields["success"])
	assert.Equal(t, "f1", fields["feature_id"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, "boom", failed.ContextMap()["error"])
}

func TestNewZapUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewZapUseCaseObserver(nil))
}

func TestFeatureService_ReportsUseCases(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := setupEnv(t, NewZapUseCaseObserver(zap.New(core)))
	p := env.newProduct(t, "Observed")

	f := env.createFeature(t, p.ID, "Observed feature")
	_, err := env.featureSv.UpdateRICE(context.Background(), f.ID, domain.RICEInput{Reach: 2, Impact: 2, Confidence: 2, Effort: 2}, "")
	require.NoError(t, err)

	created := logs.FilterField(zap.String("use_case", "create-feature")).AllUntimed()
	require.Len(t, created, 1)
	assert.EqualValues(t, 1, created[0].ContextMap()["seq"])

	rice := logs.FilterField(zap.String("use_case", "update-rice")).AllUntimed()
	require.Len(t, rice, 1)
	assert.Equal(t, 40.0, rice[0].ContextMap()["new_score"])
}
