package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/importer"
	"github.com/alexanderramin/prodboard/internal/testutil"
	"github.com/alexanderramin/prodboard/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validBacklogSchema() *importer.BacklogSchema {
	return &importer.BacklogSchema{
		Product: importer.ProductImport{ShortID: "CRM01", Name: "CRM", Description: "Customer records"},
		Features: []importer.FeatureImport{
			{
				Ref: "login", Title: "Single sign-on", Description: "Log in with the company identity provider",
				Priority: "must", StartDate: "2026-11-01", EndDate: "2026-11-20",
				RICE: &importer.RICEImport{Reach: intPtr(5), Impact: intPtr(10), Confidence: intPtr(8), Effort: intPtr(2)},
			},
			{
				Ref: "audit", Title: "Audit log", Description: "Record every login attempt",
				StartDate: "2026-11-21", EndDate: "2026-11-30", DependsOn: []string{"login"},
			},
			{
				Ref: "reports", Title: "Login reports", Description: "Weekly summary of sign-ins",
				StartDate: "2026-12-01", EndDate: "2026-12-10", DependsOn: []string{"login", "audit"},
			},
		},
	}
}

func newImportSvc(env *testEnv) ImportService {
	return NewImportService(env.uow, ValidationPolicy{})
}

func TestImportService_CreatesProductAndFeatures(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	result, err := newImportSvc(env).ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.NoError(t, err)
	assert.True(t, result.ProductCreated)
	assert.Equal(t, "CRM01", result.Product.ShortID)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 3, result.DependencyCount)

	features, err := env.features.ListByProduct(ctx, result.Product.ID)
	require.NoError(t, err)
	require.Len(t, features, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{features[0].Seq, features[1].Seq, features[2].Seq})
	assert.Equal(t, "Single sign-on", features[0].Title)
	assert.Equal(t, 2000.0, features[0].RICEScore)
	assert.Equal(t, domain.PriorityMust, features[0].Priority)
	assert.Len(t, features[2].Dependencies, 2)

	history, err := env.history.ListByFeature(ctx, features[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "imported", history[0].Note)
}

func TestImportService_ExportReimportIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := newImportSvc(env)

	first, err := svc.ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService(env.products, env.features).WriteBacklog(ctx, first.Product.ID, &buf, importer.FormatYAML))
	before, err := env.features.ListByProduct(ctx, first.Product.ID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backlog.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	second, err := svc.ImportBacklog(ctx, path, "")
	require.NoError(t, err)
	assert.False(t, second.ProductCreated)
	assert.Equal(t, first.Product.ID, second.Product.ID)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Updated)

	after, err := env.features.ListByProduct(ctx, first.Product.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Seq, after[i].Seq)
		assert.Equal(t, before[i].RICEScore, after[i].RICEScore)
		assert.ElementsMatch(t, before[i].Dependencies, after[i].Dependencies)
	}

	history, err := env.history.ListByFeature(ctx, before[0].ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "unchanged scores add no audit rows")
}

func TestImportService_UpdatedScoreIsAudited(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := newImportSvc(env)

	first, err := svc.ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.NoError(t, err)

	schema, err := NewExportService(env.products, env.features).ExportBacklog(ctx, first.Product.ID)
	require.NoError(t, err)
	schema.Features[1].RICE = &importer.RICEImport{Reach: intPtr(2), Impact: intPtr(2), Confidence: intPtr(2), Effort: intPtr(2)}

	_, err = svc.ImportBacklogFromSchema(ctx, schema, "")
	require.NoError(t, err)

	history, err := env.history.ListByFeature(ctx, schema.Features[1].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.HistoryRICEScore, history[1].Field)
	assert.Equal(t, "1.00", history[1].OldValue)
	assert.Equal(t, "40.00", history[1].NewValue)
}

func TestImportService_IntoExplicitProduct(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	target := env.newProduct(t, "Target", testutil.WithShortID("TGT01"))
	env.createFeature(t, target.ID, "Existing work")

	result, err := newImportSvc(env).ImportBacklogFromSchema(ctx, validBacklogSchema(), target.ID)
	require.NoError(t, err)
	assert.False(t, result.ProductCreated)
	assert.Equal(t, target.ID, result.Product.ID)

	features, err := env.features.ListByProduct(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, features, 4)
	assert.Equal(t, 4, features[3].Seq, "imported features continue the sequence")

	_, err = env.products.GetByShortID(ctx, "CRM01")
	assert.Error(t, err, "file product should not be created")
}

func TestImportService_SchemaErrorsCollected(t *testing.T) {
	env := setupEnv(t)
	schema := validBacklogSchema()
	schema.Product.Name = ""
	schema.Features[1].DependsOn = []string{"ghost"}

	_, err := newImportSvc(env).ImportBacklogFromSchema(context.Background(), schema, "")
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
}

func TestImportService_FeatureRulesApply(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	schema := validBacklogSchema()
	schema.Features[1].Title = "single SIGN-ON"
	schema.Features[2].StartDate = "2026-11-25"

	_, err := newImportSvc(env).ImportBacklogFromSchema(ctx, schema, "")
	require.Error(t, err)
	assert.ElementsMatch(t, []validation.Code{validation.CodeDuplicate, validation.CodeDuplicate, validation.CodeDependencyNotFinish}, validationCodes(err))

	_, err = env.products.GetByShortID(ctx, "CRM01")
	assert.Error(t, err, "product creation should roll back")
}

func TestImportService_RescheduleCheckedAgainstStoredDependents(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := newImportSvc(env)

	first, err := svc.ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.NoError(t, err)

	schema, err := NewExportService(env.products, env.features).ExportBacklog(ctx, first.Product.ID)
	require.NoError(t, err)
	var login importer.FeatureImport
	for _, f := range schema.Features {
		if f.Title == "Single sign-on" {
			login = f
		}
	}
	require.NotEmpty(t, login.ID)
	login.EndDate = "2026-11-28"
	schema.Features = []importer.FeatureImport{login}

	_, err = svc.ImportBacklogFromSchema(ctx, schema, "")
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, validationCodes(err), validation.CodeDependencyNotFinish)
	assert.Contains(t, err.Error(), `"Audit log"`)

	stored, err := env.features.GetByID(ctx, login.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-20", stored.EndDate.Format("2006-01-02"))
}

func TestImportService_RejectsTakenSeq(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := newImportSvc(env)

	first, err := svc.ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.NoError(t, err)

	schema := &importer.BacklogSchema{
		Product: importer.ProductImport{ShortID: "CRM01", Name: "CRM"},
		Features: []importer.FeatureImport{{
			Ref: "other", Seq: intPtr(1), Title: "Another thing", Description: "Clashes with the first feature",
			StartDate: "2026-12-15", EndDate: "2026-12-20",
		}},
	}
	_, err = svc.ImportBacklogFromSchema(ctx, schema, "")
	require.ErrorIs(t, err, validation.ErrInvalid)
	assert.Contains(t, err.Error(), "seq 1 is already used by \"Single sign-on\"")

	features, err := env.features.ListByProduct(ctx, first.Product.ID)
	require.NoError(t, err)
	assert.Len(t, features, 3)

	// Without an explicit seq the feature gets the next free number.
	schema.Features[0].Seq = nil
	_, err = svc.ImportBacklogFromSchema(ctx, schema, "")
	require.NoError(t, err)
	features, err = env.features.ListByProduct(ctx, first.Product.ID)
	require.NoError(t, err)
	require.Len(t, features, 4)
	assert.Equal(t, 4, features[3].Seq)
}

func TestImportService_RollbackOnFeatureWriteFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	// Exec calls: #1 product create, #2 seq seed, #3 first feature upsert,
	// #4 second seq seed, #5 second feature upsert.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 5, Err: fmt.Errorf("injected feature write failure")}
	svc := NewImportService(failUoW, ValidationPolicy{})

	_, err := svc.ImportBacklogFromSchema(ctx, validBacklogSchema(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected feature write failure")

	products, err := env.products.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, products, "no products should exist after rollback")
}

func TestImportService_ArchivedProductRejected(t *testing.T) {
	env := setupEnv(t)
	env.newProduct(t, "CRM", testutil.WithShortID("CRM01"), testutil.WithProductStatus(domain.ProductArchived))

	_, err := newImportSvc(env).ImportBacklogFromSchema(context.Background(), validBacklogSchema(), "")
	assert.ErrorIs(t, err, ErrProductArchived)
}

func TestImportService_MissingFile(t *testing.T) {
	env := setupEnv(t)
	_, err := newImportSvc(env).ImportBacklog(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}
