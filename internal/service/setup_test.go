package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/alexanderramin/prodboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	products  repository.ProductRepo
	features  repository.FeatureRepo
	deps      repository.DependencyRepo
	history   repository.HistoryRepo
	feedback  repository.FeedbackRepo
	featureSv FeatureService
	productSv ProductService
}

func setupEnv(t *testing.T, observers ...UseCaseObserver) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		products: repository.NewSQLiteProductRepo(database),
		features: repository.NewSQLiteFeatureRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
		history:  repository.NewSQLiteHistoryRepo(database),
		feedback: repository.NewSQLiteFeedbackRepo(database),
	}
	env.featureSv = NewFeatureService(env.features, env.history, env.uow, ValidationPolicy{MaxSpanDays: 365}, observers...)
	env.productSv = NewProductService(env.products, observers...)
	return env
}

func (e *testEnv) newProduct(t *testing.T, name string, opts ...testutil.ProductOption) *domain.Product {
	t.Helper()
	p := testutil.NewTestProduct(name, opts...)
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

// createFeature goes through the service so seq and history are assigned.
func (e *testEnv) createFeature(t *testing.T, productID, title string, opts ...testutil.FeatureOption) *domain.Feature {
	t.Helper()
	f := testutil.NewTestFeature(productID, title, opts...)
	f.ID = ""
	require.NoError(t, e.featureSv.Create(context.Background(), f))
	return f
}
