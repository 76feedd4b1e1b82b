package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/solardev/solar-api/internal/handler"
	"github.com/solardev/solar-api/internal/repository/sqlite"
	"github.com/solardev/solar-api/internal/service"
)

// withPathValue attaches a chi route parameter to the request, standing in
// for the router when handlers are invoked directly.
func withPathValue(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testLogger drops everything below Error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// api bundles the user and task handlers over a shared in-memory database.
// Handler tests exercise the real service and SQLite layers underneath —
// mocking them here would just re-test the mocks.
type api struct {
	users *handler.UserHandler
	tasks *handler.TaskHandler
}

func newTestAPI(t *testing.T) *api {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := testLogger()
	userSvc := service.NewUserService(db.Users(), logger)
	taskSvc := service.NewTaskService(db.Tasks(), db.Users(), logger)

	return &api{
		users: handler.NewUserHandler(userSvc, logger),
		tasks: handler.NewTaskHandler(taskSvc, logger),
	}
}
