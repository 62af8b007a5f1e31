package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"polleria_backend/internal/locations/repository"
	"polleria_backend/internal/locations/service"

	"github.com/gin-gonic/gin"
)

type fakeLocationStore struct {
	locations []repository.Location
}

func (f *fakeLocationStore) List(context.Context) ([]repository.Location, error) {
	return f.locations, nil
}

func (f *fakeLocationStore) Get(_ context.Context, id int64) (repository.Location, error) {
	for _, l := range f.locations {
		if l.ID == id {
			return l, nil
		}
	}
	return repository.Location{}, repository.ErrNotFound
}

func (f *fakeLocationStore) GetByName(_ context.Context, name string) (repository.Location, error) {
	for _, l := range f.locations {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return repository.Location{}, repository.ErrNotFound
}

func newTestRouter(store *fakeLocationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(service.New(store)).RegisterProtected(engine.Group("/api/v1"))
	return engine
}

func TestGetIncludesManager(t *testing.T) {
	router := newTestRouter(&fakeLocationStore{locations: []repository.Location{
		{ID: 2, Name: "Pollo Frito", Manager: "Don Chuy", Address: "Av. Juárez 12"},
	}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sucursales/2", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"encargado":"Don Chuy"`) {
		t.Fatalf("manager missing from response: %s", body)
	}
	if !strings.Contains(body, `"direccion":"Av. Juárez 12"`) {
		t.Fatalf("address missing from response: %s", body)
	}
}

func TestListIncludesManager(t *testing.T) {
	router := newTestRouter(&fakeLocationStore{locations: []repository.Location{
		{ID: 1, Name: "Pollo a Granel", Manager: "Doña Lupe"},
		{ID: 2, Name: "Pollo Frito"},
	}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sucursales", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"encargado":"Doña Lupe"`) {
		t.Fatalf("manager missing from list response: %s", rec.Body.String())
	}
}
