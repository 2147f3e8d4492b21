package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vending-locator/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter() (*gin.Engine, *MockLocationService, *MockNearbyService) {
	gin.SetMode(gin.TestMode)
	locations := new(MockLocationService)
	nearby := new(MockNearbyService)
	return NewRouter(NewLocationHandler(locations), NewNearbyHandler(nearby)), locations, nearby
}

func makeRequest(router *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestRouter_Dispatch(t *testing.T) {
	router, locations, nearby := newTestRouter()

	locations.On("ListAll", mock.Anything).Return([]models.Location{}, nil)
	locations.On("ListByState", mock.Anything, "az").Return([]models.Location{}, nil)
	locations.On("GetByID", mock.Anything, "frys_101").Return(&frys, nil)
	nearby.On("Nearby", mock.Anything, 33.45, -112.07, 0.0).Return([]models.NearbyLocation{}, nil)

	for _, url := range []string{
		"/api/locations",
		"/api/locations/state/az",
		"/api/locations/frys_101",
		"/api/locations/nearby?lat=33.45&lng=-112.07",
		"/health",
		"/",
	} {
		w := makeRequest(router, url)
		assert.Equal(t, http.StatusOK, w.Code, url)
	}

	locations.AssertExpectations(t)
	nearby.AssertExpectations(t)
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter()

	w := makeRequest(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_NoWriteEndpoints(t *testing.T) {
	router, _, _ := newTestRouter()

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/api/locations", nil))
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
}
