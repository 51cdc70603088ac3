package router_helper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouteGroup(t *testing.T) {
	router := httprouter.New()
	api := NewRouteGroup(router, "api")
	api.GET("/records/:type/:id", func(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
		_, _ = w.Write([]byte(ps.ByName("type") + "/" + ps.ByName("id")))
	})
	api.Group("v1").POST("normalize", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusAccepted)
	})

	t.Run("prefixed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records/way/7", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "way/7", rr.Body.String())
	})

	t.Run("nested group", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/normalize", nil))
		assert.Equal(t, http.StatusAccepted, rr.Code)
	})

	t.Run("unprefixed path is not routed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records/way/7", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
