package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beka-birhanu/vinom-campaign/api/i"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (pingController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/secret", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func TestRouterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{
		BaseURL:     "/api",
		Controllers: []i.Controller{pingController{}},
		AuthorizationMiddleware: func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		},
	})
	handler := r.Handler()

	cases := []struct {
		name string
		path string
		want int
	}{
		{name: "Public route", path: "/api/v1/ping", want: http.StatusOK},
		{name: "Protected route", path: "/api/v1/secret", want: http.StatusUnauthorized},
		{name: "Outside the base URL", path: "/v1/ping", want: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
