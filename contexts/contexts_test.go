package contexts

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// handlers receive the context as echo.Context and assert it back
var _ echo.Context = (*GnomadContext)(nil)

func TestGnomadContextIsAnEchoContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	var ec echo.Context = &GnomadContext{Context: c, Log: zap.NewNop()}

	gc, ok := ec.(*GnomadContext)
	assert.True(t, ok)
	assert.NotNil(t, gc.Log)

	// echo's own logger stays reachable
	assert.NotNil(t, gc.Logger())
}
