package serviceInfo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gnomad/pipeline/contexts"
	serviceInfo "gnomad/pipeline/models/constants/service-info"
	"gnomad/pipeline/tests/common"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetServiceInfo(t *testing.T) {
	cfg := common.InitConfig()

	setUpEcho := func(method string, path string) (*contexts.GnomadContext, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		gc := &contexts.GnomadContext{
			Context:          c,
			Store:            nil,
			Config:           cfg,
			IngestionService: nil,
			Log:              zap.NewNop(),
		}
		return gc, rec
	}

	getJsonBody := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		// - extract body bytes from response
		body, _ := io.ReadAll(rec.Body)
		// - unmarshal or decode the JSON to a declared empty interface.
		var bodyJson map[string]interface{}
		json.Unmarshal(body, &bodyJson)

		return bodyJson
	}

	t.Run("should return 200 status ok and the service description", func(t *testing.T) {
		//set up
		gc, rec := setUpEcho(http.MethodGet, "/service-info")

		// perform
		GetServiceInfo(gc)

		// verify response status
		assert.Equal(t, http.StatusOK, rec.Code)

		// verify body
		json := getJsonBody(rec)

		// - detailed
		assert.Equal(t, json["id"].(string), string(serviceInfo.SERVICE_ID))
		assert.Equal(t, json["name"].(string), string(serviceInfo.SERVICE_NAME))
		assert.Equal(t, json["description"].(string), string(serviceInfo.SERVICE_DESCRIPTION))
		assert.Equal(t, json["version"].(string), string(serviceInfo.SERVICE_VERSION))
	})
}
