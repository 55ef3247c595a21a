package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/steer2go/internal/control"
	"github.com/qdm12/reprint"
)

type tunerIndexRequest struct {
	Index *int `json:"index"`
}

type tunerEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type controllerEndpoints struct {
	registry *control.Registry
}

func registerControllerEndpoints(rest *echo.Echo, registry *control.Registry) {
	endpoints := &controllerEndpoints{registry: registry}

	group := rest.Group("/controller")

	group.GET("/", endpoints.getControllers)
	group.GET("/:"+urlParamId+"/", endpoints.getController)
	group.PUT("/:"+urlParamId+"/tuner/index/", endpoints.setTunerIndex)
	group.PUT("/:"+urlParamId+"/tuner/enabled/", endpoints.setTunerEnabled)
}

func (e *controllerEndpoints) getControllers(c echo.Context) error {
	data := reprint.This(e.registry.Snapshots())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (e *controllerEndpoints) getController(c echo.Context) error {
	id := c.Param(urlParamId)

	channel, exists := e.registry.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(channel.Snapshot())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (e *controllerEndpoints) setTunerIndex(c echo.Context) error {
	id := c.Param(urlParamId)

	channel, exists := e.registry.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request tunerIndexRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, "invalid request body")
	}
	if request.Index == nil {
		return returnBadRequest(c, "missing field: index")
	}

	err := channel.SetTunerIndex(*request.Index)
	if err != nil {
		return returnTunerError(c, id, err)
	}
	return c.JSONPretty(http.StatusOK, channel.Snapshot(), indentationChar)
}

func (e *controllerEndpoints) setTunerEnabled(c echo.Context) error {
	id := c.Param(urlParamId)

	channel, exists := e.registry.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request tunerEnabledRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, "invalid request body")
	}
	if request.Enabled == nil {
		return returnBadRequest(c, "missing field: enabled")
	}

	err := channel.SetTunerEnabled(*request.Enabled)
	if err != nil {
		return returnTunerError(c, id, err)
	}
	return c.JSONPretty(http.StatusOK, channel.Snapshot(), indentationChar)
}

func returnTunerError(c echo.Context, id string, err error) error {
	if errors.Is(err, control.ErrNoTuner) {
		return c.JSONPretty(http.StatusNotFound, &Result{
			Name:    "Not found",
			Message: "Controller '" + id + "' has no tuner",
		}, indentationChar)
	}
	return returnBadRequest(c, err.Error())
}
