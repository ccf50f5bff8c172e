package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/controller"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/notify"
)

type FanDto struct {
	Id         string                  `json:"id"`
	Config     configuration.FanConfig `json:"config"`
	State      *notify.FanState        `json:"state,omitempty"`
	Hysteresis *curves.HysteresisState `json:"hysteresis,omitempty"`
	Paused     bool                    `json:"paused"`
}

type SpeedRequest struct {
	Speed *int `json:"speed"`
}

type ModeRequest struct {
	Mode string `json:"mode"`
}

type fanEndpoints struct {
	states *notify.StateSink
}

func registerFanEndpoints(rest *echo.Echo, states *notify.StateSink) {
	e := fanEndpoints{states: states}
	group := rest.Group("/fan")

	group.GET("/", e.getFans)
	group.GET("/:"+urlParamId+"/", e.getFan)
	group.POST("/:"+urlParamId+"/speed/", e.setSpeed)
	group.POST("/:"+urlParamId+"/mode/", e.setMode)
}

func (e fanEndpoints) createDto(fan fans.Fan) FanDto {
	dto := FanDto{
		Id:     fan.GetId(),
		Config: reprint.This(fan.GetConfig()).(configuration.FanConfig),
	}
	if state, ok := e.states.Get(fan.GetId()); ok {
		dto.State = &state
	}
	if c, ok := controller.FanControllerMap.Get(fan.GetId()); ok {
		hysteresis := c.GetHysteresisState()
		dto.Hysteresis = &hysteresis
		dto.Paused = c.IsPaused()
	}
	return dto
}

// returns a list of all currently configured fans
func (e fanEndpoints) getFans(c echo.Context) error {
	data := map[string]FanDto{}
	for id, fan := range fans.FanMap.Items() {
		data[id] = e.createDto(fan)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (e fanEndpoints) getFan(c echo.Context) error {
	id := c.Param(urlParamId)
	fan, exists := fans.FanMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, e.createDto(fan), indentationChar)
}

// starts a ramp of the given fan towards the requested speed
func (e fanEndpoints) setSpeed(c echo.Context) error {
	id := c.Param(urlParamId)
	fanController, exists := controller.FanControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request SpeedRequest
	if err := c.Bind(&request); err != nil || request.Speed == nil {
		return returnBadRequest(c, errMissingBody)
	}

	err := fanController.RampTo(*request.Speed)
	if errors.Is(err, controller.ErrInvalidTarget) {
		return returnBadRequest(c, err)
	}
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusAccepted, request, indentationChar)
}

func (e fanEndpoints) setMode(c echo.Context) error {
	id := c.Param(urlParamId)
	fanController, exists := controller.FanControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request ModeRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, errMissingBody)
	}
	mode, err := fans.ParseControlMode(request.Mode)
	if err != nil {
		return returnBadRequest(c, err)
	}

	err = fanController.SetControlMode(mode)
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, ModeRequest{Mode: mode.String()}, indentationChar)
}
