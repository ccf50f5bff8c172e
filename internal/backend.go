package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulnx/pankha/internal/api"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/controller"
	"github.com/vulnx/pankha/internal/curves"
	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/hwmon"
	"github.com/vulnx/pankha/internal/monitor"
	"github.com/vulnx/pankha/internal/notify"
	"github.com/vulnx/pankha/internal/persistence"
	"github.com/vulnx/pankha/internal/sensors"
	"github.com/vulnx/pankha/internal/statistics"
	"github.com/vulnx/pankha/internal/ui"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run pankha as root")
	}

	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize database at %s: %v", config.DbPath, err)
	}

	if err := InitializeObjects(config, hwmon.GetChips); err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	states := notify.NewStateSink()
	sink := notify.Multi{notify.LogSink{}, states, notify.DesktopSink{}}

	controllers, err := createFanControllers(config, pers, sink)
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		registerCollectors(prometheus.DefaultRegisterer, controllers, states)
		server := statistics.CreateStatisticsService(prometheus.DefaultGatherer)
		addr := fmt.Sprintf(":%d", config.Statistics.Port)
		addServer(&g, "statistics", server, addr)
	}
	if config.Api.Enabled {
		// === REST api
		server := api.CreateRestService(states)
		server.Use(echoprometheus.NewMiddleware("pankha_api"))
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
		addServer(&g, "api", server, addr)
	}
	{
		// === sensor monitoring
		for _, m := range monitor.SensorMonitorMap.Items() {
			mon := m
			g.Add(func() error {
				err := mon.Run(ctx)
				ui.Info("Sensor Monitor for sensor %s stopped.", mon.GetSensor().GetId())
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		// === fan controllers
		for _, c := range controllers {
			fanController := c
			g.Add(func() error {
				err := fanController.Run(ctx)
				ui.Info("Fan controller for fan %s stopped.", fanController.GetFan().GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
	os.Exit(0)
}

func addServer(g *run.Group, name string, server *echo.Echo, addr string) {
	g.Add(func() error {
		ui.Info("Starting %s server on %s", name, addr)
		err := server.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		ui.Error("Cannot start %s server (%v)", name, err)
		return err
	}, func(err error) {
		ui.Info("Stopping %s server...", name)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			ui.Warning("Error stopping %s server: %v", name, err)
		}
	})
}

func registerCollectors(registerer prometheus.Registerer, controllers []*controller.FanController, states *notify.StateSink) {
	var fanIds []string
	for _, c := range controllers {
		fanIds = append(fanIds, c.GetFan().GetId())
	}
	registerer.MustRegister(
		statistics.NewFanCollector(fanIds, states),
		statistics.NewControllerCollector(controllers, states),
		statistics.NewSensorCollector(getMonitors()),
		statistics.NewCurveCollector(getCurves()),
	)
}

func getMonitors() []*monitor.SensorMonitor {
	var result []*monitor.SensorMonitor
	for _, m := range monitor.SensorMonitorMap.Items() {
		result = append(result, m)
	}
	return result
}

func getCurves() []*curves.SpeedCurve {
	var result []*curves.SpeedCurve
	for _, c := range curves.SpeedCurveMap.Items() {
		result = append(result, c)
	}
	return result
}

// InitializeObjects creates sensors, their monitors, curves and fans from the given config.
// getChips is only called if a hwmon sensor is configured.
func InitializeObjects(config configuration.Configuration, getChips func() []*hwmon.HwMonController) error {
	if err := initializeSensors(config, getChips); err != nil {
		return err
	}
	if err := initializeCurves(config); err != nil {
		return err
	}
	return initializeFans(config)
}

func initializeSensors(config configuration.Configuration, getChips func() []*hwmon.HwMonController) error {
	var chips []*hwmon.HwMonController
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.HwMon != nil {
			if chips == nil {
				chips = getChips()
			}
			hwMonConfig := *sensorConfig.HwMon
			err := hwmon.UpdateSensorConfigFromHwMonControllers(chips, &hwMonConfig)
			if err != nil {
				return fmt.Errorf("sensor %s: %w, run 'pankha detect' to list available sensors", sensorConfig.ID, err)
			}
			sensorConfig.HwMon = &hwMonConfig
			ui.Debug("Sensor %s uses %s", sensorConfig.ID, hwMonConfig.TempInput)
		}

		sensor, err := sensors.NewSensor(sensorConfig)
		if err != nil {
			return fmt.Errorf("unable to process sensor configuration %s: %w", sensorConfig.ID, err)
		}

		if value, err := sensor.GetValue(); err != nil {
			ui.Warning("Error reading sensor %s: %v", sensorConfig.ID, err)
		} else {
			ui.Debug("Sensor %s: %s", sensorConfig.ID, value)
		}

		sensors.SensorMap.Set(sensorConfig.ID, sensor)
		monitor.SensorMonitorMap.Set(sensorConfig.ID, monitor.NewSensorMonitor(
			sensor,
			config.TempSensorPollingRate,
			config.TempRollingWindowSize,
		))
	}
	return nil
}

func initializeCurves(config configuration.Configuration) error {
	for _, curveConfig := range config.Curves {
		curve, err := curves.NewSpeedCurve(curveConfig)
		if err != nil {
			return fmt.Errorf("unable to process curve configuration %s: %w", curveConfig.ID, err)
		}
		curves.SpeedCurveMap.Set(curveConfig.ID, curve)
	}
	return nil
}

func initializeFans(config configuration.Configuration) error {
	for _, fanConfig := range config.Fans {
		fan, err := fans.NewFan(fanConfig)
		if err != nil {
			return fmt.Errorf("unable to process fan configuration %s: %w", fanConfig.ID, err)
		}
		fans.FanMap.Set(fanConfig.ID, fan)
	}
	if fans.FanMap.Count() == 0 {
		return errors.New("no valid fan configurations, exiting")
	}
	return nil
}

func createFanControllers(config configuration.Configuration, p persistence.Persistence, sink notify.Sink) ([]*controller.FanController, error) {
	var result []*controller.FanController
	for _, fan := range fans.FanMap.Items() {
		curveId := fan.GetConfig().Curve
		curve, ok := curves.SpeedCurveMap.Get(curveId)
		if !ok {
			return nil, fmt.Errorf("fan %s: curve %s not found", fan.GetId(), curveId)
		}
		sensorMonitor, ok := monitor.SensorMonitorMap.Get(curve.SensorId)
		if !ok {
			return nil, fmt.Errorf("curve %s: sensor %s not found", curve.GetId(), curve.SensorId)
		}

		fanController := controller.NewFanController(p, fan, curve, sensorMonitor, sink, config.SpeedPollingRate)
		controller.FanControllerMap.Set(fan.GetId(), fanController)
		result = append(result, fanController)
	}
	return result, nil
}
