package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/timeutil"
	"github.com/mm-zacharydavison/claude-code-maximizer/scheduler"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
)

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(s.collector.Handler()))

	apiV1 := e.Group("/api/v1")
	apiV1.GET("/status", s.handleStatus)
	apiV1.GET("/schedule", s.handleGetSchedule)
	apiV1.PUT("/schedule/:day", s.handleSetSchedule)
	apiV1.DELETE("/schedule/:day", s.handleClearSchedule)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

type statusResponse struct {
	Now              time.Time  `json:"now"`
	WindowActive     bool       `json:"windowActive"`
	WindowStart      *time.Time `json:"windowStart,omitempty"`
	WindowEnd        *time.Time `json:"windowEnd,omitempty"`
	MinutesRemaining int        `json:"minutesRemaining"`
	TodayTriggers    []string   `json:"todayTriggers"`
	LastAutoStart    *time.Time `json:"lastAutoStart,omitempty"`
	LastAdjustment   *time.Time `json:"lastAdjustment,omitempty"`
	AdjustmentCount  int64      `json:"adjustmentCount"`
	Version          string     `json:"version"`
}

func (s *Server) handleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()

	state, err := s.Store.GetSchedulerState(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read scheduler state").SetInternal(err)
	}
	wh, err := s.Store.GetWorkingHours(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read working hours").SetInternal(err)
	}
	times, err := s.Store.GetOptimalStartTimes(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read optimal start times").SetInternal(err)
	}
	meta, err := s.Store.GetAdjustmentMeta(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read adjustment meta").SetInternal(err)
	}

	resp := &statusResponse{
		Now:             now,
		WindowStart:     state.CurrentWindowStart,
		WindowEnd:       state.CurrentWindowEnd,
		TodayTriggers:   []string{},
		LastAutoStart:   state.LastAutoStart,
		LastAdjustment:  meta.LastAdjustment,
		AdjustmentCount: meta.AdjustmentCount,
		Version:         s.Profile.Version,
	}
	if state.CurrentWindowEnd != nil && state.CurrentWindowEnd.After(now) {
		resp.WindowActive = true
		resp.MinutesRemaining = int(state.CurrentWindowEnd.Sub(now).Minutes())
	}
	for _, trigger := range scheduler.TriggersForDay(wh, times, now.Weekday()) {
		resp.TodayTriggers = append(resp.TodayTriggers, timeutil.FormatClock(trigger))
	}

	return c.JSON(http.StatusOK, resp)
}

type scheduleResponse struct {
	WorkingHours      *store.WorkingHours      `json:"workingHours"`
	OptimalStartTimes *store.OptimalStartTimes `json:"optimalStartTimes"`
}

func (s *Server) handleGetSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	wh, err := s.Store.GetWorkingHours(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read working hours").SetInternal(err)
	}
	times, err := s.Store.GetOptimalStartTimes(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read optimal start times").SetInternal(err)
	}

	return c.JSON(http.StatusOK, &scheduleResponse{
		WorkingHours:      wh,
		OptimalStartTimes: times,
	})
}

type setScheduleRequest struct {
	Time string `json:"time"`
}

func (s *Server) handleSetSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := timeutil.ParseWeekday(c.Param("day"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req setScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	minutes, err := timeutil.ParseClock(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	times, err := s.Store.GetOptimalStartTimes(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read optimal start times").SetInternal(err)
	}
	times.SetMinutes(day, minutes)
	if err := s.Store.SetOptimalStartTimes(ctx, times); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to persist optimal start times").SetInternal(err)
	}

	return c.JSON(http.StatusOK, times)
}

func (s *Server) handleClearSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := timeutil.ParseWeekday(c.Param("day"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	times, err := s.Store.GetOptimalStartTimes(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read optimal start times").SetInternal(err)
	}
	times.Days[int(day)] = nil
	if err := s.Store.SetOptimalStartTimes(ctx, times); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to persist optimal start times").SetInternal(err)
	}

	return c.JSON(http.StatusOK, times)
}
