package api

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"scheduler-api/schedule"
)

const streamInterval = 5 * time.Second

// streamTasks pushes the current view over server-sent events so a second
// browser tab stays fresh without polling. Each event is the same payload
// the list route returns, re-evaluated against a fresh store snapshot.
func streamTasks(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, err := schedule.ParseView(c.QueryParam("view"))
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		state := schedule.ViewState{View: view, Date: c.QueryParam("date")}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}

		ctx := c.Request().Context()
		ticker := time.NewTicker(streamInterval)
		defer ticker.Stop()
		for {
			resp := viewSnapshot(store.List(ctx), state, time.Now())
			data, marshalErr := sonic.Marshal(resp)
			if marshalErr == nil {
				if _, err := c.Response().Write([]byte("data: ")); err != nil {
					return nil
				}
				if _, err := c.Response().Write(data); err != nil {
					return nil
				}
				if _, err := c.Response().Write([]byte("\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}
