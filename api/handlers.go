package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"scheduler-api/domain"
	"scheduler-api/export"
	"scheduler-api/schedule"
	"scheduler-api/storage"
)

const maxBodySize = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, logger *log.Logger) {
	e.GET("/api/tasks", listTasks(store, logger))
	e.POST("/api/tasks", createTask(store))
	e.POST("/api/tasks/check", checkConflicts(store))
	e.GET("/api/tasks/stream", streamTasks(store))
	e.GET("/api/tasks/:id", getTask(store))
	e.PUT("/api/tasks/:id", updateTask(store))
	e.DELETE("/api/tasks/:id", deleteTask(store))
	e.GET("/api/export/json", exportJSON(store))
	e.GET("/api/export/markdown", exportMarkdown(store))
	e.GET("/healthz", healthz(store))
}

// viewSnapshot runs the view pipeline over a point-in-time copy of the
// store: filter to the view, sort, annotate conflicts.
func viewSnapshot(tasks []domain.Task, state schedule.ViewState, now time.Time) listResponse {
	visible := schedule.ApplyView(tasks, state, now)
	visible = schedule.SortTasks(visible)
	visible = schedule.DetectConflicts(visible)

	conflictCount := 0
	for _, t := range visible {
		if len(t.Conflicts) > 0 {
			conflictCount++
		}
	}
	return listResponse{Tasks: visible, Total: len(visible), ConflictCount: conflictCount}
}

func listTasks(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newListRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		view, viewErr := schedule.ParseView(c.QueryParam("view"))
		if viewErr != nil {
			metrics.SetErrorStage("invalid_view")
			err = c.String(http.StatusBadRequest, viewErr.Error())
			return err
		}
		metrics.SetView(string(view))

		fetchStart := time.Now()
		tasks := store.List(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))

		filterStart := time.Now()
		resp := viewSnapshot(tasks, schedule.ViewState{View: view, Date: c.QueryParam("date")}, time.Now())
		metrics.ObserveFilter(time.Since(filterStart))
		metrics.SetTasksReturned(resp.Total)
		metrics.SetConflictsFound(resp.ConflictCount)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func createTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var draft domain.Draft
		if err := decodeBody(c.Request().Body, &draft); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if err := draft.Validate(); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		// Overlaps are a soft warning, never a hard error: the save goes
		// through and the response carries the conflicting ids.
		conflicts := schedule.CheckConflicts(store.List(ctx), domain.Task{
			Date:      draft.Date,
			StartTime: draft.StartTime,
			EndTime:   draft.EndTime,
		})

		task, err := store.Add(ctx, draft)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "failed to save task")
		}
		return c.JSON(http.StatusCreated, saveResponse{Task: task, Conflicts: conflicts})
	}
}

func checkConflicts(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req checkRequest
		if err := decodeBody(c.Request().Body, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if err := req.Draft.Validate(); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		conflicts := schedule.CheckConflicts(store.List(ctx), domain.Task{
			ID:        req.ID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
		return c.JSON(http.StatusOK, checkResponse{Conflicts: conflicts})
	}
}

func getTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := store.Get(c.Request().Context(), c.Param("id"))
		if errors.Is(err, storage.ErrNotFound) {
			return c.String(http.StatusNotFound, "task not found")
		}
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, task)
	}
}

func updateTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		var patch domain.Patch
		if err := decodeBody(c.Request().Body, &patch); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		existing, err := store.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return c.String(http.StatusNotFound, "task not found")
		}
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		merged := patch.Apply(existing)
		if err := merged.AsDraft().Validate(); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		conflicts := schedule.CheckConflicts(store.List(ctx), merged)

		task, err := store.Update(ctx, id, patch)
		if errors.Is(err, storage.ErrNotFound) {
			return c.String(http.StatusNotFound, "task not found")
		}
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "failed to save task")
		}
		return c.JSON(http.StatusOK, saveResponse{Task: task, Conflicts: conflicts})
	}
}

func deleteTask(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ok, err := store.Delete(c.Request().Context(), c.Param("id"))
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "failed to delete task")
		}
		if !ok {
			return c.String(http.StatusNotFound, "task not found")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func exportJSON(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		data, err := export.JSON(store.List(c.Request().Context()))
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "failed to export tasks")
		}
		setAttachment(c, export.Filename("json", now))
		return c.Blob(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

func exportMarkdown(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		tasks := schedule.DetectConflicts(store.List(c.Request().Context()))
		doc := export.Markdown(tasks, now)
		setAttachment(c, export.Filename("md", now))
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
	}
}

func healthz(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}

func decodeBody(body io.Reader, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func setAttachment(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
}
