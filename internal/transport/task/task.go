package task

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domaintask "github.com/alanyang/taskboard/internal/domain/task"
	tasksvc "github.com/alanyang/taskboard/internal/service/task"
	"github.com/alanyang/taskboard/internal/transport/httperr"
)

func Register(rg *gin.RouterGroup, svc *tasksvc.Service) {
	rg.POST("", createTask(svc))
	rg.GET("", listTasks(svc))
	rg.PUT("/:id/status", updateTaskStatus(svc))
	rg.DELETE("/:id", deleteTask(svc))
}

type createTaskReq struct {
	Title     string               `json:"title" binding:"required"`
	Status    *domaintask.Status   `json:"status"`
	Priority  *domaintask.Priority `json:"priority"`
	ProjectID int64                `json:"idProject" binding:"required"`
}

func createTask(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Bind(c, err)
			return
		}

		t, err := svc.Create(c.Request.Context(), tasksvc.CreateInput{
			Title:     req.Title,
			Status:    req.Status,
			Priority:  req.Priority,
			ProjectID: req.ProjectID,
		})
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

// listTasks answers 204 only when the listing says so; otherwise it always writes an array.
func listTasks(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters domaintask.ListFilters

		if v := c.Query("status"); v != "" {
			s, err := domaintask.ParseStatus(v)
			if err != nil {
				httperr.BadRequest(c, "invalid status", err.Error())
				return
			}
			filters.Status = &s
		}
		if v := c.Query("priority"); v != "" {
			p, err := domaintask.ParsePriority(v)
			if err != nil {
				httperr.BadRequest(c, "invalid priority", err.Error())
				return
			}
			filters.Priority = &p
		}
		if v := c.Query("idProject"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				httperr.BadRequest(c, "invalid idProject", err.Error())
				return
			}
			filters.ProjectID = &id
		}

		listing, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		if listing.NoContent {
			c.Status(http.StatusNoContent)
			return
		}
		tasks := listing.Tasks
		if tasks == nil {
			tasks = []domaintask.Task{}
		}
		c.JSON(http.StatusOK, tasks)
	}
}

type updateStatusReq struct {
	Status domaintask.Status `json:"status" binding:"required"`
}

func updateTaskStatus(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req updateStatusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Bind(c, err)
			return
		}

		t, err := svc.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func deleteTask(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			httperr.Write(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid id", err.Error())
		return 0, false
	}
	return id, true
}
