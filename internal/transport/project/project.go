package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainproject "github.com/alanyang/taskboard/internal/domain/project"
	projectsvc "github.com/alanyang/taskboard/internal/service/project"
	"github.com/alanyang/taskboard/internal/transport/httperr"
)

func Register(rg *gin.RouterGroup, svc *projectsvc.Service) {
	rg.POST("", createProject(svc))
	rg.GET("", listProjects(svc))
}

type createProjectReq struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	StartDate   domainproject.Date `json:"startDate"`
	EndDate     domainproject.Date `json:"endDate"`
}

func createProject(svc *projectsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Bind(c, err)
			return
		}

		p, err := svc.Create(c.Request.Context(), projectsvc.CreateInput{
			Name:        req.Name,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func listProjects(svc *projectsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := svc.List(c.Request.Context())
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}
