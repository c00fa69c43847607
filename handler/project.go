package handler

import (
	"net/http"

	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects  service.ProjectRepository
	employees service.EmployeeDirectory
}

func NewProjectHandler(projects service.ProjectRepository, employees service.EmployeeDirectory) *ProjectHandler {
	return &ProjectHandler{projects: projects, employees: employees}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Team lists the employee master
func (h *ProjectHandler) Team(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}
