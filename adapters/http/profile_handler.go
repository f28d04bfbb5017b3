package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/profile-builder/internal/application/usecase/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), profileUC.UpdateProfileInput{Patch: req.ToPatch()})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req AddEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education", err))
		return
	}

	output, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), req.ToDomain())
	if err != nil {
		c.Error(err)
		return
	}

	message := "Education added successfully"
	if !output.Added {
		message = "Education already exists"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "education": ToEducationDTOs(output.Education)})
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteDeleteEducation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Education deleted successfully", "education": ToEducationDTOs(output.Education)})
}

func (h *ProfileHandler) AddProject(c *gin.Context) {
	var req AddProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for project", err))
		return
	}

	output, err := h.profileUseCase.ExecuteAddProject(c.Request.Context(), req.ToDomain())
	if err != nil {
		c.Error(err)
		return
	}

	message := "Project added successfully"
	if !output.Added {
		message = "Project already exists"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "projects": ToProjectDTOs(output.Projects)})
}

func (h *ProfileHandler) DeleteProject(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteDeleteProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully", "projects": ToProjectDTOs(output.Projects)})
}

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	var req AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for skill", err))
		return
	}

	output, err := h.profileUseCase.ExecuteAddSkill(c.Request.Context(), req.ToDomain())
	if err != nil {
		c.Error(err)
		return
	}

	message := "Skill added successfully"
	if !output.Added {
		message = "Skill rating updated"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "skills": ToSkillDTOs(output.Skills)})
}

func (h *ProfileHandler) DeleteSkill(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteDeleteSkill(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully", "skills": ToSkillDTOs(output.Skills)})
}
