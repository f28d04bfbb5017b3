package http

import (
	"time"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
)

// Profile DTOs

type LinksDTO struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

type EducationDTO struct {
	ID      string `json:"id"`
	Degree  string `json:"degree"`
	College string `json:"college"`
	Year    string `json:"year"`
}

type ProjectDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Link        string   `json:"link"`
}

type SkillDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

type ProfileDTO struct {
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	Links          LinksDTO       `json:"links"`
	ProfilePicture *string        `json:"profilePicture"`
	Education      []EducationDTO `json:"education"`
	Projects       []ProjectDTO   `json:"projects"`
	Skills         []SkillDTO     `json:"skills"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// UpdateProfileRequest leaves every field optional; nil means "keep what is stored".
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Links    *struct {
		GitHub    *string `json:"github"`
		LinkedIn  *string `json:"linkedin"`
		Portfolio *string `json:"portfolio"`
	} `json:"links"`
}

type AddEducationRequest struct {
	Degree  string `json:"degree"`
	College string `json:"college"`
	Year    string `json:"year"`
}

type AddProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Link        string   `json:"link"`
}

type AddSkillRequest struct {
	Name   string `json:"name" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

func (req *UpdateProfileRequest) ToPatch() profile.Patch {
	patch := profile.Patch{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Title:    req.Title,
		Summary:  req.Summary,
	}
	if req.Links != nil {
		patch.Links = &profile.LinksPatch{
			GitHub:    req.Links.GitHub,
			LinkedIn:  req.Links.LinkedIn,
			Portfolio: req.Links.Portfolio,
		}
	}
	return patch
}

func (req *AddEducationRequest) ToDomain() profile.Education {
	return profile.Education{Degree: req.Degree, College: req.College, Year: req.Year}
}

func (req *AddProjectRequest) ToDomain() profile.Project {
	return profile.Project{Name: req.Name, Description: req.Description, TechStack: req.TechStack, Link: req.Link}
}

func (req *AddSkillRequest) ToDomain() profile.Skill {
	return profile.Skill{Name: req.Name, Rating: req.Rating}
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		FullName:       p.FullName,
		Email:          p.Email,
		Phone:          p.Phone,
		Title:          p.Title,
		Summary:        p.Summary,
		Links:          LinksDTO(p.Links),
		ProfilePicture: p.ProfilePicture,
		Education:      ToEducationDTOs(p.Education),
		Projects:       ToProjectDTOs(p.Projects),
		Skills:         ToSkillDTOs(p.Skills),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToEducationDTOs(entries []profile.Education) []EducationDTO {
	dtos := make([]EducationDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EducationDTO(e)
	}
	return dtos
}

func ToProjectDTOs(entries []profile.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(entries))
	for i, pr := range entries {
		stack := pr.TechStack
		if stack == nil {
			stack = []string{}
		}
		dtos[i] = ProjectDTO{ID: pr.ID, Name: pr.Name, Description: pr.Description, TechStack: stack, Link: pr.Link}
	}
	return dtos
}

func ToSkillDTOs(entries []profile.Skill) []SkillDTO {
	dtos := make([]SkillDTO, len(entries))
	for i, s := range entries {
		dtos[i] = SkillDTO(s)
	}
	return dtos
}
