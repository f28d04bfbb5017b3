package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
)

// Education and projects skip duplicates by natural key; skills re-rate in place.

type EducationOutput struct {
	Education []profile.Education
	Added     bool
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, entry profile.Education) (*EducationOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("add education failed: %w", err)
	}

	added := p.AddEducation(entry)
	if added {
		if err := uc.profileRepo.Save(ctx, key, p); err != nil {
			return nil, fmt.Errorf("add education failed: %w", err)
		}
		uc.publish(key, service.EventEducationAdded, p.Education[len(p.Education)-1].ID, "")
	}
	return &EducationOutput{Education: p.Education, Added: added}, nil
}

func (uc *ProfileUseCase) ExecuteDeleteEducation(ctx context.Context, id string) (*EducationOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete education failed: %w", err)
	}

	if !p.RemoveEducation(id) {
		return nil, apperror.NewNotFound("education", id)
	}
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("delete education failed: %w", err)
	}

	uc.publish(key, service.EventEducationDeleted, id, "")
	return &EducationOutput{Education: p.Education}, nil
}

type ProjectsOutput struct {
	Projects []profile.Project
	Added    bool
}

func (uc *ProfileUseCase) ExecuteAddProject(ctx context.Context, entry profile.Project) (*ProjectsOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("add project failed: %w", err)
	}

	added, err := p.AddProject(entry)
	if err != nil {
		return nil, apperror.NewInvalidInput("project rejected", err)
	}
	if added {
		if err := uc.profileRepo.Save(ctx, key, p); err != nil {
			return nil, fmt.Errorf("add project failed: %w", err)
		}
		uc.publish(key, service.EventProjectAdded, p.Projects[len(p.Projects)-1].ID, "")
	}
	return &ProjectsOutput{Projects: p.Projects, Added: added}, nil
}

func (uc *ProfileUseCase) ExecuteDeleteProject(ctx context.Context, id string) (*ProjectsOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete project failed: %w", err)
	}

	if !p.RemoveProject(id) {
		return nil, apperror.NewNotFound("project", id)
	}
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("delete project failed: %w", err)
	}

	uc.publish(key, service.EventProjectDeleted, id, "")
	return &ProjectsOutput{Projects: p.Projects}, nil
}

type SkillsOutput struct {
	Skills []profile.Skill
	Added  bool
}

func (uc *ProfileUseCase) ExecuteAddSkill(ctx context.Context, entry profile.Skill) (*SkillsOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("add skill failed: %w", err)
	}

	added, err := p.UpsertSkill(entry)
	if err != nil {
		return nil, apperror.NewInvalidInput("skill rejected", err)
	}
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("add skill failed: %w", err)
	}

	eventType := service.EventSkillUpdated
	if added {
		eventType = service.EventSkillAdded
	}
	uc.publish(key, eventType, skillID(p.Skills, strings.TrimSpace(entry.Name)), "")
	return &SkillsOutput{Skills: p.Skills, Added: added}, nil
}

func (uc *ProfileUseCase) ExecuteDeleteSkill(ctx context.Context, id string) (*SkillsOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete skill failed: %w", err)
	}

	if !p.RemoveSkill(id) {
		return nil, apperror.NewNotFound("skill", id)
	}
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("delete skill failed: %w", err)
	}

	uc.publish(key, service.EventSkillDeleted, id, "")
	return &SkillsOutput{Skills: p.Skills}, nil
}

func skillID(skills []profile.Skill, name string) string {
	for _, s := range skills {
		if s.Name == name {
			return s.ID
		}
	}
	return ""
}
