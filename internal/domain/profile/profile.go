package profile

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Key identifies which profile document an operation targets. There is exactly
// one key today; multi-user support only needs a different KeyFunc.
type Key string

const CurrentKey Key = "current"

// KeyFunc derives the profile key for a request.
type KeyFunc func(ctx context.Context) Key

// CurrentProfile is the default KeyFunc: every request addresses the same document.
func CurrentProfile(_ context.Context) Key {
	return CurrentKey
}

type Links struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

type Education struct {
	ID      string `json:"id"`
	Degree  string `json:"degree"`
	College string `json:"college"`
	Year    string `json:"year"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Link        string   `json:"link"`
}

type Skill struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

type Profile struct {
	FullName       string      `json:"fullName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Title          string      `json:"title"`
	Summary        string      `json:"summary"`
	Links          Links       `json:"links"`
	ProfilePicture *string     `json:"profilePicture"`
	Education      []Education `json:"education"`
	Projects       []Project   `json:"projects"`
	Skills         []Skill     `json:"skills"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

const (
	MinSkillRating = 1
	MaxSkillRating = 5
)

var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrSkillNameRequired   = errors.New("skill name is required")
	ErrSkillRatingRange    = errors.New("skill rating must be between 1 and 5")
)

// New returns an empty profile: blank scalars, empty lists, no picture.
func New() *Profile {
	p := &Profile{}
	p.Normalize()
	return p
}

// Normalize replaces nil lists with empty ones so documents always serialize as arrays.
func (p *Profile) Normalize() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	for i := range p.Projects {
		if p.Projects[i].TechStack == nil {
			p.Projects[i].TechStack = []string{}
		}
	}
}

// Patch is a partial update. Nil or blank fields keep the stored value.
type Patch struct {
	FullName *string
	Email    *string
	Phone    *string
	Title    *string
	Summary  *string
	Links    *LinksPatch
}

type LinksPatch struct {
	GitHub    *string
	LinkedIn  *string
	Portfolio *string
}

// Apply merges the patch field by field and reports whether anything changed.
func (p *Profile) Apply(patch Patch) bool {
	changed := false
	merge := func(dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v == "" || v == *dst {
			return
		}
		*dst = v
		changed = true
	}

	merge(&p.FullName, patch.FullName)
	merge(&p.Email, patch.Email)
	merge(&p.Phone, patch.Phone)
	merge(&p.Title, patch.Title)
	merge(&p.Summary, patch.Summary)
	if patch.Links != nil {
		merge(&p.Links.GitHub, patch.Links.GitHub)
		merge(&p.Links.LinkedIn, patch.Links.LinkedIn)
		merge(&p.Links.Portfolio, patch.Links.Portfolio)
	}
	return changed
}

// AddEducation appends e unless an entry with the same degree, college and year exists.
// It returns false when the entry was skipped as a duplicate.
func (p *Profile) AddEducation(e Education) bool {
	e.Degree = strings.TrimSpace(e.Degree)
	e.College = strings.TrimSpace(e.College)
	e.Year = strings.TrimSpace(e.Year)
	for _, existing := range p.Education {
		if existing.Degree == e.Degree && existing.College == e.College && existing.Year == e.Year {
			return false
		}
	}
	e.ID = ""
	p.Education = append(p.Education, e)
	return true
}

// AddProject appends pr unless a project with the same name exists.
func (p *Profile) AddProject(pr Project) (bool, error) {
	pr.Name = strings.TrimSpace(pr.Name)
	if pr.Name == "" {
		return false, ErrProjectNameRequired
	}
	pr.Description = strings.TrimSpace(pr.Description)
	pr.Link = strings.TrimSpace(pr.Link)
	pr.TechStack = cleanStack(pr.TechStack)

	for _, existing := range p.Projects {
		if existing.Name == pr.Name {
			return false, nil
		}
	}
	pr.ID = ""
	p.Projects = append(p.Projects, pr)
	return true, nil
}

// UpsertSkill appends s, or updates the rating of the skill that already has its name.
// It returns true when a new entry was appended.
func (p *Profile) UpsertSkill(s Skill) (bool, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return false, ErrSkillNameRequired
	}
	if s.Rating < MinSkillRating || s.Rating > MaxSkillRating {
		return false, ErrSkillRatingRange
	}
	for i := range p.Skills {
		if p.Skills[i].Name == s.Name {
			p.Skills[i].Rating = s.Rating
			return false, nil
		}
	}
	s.ID = ""
	p.Skills = append(p.Skills, s)
	return true, nil
}

func (p *Profile) RemoveEducation(id string) bool {
	kept, removed := filterOut(p.Education, func(e Education) bool { return e.ID == id })
	p.Education = kept
	return removed
}

func (p *Profile) RemoveProject(id string) bool {
	kept, removed := filterOut(p.Projects, func(pr Project) bool { return pr.ID == id })
	p.Projects = kept
	return removed
}

func (p *Profile) RemoveSkill(id string) bool {
	kept, removed := filterOut(p.Skills, func(s Skill) bool { return s.ID == id })
	p.Skills = kept
	return removed
}

// AssignIDs gives every entry without an id one from next. Stores call this on save.
func (p *Profile) AssignIDs(next func() string) {
	for i := range p.Education {
		if p.Education[i].ID == "" {
			p.Education[i].ID = next()
		}
	}
	for i := range p.Projects {
		if p.Projects[i].ID == "" {
			p.Projects[i].ID = next()
		}
	}
	for i := range p.Skills {
		if p.Skills[i].ID == "" {
			p.Skills[i].ID = next()
		}
	}
}

// Clone returns a deep copy, so stores never share slices with callers.
func (p *Profile) Clone() *Profile {
	c := *p
	if p.ProfilePicture != nil {
		name := *p.ProfilePicture
		c.ProfilePicture = &name
	}
	c.Education = append([]Education{}, p.Education...)
	c.Skills = append([]Skill{}, p.Skills...)
	c.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		pr.TechStack = append([]string{}, pr.TechStack...)
		c.Projects[i] = pr
	}
	return &c
}

func filterOut[T any](items []T, match func(T) bool) ([]T, bool) {
	kept := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if !removed && match(item) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}

func cleanStack(stack []string) []string {
	out := make([]string, 0, len(stack))
	for _, s := range stack {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Repository interface {
	Get(ctx context.Context, key Key) (*Profile, error)
	FindOrCreate(ctx context.Context, key Key) (*Profile, error)
	Save(ctx context.Context, key Key, p *Profile) error
}
