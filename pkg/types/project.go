// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ProjectStatus is the lifecycle state of a project. Values outside
// the fixed set fail validation at construction time.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusOnHold    ProjectStatus = "on_hold"
	StatusArchived  ProjectStatus = "archived"
)

// ProjectStatuses lists every valid ProjectStatus.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusActive, StatusCompleted, StatusOnHold, StatusArchived}
}

// CollaboratorRole is a collaborator's title. Serializes as the full
// title string (e.g. "Principal Investigator").
type CollaboratorRole string

const (
	RolePI           CollaboratorRole = "Principal Investigator"
	RoleResearcher   CollaboratorRole = "Researcher"
	RoleStudent      CollaboratorRole = "Student"
	RoleTechnician   CollaboratorRole = "Technician"
	RoleCollaborator CollaboratorRole = "Collaborator"
)

// CollaboratorRoles lists every valid CollaboratorRole.
func CollaboratorRoles() []CollaboratorRole {
	return []CollaboratorRole{RolePI, RoleResearcher, RoleStudent, RoleTechnician, RoleCollaborator}
}

// RelatedDataset is a lightweight reference from a project to a dataset.
type RelatedDataset struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks required fields.
func (r RelatedDataset) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Slug, validation.Required),
	)
}

// Script records a script or code file belonging to a project.
type Script struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Validate checks required fields.
func (s Script) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Path, validation.Required),
		validation.Field(&s.Description, validation.Required),
	)
}

// Collaborator is a member of a project team.
type Collaborator struct {
	Name        string           `json:"name" yaml:"name"`
	Role        CollaboratorRole `json:"role" yaml:"role"`
	Email       string           `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation string           `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Validate checks required fields and role membership.
func (c Collaborator) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Role, validation.Required,
			validation.In(RolePI, RoleResearcher, RoleStudent, RoleTechnician, RoleCollaborator)),
	)
}

// Publication is a published work associated with a project.
type Publication struct {
	Title   string `json:"title" yaml:"title"`
	Journal string `json:"journal" yaml:"journal"`
	Year    int    `json:"year" yaml:"year"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Validate checks required fields.
func (p Publication) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Journal, validation.Required),
		validation.Field(&p.Year, validation.Required),
	)
}

// Project describes one research project tracked by the knowledgebase.
type Project struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Objectives  string `json:"objectives" yaml:"objectives"`

	Status        ProjectStatus `json:"status" yaml:"status"`
	DateStarted   Date          `json:"date_started" yaml:"date_started"`
	DateCompleted *Date         `json:"date_completed,omitempty" yaml:"date_completed,omitempty"`
	DateAdded     time.Time     `json:"date_added" yaml:"date_added"`

	PrincipalInvestigator string         `json:"principal_investigator" yaml:"principal_investigator"`
	Collaborators         []Collaborator `json:"collaborators" yaml:"collaborators"`

	Datasets []RelatedDataset `json:"datasets" yaml:"datasets"`
	Scripts  []Script         `json:"scripts" yaml:"scripts"`

	ResultsPath        string `json:"results_path,omitempty" yaml:"results_path,omitempty"`
	ResultsDescription string `json:"results_description,omitempty" yaml:"results_description,omitempty"`

	Publications []Publication `json:"publications" yaml:"publications"`

	Tags []string `json:"tags" yaml:"tags"`
}

// Validate checks required fields, status membership, and nested records.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.Path, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Objectives, validation.Required),
		validation.Field(&p.Status, validation.Required,
			validation.In(StatusActive, StatusCompleted, StatusOnHold, StatusArchived)),
		validation.Field(&p.DateStarted, validation.By(requiredDate)),
		validation.Field(&p.PrincipalInvestigator, validation.Required),
		validation.Field(&p.Collaborators),
		validation.Field(&p.Datasets),
		validation.Field(&p.Scripts),
		validation.Field(&p.Publications),
	)
}

// requiredDate rejects the zero Date. ozzo's Required only special-cases
// time.Time itself, so Date needs its own emptiness rule.
func requiredDate(value any) error {
	d, ok := value.(Date)
	if !ok || d.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}
