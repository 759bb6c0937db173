// Package store persists projects (site snapshots plus bookkeeping) and
// the publication registry mapping subdomains to projects.
package store

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// ErrNotFound is returned when a project or publication does not exist.
var ErrNotFound = errors.New("not found")

// Project is one saved site with its bookkeeping fields.
type Project struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Owner     string             `json:"owner"`
	Site      sitemodel.SiteData `json:"site"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Publication records one live subdomain assignment.
type Publication struct {
	Subdomain   string    `json:"subdomain"`
	ProjectID   string    `json:"projectId"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ProjectStore persists projects.
type ProjectStore interface {
	Put(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, owner string) ([]*Project, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// PublicationStore persists the subdomain registry. PutPublication
// fails on a subdomain already held by a different project.
type PublicationStore interface {
	PutPublication(ctx context.Context, pub *Publication) error
	GetPublicationBySubdomain(ctx context.Context, subdomain string) (*Publication, error)
	GetPublicationByProject(ctx context.Context, projectID string) (*Publication, error)
	DeletePublication(ctx context.Context, subdomain string) error
	ListPublications(ctx context.Context) ([]*Publication, error)
}
