package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
	"git.home.luguber.info/inful/bentoforge/internal/metrics"
	"git.home.luguber.info/inful/bentoforge/internal/store"
)

// Publisher owns the subdomain registry. All subdomain writes go
// through it so validation cannot be bypassed.
type Publisher struct {
	pubs       store.PublicationStore
	baseDomain string
	recorder   metrics.Recorder
}

// NewPublisher creates a Publisher over the given registry.
func NewPublisher(pubs store.PublicationStore, baseDomain string, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Publisher{pubs: pubs, baseDomain: baseDomain, recorder: recorder}
}

// URL returns the public URL for a subdomain.
func (p *Publisher) URL(subdomain string) string {
	return fmt.Sprintf("https://%s.%s", Normalize(subdomain), p.baseDomain)
}

// Available reports whether a subdomain is valid and unclaimed.
// A subdomain already held by ownerProjectID counts as available to
// that project (republish).
func (p *Publisher) Available(ctx context.Context, subdomain, ownerProjectID string) (bool, error) {
	if err := ValidateSubdomain(subdomain); err != nil {
		return false, err
	}
	pub, err := p.pubs.GetPublicationBySubdomain(ctx, Normalize(subdomain))
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, bentoerr.StorageFailed("lookup subdomain", err)
	}
	return pub.ProjectID == ownerProjectID, nil
}

// Publish claims a subdomain for a project and returns the live URL.
func (p *Publisher) Publish(ctx context.Context, projectID, subdomain string) (*store.Publication, error) {
	sub := Normalize(subdomain)
	if err := ValidateSubdomain(sub); err != nil {
		p.recorder.IncPublishResult(false)
		return nil, err
	}

	pub := &store.Publication{
		Subdomain:   sub,
		ProjectID:   projectID,
		URL:         p.URL(sub),
		PublishedAt: time.Now(),
	}
	if err := p.pubs.PutPublication(ctx, pub); err != nil {
		p.recorder.IncPublishResult(false)
		return nil, bentoerr.PublishFailed(sub, err)
	}

	p.recorder.IncPublishResult(true)
	slog.Info("Site published", "project", projectID, "subdomain", sub, "url", pub.URL)
	return pub, nil
}

// Unpublish releases a project's subdomain. Unpublishing a project
// that is not live is not an error.
func (p *Publisher) Unpublish(ctx context.Context, projectID string) error {
	pub, err := p.pubs.GetPublicationByProject(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return bentoerr.StorageFailed("lookup publication", err)
	}
	if err := p.pubs.DeletePublication(ctx, pub.Subdomain); err != nil && !errors.Is(err, store.ErrNotFound) {
		return bentoerr.StorageFailed("delete publication", err)
	}
	slog.Info("Site unpublished", "project", projectID, "subdomain", pub.Subdomain)
	return nil
}

// Status returns the live publication for a project, or ErrNotFound.
func (p *Publisher) Status(ctx context.Context, projectID string) (*store.Publication, error) {
	return p.pubs.GetPublicationByProject(ctx, projectID)
}
