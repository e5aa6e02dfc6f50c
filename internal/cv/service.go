package cv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/shared/metrics"
	"cvstudio-backend/internal/shared/telemetry"
)

const (
	msgLoadListFailed = "Failed to load your saved CVs"
	msgLoadFailed     = "Failed to load the CV"
	msgSaved          = "Your CV has been saved successfully"
	msgSaveFailed     = "Failed to save your CV"
	msgDeleted        = "CV deleted successfully"
	msgDeleteFailed   = "Failed to delete the CV"

	msgLoginToList   = "You must be logged in to view your CVs"
	msgLoginToLoad   = "You must be logged in to open a CV"
	msgLoginToSave   = "You must be logged in to save a CV"
	msgLoginToDelete = "You must be logged in to delete a CV"
)

// Gateway is the only path between CV documents and storage. It owns the
// record mapping, scopes every call to a user and turns failures into notices.
type Gateway struct {
	Repo     Repo
	Notifier notify.Notifier
	Now      func() time.Time
	NewID    func() string
	tracer   trace.Tracer
}

func NewGateway(repo Repo, notifier notify.Notifier) *Gateway {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Gateway{
		Repo:     repo,
		Notifier: notifier,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		tracer:   telemetry.Tracer("cvstudio/cv"),
	}
}

// FetchAll returns the user's CVs, most recently updated first.
func (g *Gateway) FetchAll(ctx context.Context, userID string) (docs []Document, err error) {
	ctx, span := g.startSpan(ctx, "cv.FetchAll", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToList); err != nil {
		return nil, err
	}
	recs, err := g.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, g.storageFailure(ctx, "cv.fetch_all", msgLoadListFailed, err, map[string]any{"user_id": userID})
	}
	docs = make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, FromRecord(rec))
	}
	return docs, nil
}

// FetchOne returns a single CV owned by userID.
func (g *Gateway) FetchOne(ctx context.Context, id, userID string) (doc Document, err error) {
	ctx, span := g.startSpan(ctx, "cv.FetchOne", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToLoad); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrInvalidInput
	}
	rec, err := g.Repo.Get(ctx, id, userID)
	if err != nil {
		fields := map[string]any{"user_id": userID, "cv_id": id}
		if errors.Is(err, ErrNotFound) {
			telemetry.Warn("cv.fetch_one.not_found", fields)
			g.Notifier.Notify(ctx, notify.Failure(msgLoadFailed))
			return Document{}, ErrNotFound
		}
		return Document{}, g.storageFailure(ctx, "cv.fetch_one", msgLoadFailed, err, fields)
	}
	return FromRecord(rec), nil
}

// Save inserts doc when it has no id and updates it otherwise. A blank title
// is replaced by DefaultTitle and skills are trimmed with blanks dropped. The
// persisted document is returned.
func (g *Gateway) Save(ctx context.Context, doc Document, userID string) (saved Document, err error) {
	ctx, span := g.startSpan(ctx, "cv.Save", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToSave); err != nil {
		return Document{}, err
	}

	now := g.now()
	doc.Title = doc.EffectiveTitle()
	doc.Skills = NormalizeSkills(doc.Skills)
	doc.UpdatedAt = now
	fields := map[string]any{"user_id": userID}

	if doc.ID == "" {
		doc.ID = g.newID()
		doc.CreatedAt = now
		span.SetAttributes(attribute.String("cv.op", "insert"))
		if err := g.Repo.Insert(ctx, ToRecord(doc, userID)); err != nil {
			return Document{}, g.storageFailure(ctx, "cv.insert", msgSaveFailed, err, fields)
		}
	} else {
		fields["cv_id"] = doc.ID
		span.SetAttributes(attribute.String("cv.op", "update"))
		if err := g.Repo.Update(ctx, ToRecord(doc, userID)); err != nil {
			if errors.Is(err, ErrNotFound) {
				telemetry.Warn("cv.update.not_found", fields)
				g.Notifier.Notify(ctx, notify.Failure(msgSaveFailed))
				return Document{}, ErrNotFound
			}
			return Document{}, g.storageFailure(ctx, "cv.update", msgSaveFailed, err, fields)
		}
		rec, err := g.Repo.Get(ctx, doc.ID, userID)
		if err != nil {
			return Document{}, g.storageFailure(ctx, "cv.update.reload", msgSaveFailed, err, fields)
		}
		doc = FromRecord(rec)
	}

	metrics.IncDocumentSaved()
	telemetry.Info("cv.saved", map[string]any{"user_id": userID, "cv_id": doc.ID})
	g.Notifier.Notify(ctx, notify.Success(msgSaved))
	return doc, nil
}

// Delete removes the CV. Deleting an id that does not exist succeeds.
func (g *Gateway) Delete(ctx context.Context, id, userID string) (err error) {
	ctx, span := g.startSpan(ctx, "cv.Delete", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToDelete); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := g.Repo.Delete(ctx, id, userID); err != nil {
		return g.storageFailure(ctx, "cv.delete", msgDeleteFailed, err, map[string]any{"user_id": userID, "cv_id": id})
	}
	metrics.IncDocumentDeleted()
	g.Notifier.Notify(ctx, notify.Success(msgDeleted))
	return nil
}

func (g *Gateway) requireUser(ctx context.Context, userID, message string) error {
	if strings.TrimSpace(userID) != "" {
		return nil
	}
	g.Notifier.Notify(ctx, notify.Failure(message))
	return ErrLoginRequired
}

func (g *Gateway) storageFailure(ctx context.Context, op, message string, cause error, fields map[string]any) error {
	fields["op"] = op
	fields["err"] = cause.Error()
	telemetry.Error("cv.storage_error", fields)
	g.Notifier.Notify(ctx, notify.Failure(message))
	return fmt.Errorf("%w: %w", ErrStorage, cause)
}

func (g *Gateway) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	tracer := g.tracer
	if tracer == nil {
		tracer = telemetry.Tracer("cvstudio/cv")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Bool("user.present", userID != "")))
}

func (g *Gateway) now() time.Time {
	if g.Now != nil {
		return g.Now().UTC()
	}
	return time.Now().UTC()
}

func (g *Gateway) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}
