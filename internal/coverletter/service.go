package coverletter

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
	msgLoadListFailed = "Failed to load your saved cover letters"
	msgLoadFailed     = "Failed to load the cover letter"
	msgSaved          = "Your cover letter has been saved successfully"
	msgSaveFailed     = "Failed to save your cover letter"
	msgDeleted        = "Cover letter deleted successfully"
	msgDeleteFailed   = "Failed to delete the cover letter"

	msgLoginToList   = "You must be logged in to view your cover letters"
	msgLoginToSave   = "You must be logged in to save a cover letter"
	msgLoginToDelete = "You must be logged in to delete a cover letter"
)

// Gateway mediates every storage call for cover letters.
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
		tracer:   telemetry.Tracer("cvstudio/coverletter"),
	}
}

func (g *Gateway) FetchAll(ctx context.Context, userID string) (docs []Document, err error) {
	ctx, span := g.startSpan(ctx, "coverletter.FetchAll", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToList); err != nil {
		return nil, err
	}
	recs, err := g.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, g.storageFailure(ctx, "coverletter.fetch_all", msgLoadListFailed, err, map[string]any{"user_id": userID})
	}
	docs = make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, FromRecord(rec))
	}
	return docs, nil
}

func (g *Gateway) FetchOne(ctx context.Context, id, userID string) (doc Document, err error) {
	ctx, span := g.startSpan(ctx, "coverletter.FetchOne", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToList); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrInvalidInput
	}
	rec, err := g.Repo.Get(ctx, id, userID)
	if err != nil {
		fields := map[string]any{"user_id": userID, "letter_id": id}
		if errors.Is(err, ErrNotFound) {
			telemetry.Warn("coverletter.fetch_one.not_found", fields)
			g.Notifier.Notify(ctx, notify.Failure(msgLoadFailed))
			return Document{}, ErrNotFound
		}
		return Document{}, g.storageFailure(ctx, "coverletter.fetch_one", msgLoadFailed, err, fields)
	}
	return FromRecord(rec), nil
}

// Save inserts or updates doc (decided by the presence of an id) and returns
// the persisted letter.
func (g *Gateway) Save(ctx context.Context, doc Document, userID string) (saved Document, err error) {
	ctx, span := g.startSpan(ctx, "coverletter.Save", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToSave); err != nil {
		return Document{}, err
	}

	now := g.now()
	doc.Title = doc.EffectiveTitle()
	doc.UserID = userID
	doc.UpdatedAt = now
	fields := map[string]any{"user_id": userID}

	if doc.ID == "" {
		doc.ID = g.newID()
		doc.CreatedAt = now
		span.SetAttributes(attribute.String("coverletter.op", "insert"))
		if err := g.Repo.Insert(ctx, ToRecord(doc, userID)); err != nil {
			return Document{}, g.storageFailure(ctx, "coverletter.insert", msgSaveFailed, err, fields)
		}
	} else {
		fields["letter_id"] = doc.ID
		span.SetAttributes(attribute.String("coverletter.op", "update"))
		if err := g.Repo.Update(ctx, ToRecord(doc, userID)); err != nil {
			if errors.Is(err, ErrNotFound) {
				telemetry.Warn("coverletter.update.not_found", fields)
				g.Notifier.Notify(ctx, notify.Failure(msgSaveFailed))
				return Document{}, ErrNotFound
			}
			return Document{}, g.storageFailure(ctx, "coverletter.update", msgSaveFailed, err, fields)
		}
		rec, err := g.Repo.Get(ctx, doc.ID, userID)
		if err != nil {
			return Document{}, g.storageFailure(ctx, "coverletter.update.reload", msgSaveFailed, err, fields)
		}
		doc = FromRecord(rec)
	}

	metrics.IncDocumentSaved()
	telemetry.Info("coverletter.saved", map[string]any{"user_id": userID, "letter_id": doc.ID})
	g.Notifier.Notify(ctx, notify.Success(msgSaved))
	return doc, nil
}

// Delete is idempotent: a missing id is not an error.
func (g *Gateway) Delete(ctx context.Context, id, userID string) (err error) {
	ctx, span := g.startSpan(ctx, "coverletter.Delete", userID)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := g.requireUser(ctx, userID, msgLoginToDelete); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := g.Repo.Delete(ctx, id, userID); err != nil {
		return g.storageFailure(ctx, "coverletter.delete", msgDeleteFailed, err, map[string]any{"user_id": userID, "letter_id": id})
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
	telemetry.Error("coverletter.storage_error", fields)
	g.Notifier.Notify(ctx, notify.Failure(message))
	return fmt.Errorf("%w: %w", ErrStorage, cause)
}

func (g *Gateway) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	tracer := g.tracer
	if tracer == nil {
		tracer = telemetry.Tracer("cvstudio/coverletter")
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
