package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// Store persists sessions and their message timelines in Firestore. It is an
// optional backend; the memory store stays the default for single-session use.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (BOOKWISE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection("messages")
}

func (s *Store) messageDoc(sessionID domain.SessionID, msgID domain.MessageID) *firestore.DocumentRef {
	return s.messagesCol(sessionID).Doc(string(msgID))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	UserID        string    `firestore:"user_id"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
	StepCursor    int       `firestore:"step_cursor"`
	SetupComplete bool      `firestore:"setup_complete"`
	PendingGenres []string  `firestore:"pending_genres"`
	KnownTitles   []string  `firestore:"known_titles"`

	ProfileName     string   `firestore:"profile_name"`
	Genres          []string `firestore:"genres"`
	RecentBooks     []string `firestore:"recent_books"`
	FavoriteBooks   []string `firestore:"favorite_books"`
	FavoriteAuthors []string `firestore:"favorite_authors"`
	TrackingApp     string   `firestore:"tracking_app"`
}

type messageDoc struct {
	SessionID string    `firestore:"session_id"`
	Sender    string    `firestore:"sender"`
	Text      string    `firestore:"text"`
	Kind      string    `firestore:"kind"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toSessionDoc(session *domain.Session) sessionDoc {
	return sessionDoc{
		UserID:        string(session.UserID),
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
		StepCursor:    session.StepCursor,
		SetupComplete: session.SetupComplete,
		PendingGenres: session.PendingGenres,
		KnownTitles:   session.KnownTitles,

		ProfileName:     session.Profile.Name,
		Genres:          session.Profile.Genres,
		RecentBooks:     session.Profile.RecentBooks,
		FavoriteBooks:   session.Profile.FavoriteBooks,
		FavoriteAuthors: session.Profile.FavoriteAuthors,
		TrackingApp:     session.Profile.TrackingApp,
	}
}

func fromSessionDoc(id domain.SessionID, doc sessionDoc) *domain.Session {
	return &domain.Session{
		ID:            id,
		UserID:        domain.UserID(doc.UserID),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		StepCursor:    doc.StepCursor,
		SetupComplete: doc.SetupComplete,
		PendingGenres: doc.PendingGenres,
		KnownTitles:   doc.KnownTitles,
		Profile: domain.UserProfile{
			Name:            doc.ProfileName,
			Genres:          doc.Genres,
			RecentBooks:     doc.RecentBooks,
			FavoriteBooks:   doc.FavoriteBooks,
			FavoriteAuthors: doc.FavoriteAuthors,
			TrackingApp:     doc.TrackingApp,
		},
	}
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(session *domain.Session) error {
	ctx := context.Background()

	_, err := s.sessionDoc(session.ID).Create(ctx, toSessionDoc(session))
	if err != nil {
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(session *domain.Session) error {
	ctx := context.Background()

	_, err := s.sessionDoc(session.ID).Set(ctx, toSessionDoc(session))
	if err != nil {
		return fmt.Errorf("firestore UpdateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return fromSessionDoc(id, doc), nil
}

func (s *Store) ListSessionsByUser(userID domain.UserID, limit int) ([]*domain.Session, error) {
	ctx := context.Background()

	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessionsByUser: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		out = append(out, fromSessionDoc(domain.SessionID(snap.Ref.ID), doc))
	}
	return out, nil
}

// ─────────────────────────────────────────
// MessageStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(msg *domain.Message) error {
	ctx := context.Background()

	doc := messageDoc{
		SessionID: string(msg.SessionID),
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		Kind:      string(msg.Kind),
		CreatedAt: msg.CreatedAt,
	}

	_, err := s.messageDoc(msg.SessionID, msg.ID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *Store) GetMessagesBySession(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	ctx := context.Background()

	q := s.messagesCol(sessionID).OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetMessagesBySession: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, &domain.Message{
			ID:        domain.MessageID(snap.Ref.ID),
			SessionID: sessionID,
			Sender:    domain.Role(doc.Sender),
			Text:      doc.Text,
			Kind:      domain.MessageKind(doc.Kind),
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}
