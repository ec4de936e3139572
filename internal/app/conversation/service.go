package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmoretti/bookwise-agent/internal/app/interview"
	"github.com/dmoretti/bookwise-agent/internal/app/recommend"
	"github.com/dmoretti/bookwise-agent/internal/app/router"
	"github.com/dmoretti/bookwise-agent/internal/domain"
	"github.com/dmoretti/bookwise-agent/internal/observability"
)

// Service owns the conversation flow of a session: the scripted interview
// first, then free chat routed through the intent rules. One user input is
// processed to completion (including any LLM round trip) before the next one
// is accepted for the same session.
type Service struct {
	assistant    domain.Assistant
	sessionStore domain.SessionStore
	messageStore domain.MessageStore
	engine       *interview.Engine
	router       *router.Router
	now          func() time.Time

	mu       sync.Mutex
	inFlight map[domain.SessionID]bool
}

func NewService(
	assistant domain.Assistant,
	sessionStore domain.SessionStore,
	messageStore domain.MessageStore,
) *Service {
	return &Service{
		assistant:    assistant,
		sessionStore: sessionStore,
		messageStore: messageStore,
		engine:       interview.NewEngine(),
		router:       router.New(),
		now:          time.Now,
		inFlight:     make(map[domain.SessionID]bool),
	}
}

type StartSessionInput struct {
	UserID domain.UserID
}

type StartSessionOutput struct {
	Session  *domain.Session
	Greeting *domain.Message
}

// StartSession creates a fresh session and greets with the first interview
// question.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	log.Info("starting new session")

	session := &domain.Session{
		ID:        domain.SessionID(generateID()),
		UserID:    in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionStore.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	greeting := s.botMessage(session.ID, s.engine.FirstPrompt(session), domain.KindPlain)
	if err := s.messageStore.AppendMessage(greeting); err != nil {
		log.Error("failed to append greeting", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{
		Session:  session,
		Greeting: greeting,
	}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserMessage *domain.Message
	BotMessages []*domain.Message
}

// SendMessage handles one user input: an interview answer while setup is
// incomplete, free chat afterwards. Validation failures leave the session
// untouched so the caller can re-prompt.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(session.ID); err != nil {
		return nil, err
	}
	defer s.release(session.ID)

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"user_id", session.UserID,
		"setup_complete", session.SetupComplete,
	)
	log.Info("handling message", "text", in.Text)

	// Stamped before any reply is built so the timeline keeps its causal
	// order when consumers sort by created_at.
	userMsg := &domain.Message{
		ID:        domain.MessageID(generateID()),
		SessionID: session.ID,
		Sender:    domain.RoleUser,
		Text:      in.Text,
		Kind:      domain.KindPlain,
		CreatedAt: s.now(),
	}

	var botMessages []*domain.Message
	if !session.SetupComplete {
		res, err := s.engine.SubmitAnswer(session, in.Text)
		if err != nil {
			return nil, err
		}
		if res.RecommendationsRequested {
			botMessages = s.fetchRecommendations(ctx, session)
		} else {
			botMessages = []*domain.Message{s.botMessage(session.ID, res.NextPrompt, domain.KindPlain)}
		}
	} else {
		if strings.TrimSpace(in.Text) == "" {
			return nil, domain.Validationf("please type a message first")
		}
		action := s.router.Route(in.Text, session.KnownTitles)
		botMessages = s.execute(ctx, session, action)
	}

	out, err := s.persistExchange(ctx, session, userMsg, botMessages)
	if err != nil {
		return nil, err
	}

	log.Info("message handled", "bot_messages", len(botMessages))
	return out, nil
}

type ToggleGenreInput struct {
	SessionID domain.SessionID
	Genre     string
}

// ToggleGenre flips one option of the multi-select genre step and returns
// the current selection.
func (s *Service) ToggleGenre(ctx context.Context, in ToggleGenreInput) ([]string, error) {
	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(session.ID); err != nil {
		return nil, err
	}
	defer s.release(session.ID)

	if err := s.engine.ToggleGenre(session, in.Genre); err != nil {
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(session); err != nil {
		return nil, err
	}

	return session.PendingGenres, nil
}

type ContinueGenresInput struct {
	SessionID domain.SessionID
}

// ContinueGenres commits the genre selection and moves to the next question.
// The selection shows up in the timeline as a user message.
func (s *Service) ContinueGenres(ctx context.Context, in ContinueGenresInput) (*SendMessageOutput, error) {
	session, err := s.sessionStore.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(session.ID); err != nil {
		return nil, err
	}
	defer s.release(session.ID)

	selection := strings.Join(session.PendingGenres, ", ")

	res, err := s.engine.ContinueGenres(session)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:        domain.MessageID(generateID()),
		SessionID: session.ID,
		Sender:    domain.RoleUser,
		Text:      selection,
		Kind:      domain.KindPlain,
		CreatedAt: s.now(),
	}

	var botMessages []*domain.Message
	if res.RecommendationsRequested {
		botMessages = s.fetchRecommendations(ctx, session)
	} else {
		botMessages = []*domain.Message{s.botMessage(session.ID, res.NextPrompt, domain.KindPlain)}
	}

	return s.persistExchange(ctx, session, userMsg, botMessages)
}

// GetSessionTimeline returns the session, its messages, and whether the bot
// is currently producing a reply (input surface should stay disabled then).
func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, bool, error) {

	session, err := s.sessionStore.GetSession(sessionID)
	if err != nil {
		return nil, nil, false, err
	}

	msgs, err := s.messageStore.GetMessagesBySession(sessionID, limit)
	if err != nil {
		return nil, nil, false, err
	}

	return session, msgs, s.isBusy(sessionID), nil
}

// ListUserSessions returns the user's sessions, most recent last.
func (s *Service) ListUserSessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	return s.sessionStore.ListSessionsByUser(userID, limit)
}

// ─────────────────────────────────────────────
// Action execution
// ─────────────────────────────────────────────

// execute turns a routed action into bot messages. Provider failures never
// escape: every LLM-backed branch substitutes its static fallback.
func (s *Service) execute(ctx context.Context, session *domain.Session, action router.Action) []*domain.Message {
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	switch a := action.(type) {
	case router.AnswerAboutBook:
		return []*domain.Message{s.answerAboutBook(ctx, session, a)}

	case router.FetchMoreRecommendations:
		return s.fetchRecommendations(ctx, session)

	case router.LinkDigest:
		return []*domain.Message{s.botMessage(session.ID, linkDigestReply(a.Titles), domain.KindPlain)}

	case router.AskForTitle:
		return []*domain.Message{s.botMessage(session.ID, askForTitleReply, domain.KindQuickActions)}

	case router.AnswerGeneral:
		reply, err := s.assistant.AnswerQuestion(ctx, a.Question, session.Profile)
		if err != nil {
			log.Warn("general answer failed, using fallback", "error", err)
			reply = generalFallback(session.Profile.Name)
		}
		return []*domain.Message{s.botMessage(session.ID, reply, domain.KindPlain)}

	default:
		return []*domain.Message{s.botMessage(session.ID, generalFallback(session.Profile.Name), domain.KindPlain)}
	}
}

func (s *Service) answerAboutBook(ctx context.Context, session *domain.Session, a router.AnswerAboutBook) *domain.Message {
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID, "title", a.Title)

	switch a.Intent {
	case router.IntentLinks:
		return s.botMessage(session.ID, linksReply(a.Title, a.Links), domain.KindPlain)

	case router.IntentSummary:
		summary, err := s.assistant.SummarizeBook(ctx, a.Title, session.Profile)
		if err != nil {
			log.Warn("summary failed, using fallback", "error", err)
			return s.botMessage(session.ID, summaryFallback+"\n\n"+linksBlock(a.Links), domain.KindPlain)
		}
		return s.botMessage(session.ID, summary, domain.KindPlain)

	case router.IntentInterest:
		return s.botMessage(session.ID, interestReply(a.Title, a.Links), domain.KindPlain)

	default:
		return s.botMessage(session.ID, optionsReply(a.Title), domain.KindQuickActions)
	}
}

// fetchRecommendations asks the LLM for a fresh batch and swaps the known
// titles with whatever the new text yields. The swap is wholesale so the set
// always reflects the latest batch only; the fallback text is parseable too,
// keeping the bot usable while the provider is down.
func (s *Service) fetchRecommendations(ctx context.Context, session *domain.Session) []*domain.Message {
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	text, err := s.assistant.RecommendBooks(ctx, session.Profile)
	if err != nil {
		log.Warn("recommendation fetch failed, using fallback", "error", err)
		text = recommendationFallback(session.Profile)
	}

	session.KnownTitles = recommend.ExtractTitles(text)
	log.Info("recommendations extracted", "titles", len(session.KnownTitles))

	return []*domain.Message{
		s.botMessage(session.ID, text, domain.KindPlain),
		s.botMessage(session.ID, followUpPrompt, domain.KindQuickActions),
	}
}

// persistExchange appends the exchange and saves the session. The session is
// re-read first: if it vanished while an LLM round trip was in flight (user
// switched sessions), the late reply is dropped instead of resurrecting it.
func (s *Service) persistExchange(
	ctx context.Context,
	session *domain.Session,
	userMsg *domain.Message,
	botMessages []*domain.Message,
) (*SendMessageOutput, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if _, err := s.sessionStore.GetSession(session.ID); err != nil {
		log.Warn("session gone, dropping late reply", "error", err)
		return nil, err
	}

	if err := s.messageStore.AppendMessage(userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}
	for _, m := range botMessages {
		if err := s.messageStore.AppendMessage(m); err != nil {
			log.Error("failed to append bot message", "error", err)
			return nil, err
		}
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	return &SendMessageOutput{
		UserMessage: userMsg,
		BotMessages: botMessages,
	}, nil
}

// ─────────────────────────────────────────────
// In-flight guard
// ─────────────────────────────────────────────

func (s *Service) acquire(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return domain.ErrSessionBusy
	}
	s.inFlight[id] = true
	return nil
}

func (s *Service) release(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func (s *Service) isBusy(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[id]
}

func (s *Service) botMessage(sessionID domain.SessionID, text string, kind domain.MessageKind) *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(generateID()),
		SessionID: sessionID,
		Sender:    domain.RoleBot,
		Text:      text,
		Kind:      kind,
		CreatedAt: s.now(),
	}
}

func generateID() string {
	return uuid.NewString()
}
