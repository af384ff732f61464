// Package talereboot provides a high-level façade over the game engine: a
// shared lore.Keeper, a generative model and a store of player sessions, each
// session owning its own narrator, memory and choice ledger. Most applications
// interact with this package by:
//  1. Building a Game via NewFromConfig (or New with explicit components)
//  2. Opening a session with NewSession and showing its Prologue
//  3. Forwarding player actions to Play until the story ends
package talereboot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/openai/openai-go"

	"github.com/yonghwan-ko02/talereboot/classify"
	"github.com/yonghwan-ko02/talereboot/config"
	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/embedding"
	googleembedding "github.com/yonghwan-ko02/talereboot/embedding/google"
	localembedding "github.com/yonghwan-ko02/talereboot/embedding/local"
	openaiembedding "github.com/yonghwan-ko02/talereboot/embedding/openai"
	"github.com/yonghwan-ko02/talereboot/ledger"
	"github.com/yonghwan-ko02/talereboot/logging"
	"github.com/yonghwan-ko02/talereboot/lore"
	"github.com/yonghwan-ko02/talereboot/model"
	anthropicmodel "github.com/yonghwan-ko02/talereboot/model/anthropic"
	googlemodel "github.com/yonghwan-ko02/talereboot/model/google"
	localmodel "github.com/yonghwan-ko02/talereboot/model/local"
	openaimodel "github.com/yonghwan-ko02/talereboot/model/openai"
	"github.com/yonghwan-ko02/talereboot/narrator"
	"github.com/yonghwan-ko02/talereboot/persona"
	"github.com/yonghwan-ko02/talereboot/recorder"
	recordersqlite "github.com/yonghwan-ko02/talereboot/recorder/sqlite"
	"github.com/yonghwan-ko02/talereboot/session"
	vectorsqlite "github.com/yonghwan-ko02/talereboot/vectorstore/sqlite"
)

// Options configures a Game.
type Options struct {
	// Persona is used by NewSession when the caller passes an empty id.
	Persona string
	// Language is the narrative language requested from the model.
	Language string
	// TopK is the number of lore passages retrieved per turn; 0 uses the
	// keeper's default.
	TopK int
	// MaxModelCalls bounds the model calls of each session; 0 means unlimited.
	MaxModelCalls int
	// Registry supplies persona profiles (defaults to the built-in set).
	Registry *persona.Registry
	// Chapters is the scene graph (defaults to the five chapters of the tale).
	Chapters narrator.Chapters

	// Classifier derives ledger choices from player input.
	Classifier classify.Classifier
	// Recorder receives one entry per played turn.
	Recorder recorder.Recorder
	// SessionStore holds live sessions.
	SessionStore session.Store

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Turn is the outcome of one played action.
type Turn struct {
	Number  int
	Text    string
	Choices []ledger.Choice
	Score   int
	Ending  ledger.Ending
	Scene   ledger.Scene
}

// Game aggregates the shared lore keeper, the model and the session store.
type Game struct {
	keeper  *lore.Keeper
	model   model.Model
	opts    Options
	logger  logging.Logger
	closers []io.Closer
}

// New creates a Game over an already prepared keeper and model.
func New(keeper *lore.Keeper, m model.Model, optFns ...func(o *Options)) (*Game, error) {
	if keeper == nil {
		return nil, core.NewError(core.CodeInvalidArgument, "lore keeper is required")
	}
	if m == nil {
		return nil, core.NewError(core.CodeInvalidArgument, "model is required")
	}

	opts := Options{
		Persona:      persona.DefaultID,
		Language:     narrator.DefaultLanguage,
		Registry:     persona.DefaultRegistry(),
		Chapters:     narrator.DefaultChapters(),
		Classifier:   classify.NewKeywordClassifier(nil),
		Recorder:     recorder.NoOp{},
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if !opts.Registry.Has(opts.Persona) {
		return nil, core.Errorf(core.CodeInvalidPersona, "unknown persona %q", opts.Persona)
	}

	return &Game{
		keeper: keeper,
		model:  m,
		opts:   opts,
		logger: logging.OrNoOp(opts.Logger),
	}, nil
}

// NewFromConfig wires every component from cfg: SQLite vector store, lore
// keeper, provider model and, when configured, the SQLite turn recorder.
// A missing book or a failed index build leaves retrieval degraded rather
// than failing.
func NewFromConfig(ctx context.Context, cfg config.Config, optFns ...func(o *Options)) (*Game, error) {
	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)

	var closers []io.Closer
	fail := func(err error) (*Game, error) {
		closeAll(closers)
		return nil, err
	}

	store, err := vectorsqlite.Open(cfg.VectorDBPath)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, store)

	keeper := lore.New(NewEmbeddingFactory(cfg), store, func(o *lore.Options) {
		o.Collection = cfg.Collection
		o.TopK = cfg.TopK
		o.MaxRetries = cfg.MaxRetries
		o.InitialBackoff = cfg.InitialBackoff
		o.Credential = cfg.EmbeddingCredential()
		o.Logger = logger.WithComponent("lore")
	})
	if err := keeper.LoadBook(cfg.BookPath); err != nil {
		logger.Warn("book not loaded, retrieval uses the placeholder", "path", cfg.BookPath, "error", err)
	} else if err := keeper.BuildIndex(ctx); err != nil {
		logger.Warn("index build failed, retrieval degraded to keyword search", "error", err)
	}

	m, err := NewModel(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	if c, ok := m.(io.Closer); ok {
		closers = append(closers, c)
	}

	var rec recorder.Recorder = recorder.NoOp{}
	if cfg.TranscriptDBPath != "" {
		r, err := recordersqlite.Open(cfg.TranscriptDBPath)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, r)
		rec = r
	}

	fns := append([]func(o *Options){func(o *Options) {
		o.Persona = cfg.Persona
		o.Language = cfg.Language
		o.TopK = cfg.TopK
		o.MaxModelCalls = cfg.MaxModelCalls
		o.Recorder = rec
		o.Logger = logger.WithComponent("game")
	}}, optFns...)

	g, err := New(keeper, m, fns...)
	if err != nil {
		return fail(err)
	}
	g.closers = closers
	return g, nil
}

// NewModel selects the generative model for cfg.Provider.
func NewModel(ctx context.Context, cfg config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		m, err := googlemodel.NewModel(ctx, cfg.GoogleAPIKey, func(o *googlemodel.Options) {
			if cfg.ChatModel != "" {
				o.Model = cfg.ChatModel
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, core.NewError(core.CodeConfiguration, "OPENAI_API_KEY is required")
		}
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			if cfg.ChatModel != "" {
				o.Model = cfg.ChatModel
			}
		}), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, core.NewError(core.CodeConfiguration, "ANTHROPIC_API_KEY is required")
		}
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.ChatModel != "" {
				o.Model = anthropic.Model(cfg.ChatModel)
			}
		}), nil
	case config.ProviderLocal:
		return localmodel.NewModel(func(o *localmodel.Options) {
			o.BaseURL = cfg.LocalBaseURL
			if cfg.ChatModel != "" {
				o.Model = cfg.ChatModel
			}
		}), nil
	default:
		return nil, core.Errorf(core.CodeConfiguration, "unsupported provider %q", cfg.Provider)
	}
}

// NewEmbeddingFactory selects the embedding provider for cfg.Provider.
// Anthropic has no embedding endpoint and embeds through OpenAI. The factory
// only connects when the keeper asks it to.
func NewEmbeddingFactory(cfg config.Config) embedding.Factory {
	switch cfg.Provider {
	case config.ProviderLocal:
		return localembedding.NewFactory(func(o *localembedding.Options) {
			o.BaseURL = cfg.LocalBaseURL
			if cfg.EmbeddingModel != "" {
				o.Model = cfg.EmbeddingModel
			}
		})
	case config.ProviderOpenAI, config.ProviderAnthropic:
		return openaiembedding.NewFactory(func(o *openaiembedding.Options) {
			if cfg.EmbeddingModel != "" {
				o.Model = openai.EmbeddingModel(cfg.EmbeddingModel)
			}
		})
	default:
		return googleembedding.NewFactory(func(o *googleembedding.Options) {
			if cfg.EmbeddingModel != "" {
				o.Model = cfg.EmbeddingModel
			}
		})
	}
}

// Keeper returns the shared lore keeper.
func (g *Game) Keeper() *lore.Keeper { return g.keeper }

// Personas lists the selectable persona ids.
func (g *Game) Personas() []string { return g.opts.Registry.IDs() }

// PersonaDescription returns the display description of a persona id.
func (g *Game) PersonaDescription(id string) (string, error) {
	return g.opts.Registry.Description(id)
}

// NewSession opens a session narrated by personaID (the configured default
// when empty).
func (g *Game) NewSession(personaID string) (*session.Session, error) {
	return g.openSession("", personaID)
}

func (g *Game) openSession(id, personaID string) (*session.Session, error) {
	if personaID == "" {
		personaID = g.opts.Persona
	}
	if id == "" {
		id = uuid.NewString()
	}
	limiter := core.NewCallLimiter(g.opts.MaxModelCalls)
	n, err := narrator.New(g.model, ledger.New(), func(o *narrator.Options) {
		o.Persona = personaID
		o.Language = g.opts.Language
		o.Registry = g.opts.Registry
		o.Chapters = g.opts.Chapters
		o.Limiter = limiter
		o.Logger = logging.ForSession(g.opts.Logger, id)
	})
	if err != nil {
		return nil, err
	}
	s := session.New(id, n, func(o *session.Options) { o.Limiter = limiter })
	if err := g.opts.SessionStore.Put(s); err != nil {
		return nil, err
	}
	g.logger.Info("session opened", "session_id", s.ID, "persona", personaID)
	return s, nil
}

// Session returns a live session.
func (g *Game) Session(id string) (*session.Session, error) {
	return g.opts.SessionStore.Get(id)
}

// Prologue returns the fixed opening narration of a session.
func (g *Game) Prologue(sessionID string) (string, error) {
	s, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return "", err
	}
	var text string
	err = s.Lock(func() error {
		text = s.Narrator().GeneratePrologue()
		return nil
	})
	return text, err
}

// Play runs one turn: retrieve lore for the action, generate the narration,
// derive choices from the action and record the result. Only a generation
// failure or an exhausted model call budget fails the turn; the session state
// is then left as it was.
func (g *Game) Play(ctx context.Context, sessionID, input string) (Turn, error) {
	s, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return Turn{}, err
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return Turn{}, core.NewError(core.CodeInvalidArgument, "player action is empty")
	}

	var turn Turn
	err = s.Lock(func() error {
		if s.Limiter().Remaining() == 0 {
			return core.Errorf(core.CodeLimitExceeded, "model call budget of session %s is spent", s.ID)
		}
		start := time.Now()
		passages := g.keeper.Retrieve(ctx, input, g.opts.TopK, lore.WithCredential(s.Credential()))

		text, err := s.Narrator().GenerateStory(ctx, input, passages)
		if err != nil {
			return err
		}

		l := s.Ledger()
		turn = Turn{
			Number:  s.NextTurn(),
			Text:    text,
			Choices: classify.Apply(g.opts.Classifier, l, input),
			Score:   l.RebootScore(),
			Ending:  l.DetermineEnding(),
			Scene:   l.Scene(),
		}
		g.logger.Info("turn played",
			"session_id", s.ID,
			"turn", turn.Number,
			"score", turn.Score,
			"chapter", turn.Scene.Chapter,
			"duration", time.Since(start),
		)

		if err := g.opts.Recorder.Record(ctx, recorder.Entry{
			SessionID: s.ID,
			Turn:      turn.Number,
			Persona:   s.Narrator().CurrentPersona(),
			Input:     input,
			Output:    text,
			Choices:   turn.Choices,
			Score:     turn.Score,
			Ending:    turn.Ending,
			Scene:     turn.Scene,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			g.logger.Warn("turn not recorded", "session_id", s.ID, "turn", turn.Number, "error", err)
		}
		return nil
	})
	return turn, err
}

// Status renders the session's ledger summary, turn count and persona.
func (g *Game) Status(sessionID string) (string, error) {
	s, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("**게임 상태**\n\n")
	b.WriteString(s.Ledger().StateSummary())
	fmt.Fprintf(&b, "\n턴 수: %d\n", s.Turns())
	fmt.Fprintf(&b, "현재 페르소나: %s\n", s.Narrator().CurrentDescription())
	return b.String(), nil
}

// SetPersona switches the narrator persona of a session and returns the
// previous id. An unknown id leaves the session unchanged.
func (g *Game) SetPersona(sessionID, personaID string) (string, error) {
	s, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return "", err
	}
	var previous string
	err = s.Lock(func() error {
		previous = s.Narrator().CurrentPersona()
		return s.Narrator().SetPersona(strings.ToLower(strings.TrimSpace(personaID)))
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

// VerifyCredential checks candidate against the embedding provider and, when
// it works, stores it on the session for request-scoped retrieval.
func (g *Game) VerifyCredential(ctx context.Context, sessionID, candidate string) (bool, string, error) {
	s, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return false, "", err
	}
	ok, msg := g.keeper.VerifyCredential(ctx, candidate)
	if ok {
		s.SetCredential(candidate)
	}
	return ok, msg, nil
}

// Restart replaces a session with a fresh one under the same id, keeping the
// current persona and credential. A custom system prompt is carried over as is.
func (g *Game) Restart(sessionID string) (*session.Session, error) {
	old, err := g.opts.SessionStore.Get(sessionID)
	if err != nil {
		return nil, err
	}
	personaID := old.Narrator().CurrentPersona()
	custom := personaID == persona.CustomID
	if custom {
		personaID = ""
	}
	s, err := g.openSession(old.ID, personaID)
	if err != nil {
		return nil, err
	}
	if custom {
		s.Narrator().SetSystemPrompt(old.Narrator().SystemPrompt())
	}
	s.SetCredential(old.Credential())
	return s, nil
}

// EndSession removes a session.
func (g *Game) EndSession(sessionID string) error {
	if err := g.opts.SessionStore.Delete(sessionID); err != nil {
		return err
	}
	g.logger.Info("session closed", "session_id", sessionID)
	return nil
}

// Close releases the resources opened by NewFromConfig.
func (g *Game) Close() error {
	return closeAll(g.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
