package narrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/internal/util"
	"github.com/yonghwan-ko02/talereboot/ledger"
	"github.com/yonghwan-ko02/talereboot/logging"
	"github.com/yonghwan-ko02/talereboot/memory"
	"github.com/yonghwan-ko02/talereboot/model"
	"github.com/yonghwan-ko02/talereboot/persona"
)

// DefaultLanguage is the narrative language requested from the model.
const DefaultLanguage = "Korean"

// Options configures a Narrator.
type Options struct {
	// Persona is the initial persona id.
	Persona string
	// Language is the target narrative language.
	Language string
	// Registry supplies persona profiles.
	Registry *persona.Registry
	// Chapters is the scene graph used when a resolution is detected.
	Chapters Chapters
	// MemoryThreshold and ExciseCount control short-term memory transfer.
	MemoryThreshold int
	ExciseCount     int
	// DefaultContext fills the background block when retrieval returned nothing.
	DefaultContext string
	// Notice is appended to the display text after a resolution.
	Notice string
	// Prologue is the fixed opening text.
	Prologue string
	// Limiter budgets every model call, story and summary alike. Nil means
	// unlimited.
	Limiter *core.CallLimiter
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// Narrator composes prompts, calls the model and maintains memory and scene state.
type Narrator struct {
	model  model.Model
	ledger *ledger.Ledger
	memory *memory.Memory
	opts   Options
	logger logging.Logger

	turnMu sync.Mutex // serializes GenerateStory and GeneratePrologue

	mu           sync.RWMutex
	personaID    string
	systemPrompt string
}

// New creates a Narrator writing scene changes into l. A nil ledger gets a
// fresh one.
func New(m model.Model, l *ledger.Ledger, optFns ...func(o *Options)) (*Narrator, error) {
	if m == nil {
		return nil, core.NewError(core.CodeInvalidArgument, "narrator: model is required")
	}
	opts := Options{
		Persona:         persona.DefaultID,
		Language:        DefaultLanguage,
		MemoryThreshold: memory.DefaultThreshold,
		ExciseCount:     memory.DefaultExciseCount,
		DefaultContext:  DefaultContext,
		Notice:          DefaultNotice,
		Prologue:        DefaultPrologue,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = persona.DefaultRegistry()
	}
	if opts.Chapters == nil {
		opts.Chapters = DefaultChapters()
	}
	if l == nil {
		l = ledger.New()
	}

	n := &Narrator{
		model:  m,
		ledger: l,
		memory: memory.New(func(o *memory.Options) {
			o.Threshold = opts.MemoryThreshold
			o.ExciseCount = opts.ExciseCount
		}),
		opts:   opts,
		logger: logging.OrNoOp(opts.Logger),
	}
	if err := n.SetPersona(opts.Persona); err != nil {
		return nil, err
	}
	return n, nil
}

// SetPersona switches to a registered persona. Unknown ids leave the state unchanged.
func (n *Narrator) SetPersona(id string) error {
	p, err := n.opts.Registry.Get(id)
	if err != nil {
		return err
	}
	prompt, err := p.Render(persona.Vars{Language: n.opts.Language})
	if err != nil {
		return core.WrapError(core.CodeInvalidPersona, "render persona "+id, err)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.personaID = id
	n.systemPrompt = prompt
	return nil
}

// SetSystemPrompt installs a caller supplied prompt and switches to the custom persona.
func (n *Narrator) SetSystemPrompt(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.personaID = persona.CustomID
	n.systemPrompt = text
}

// CurrentPersona returns the active persona id.
func (n *Narrator) CurrentPersona() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.personaID
}

// SystemPrompt returns the active system prompt.
func (n *Narrator) SystemPrompt() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.systemPrompt
}

// Personas lists the selectable persona ids.
func (n *Narrator) Personas() []string { return n.opts.Registry.IDs() }

// Description returns the description of id.
func (n *Narrator) Description(id string) (string, error) {
	return n.opts.Registry.Description(id)
}

// CurrentDescription returns the description of the active persona.
func (n *Narrator) CurrentDescription() string {
	d, _ := n.opts.Registry.Description(n.CurrentPersona())
	return d
}

// Ledger returns the ledger the narrator reads and advances.
func (n *Narrator) Ledger() *ledger.Ledger { return n.ledger }

// Memory returns a snapshot of the dialogue memory.
func (n *Narrator) Memory() memory.Snapshot { return n.memory.Snapshot() }

// GeneratePrologue returns the fixed opening and records it as a turn. No
// model call is made.
func (n *Narrator) GeneratePrologue() string {
	n.turnMu.Lock()
	defer n.turnMu.Unlock()
	n.memory.Append(memory.Turn{User: PrologueAction, AI: n.opts.Prologue})
	return n.opts.Prologue
}

// GenerateStory produces the next story segment for input. Retrieved passages
// form the background block. A model failure is returned as a Generation
// error and leaves memory, ledger and scene untouched. An exhausted call
// budget is returned as a LimitExceeded error before any state changes; the
// story call takes its slot first, so a summary that no longer fits the
// budget is skipped.
func (n *Narrator) GenerateStory(ctx context.Context, input string, retrieved []string) (string, error) {
	n.turnMu.Lock()
	defer n.turnMu.Unlock()

	if err := n.acquire(); err != nil {
		return "", err
	}

	if n.memory.TransferDue() {
		if err := n.memory.Transfer(ctx, n.memory.ExciseCount(), memory.FolderFunc(n.fold)); err != nil {
			n.logger.Warn("summarization failed; keeping previous summary", "error", err)
		}
	}

	req, err := n.compose(input, retrieved)
	if err != nil {
		return "", core.WrapError(core.CodeGeneration, "compose prompt", err)
	}

	start := time.Now()
	resp, err := n.model.Generate(ctx, req)
	info := n.model.Info()
	logging.LogLLMCall(n.logger, info.Name, info.Provider, time.Since(start), err)
	if err != nil {
		return "", core.WrapError(core.CodeGeneration, "generate story", err)
	}

	display := n.resolve(resp.Text)
	n.memory.Append(memory.Turn{User: input, AI: display})
	return display, nil
}

// compose builds the single request for a story turn.
func (n *Narrator) compose(input string, retrieved []string) (model.Request, error) {
	background := strings.TrimSpace(strings.Join(retrieved, "\n"))
	if background == "" {
		background = n.opts.DefaultContext
	}
	score := n.ledger.RebootScore()
	scene := n.ledger.Scene()
	snap := n.memory.Snapshot()

	text, err := util.Execute(turnTemplate, turnData{
		Context:      background,
		Score:        score,
		Ending:       ledger.EndingForScore(score).String(),
		Chapter:      scene.Chapter,
		Status:       string(scene.Status),
		Summary:      snap.Summary,
		Transcript:   memory.FormatTranscript(snap.Turns, "Player", "Narrator"),
		Action:       input,
		Instructions: turnInstructions(n.opts.Language, n.opts.Chapters.Obstacle(scene.Chapter)),
	})
	if err != nil {
		return model.Request{}, err
	}
	return model.Request{
		Instructions: n.SystemPrompt(),
		Messages:     []core.Message{core.UserMessage(text)},
	}, nil
}

// resolve strips the resolution marker, advances the scene when the current
// chapter has a successor and appends the notice.
func (n *Narrator) resolve(raw string) string {
	if !strings.Contains(raw, ResolutionMarker) {
		return raw
	}
	display := strings.TrimSpace(strings.ReplaceAll(raw, ResolutionMarker, ""))

	current := n.ledger.Scene().Chapter
	if next, ok := n.opts.Chapters.Next(current); ok {
		n.ledger.UpdateScene(next, ledger.StatusResolved)
		n.logger.Info("scene resolved", "from", current, "to", next)
	} else {
		n.logger.Info("scene resolved in final chapter", "chapter", current)
	}
	if n.opts.Notice == "" {
		return display
	}
	return display + "\n\n" + n.opts.Notice
}

// fold asks the model to merge excised turns into the running summary.
func (n *Narrator) fold(ctx context.Context, summary string, turns []memory.Turn) (string, error) {
	text, err := util.Execute(summaryTemplate, summaryData{
		Language:   n.opts.Language,
		Summary:    summary,
		Transcript: memory.FormatTranscript(turns, "Player", "Narrator"),
	})
	if err != nil {
		return "", err
	}
	if err := n.acquire(); err != nil {
		return "", err
	}
	resp, err := n.model.Generate(ctx, model.Request{
		Instructions: summarySystemPrompt,
		Messages:     []core.Message{core.UserMessage(text)},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// acquire takes one slot from the call budget.
func (n *Narrator) acquire() error {
	if n.opts.Limiter == nil {
		return nil
	}
	return n.opts.Limiter.Acquire()
}
