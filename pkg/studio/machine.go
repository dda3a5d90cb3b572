// Package studio implements the generation/review/save pipeline: it turns an
// asynchronous, failure-prone, rate-limited generation call into a reviewable
// batch of candidate flashcards, tracks per-card review state, and performs a
// best-effort sequential batch save with per-item retry and duplicate
// detection. The package is host-UI-agnostic; callers observe state through
// snapshots and a coalesced update channel.
package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/pkg/apiclient"
)

// DefaultDebounceInterval is how long source-text edits settle before the
// draft is persisted.
const DefaultDebounceInterval = 500 * time.Millisecond

var (
	ErrInvalidSourceText = errors.New("source text does not meet length requirements")
	ErrSaveInProgress    = errors.New("a save is already in progress")
	ErrNothingToSave     = errors.New("no saveable proposals")
	ErrNoGeneration      = errors.New("no generation to save from")
	ErrIndexOutOfRange   = errors.New("proposal index out of range")
)

// Client is the remote surface the machine drives. *apiclient.Client
// satisfies it.
type Client interface {
	GenerateProposals(ctx context.Context, sourceText string) (*apiclient.Generation, error)
	CreateFlashcard(ctx context.Context, input apiclient.FlashcardInput) (*apiclient.Flashcard, error)
	GetExistingFlashcards(ctx context.Context, generationId *uuid.UUID) ([]apiclient.CardContent, error)
}

// Machine owns all pipeline state. Mutations are serialized: every operation
// and every timer or network completion takes the machine lock before
// touching state, so no two mutations race.
type Machine struct {
	client Client
	drafts DraftStore
	log    logger.ILogger

	debouncer *Debouncer

	mu           sync.Mutex
	source       SourceTextState
	phase        Phase
	generation   GenerationState
	rateLimit    RateLimitState
	proposals    []ProposalViewModel
	saveProgress []SaveProgressItem
	saveSources  []string
	summary      *SaveSummaryData
	saving       bool

	// saveEpoch versions the progress slice. Reset bumps it, so a batch save
	// still running to completion drops its remaining writes instead of
	// indexing into cleared state.
	saveEpoch int

	// genToken identifies the most recent generation request. Completions and
	// ticks carrying a stale token are discarded, which is how a superseded
	// in-flight request gets ignored.
	genToken     int
	genTickStop  chan struct{}
	rateTickStop chan struct{}

	notify chan struct{}
}

// Option configures a Machine.
type Option func(*Machine)

// WithDebounceInterval overrides the draft-save debounce interval.
func WithDebounceInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.debouncer = NewDebouncer(d)
	}
}

// NewMachine builds a machine in its initial configuration and loads any
// persisted draft into the source text.
func NewMachine(client Client, drafts DraftStore, log logger.ILogger, opts ...Option) *Machine {
	m := &Machine{
		client:    client,
		drafts:    drafts,
		log:       log,
		debouncer: NewDebouncer(DefaultDebounceInterval),
		phase:     PhaseIdle,
		source:    ValidateSourceText(""),
		notify:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	if draft, err := drafts.Load(context.Background()); err != nil {
		log.Warn("studio", "failed to load draft", map[string]interface{}{"error": err.Error()})
	} else if draft != "" {
		m.source = ValidateSourceText(draft)
	}

	return m
}

// Updates returns a channel that receives a (coalesced) signal after each
// state change.
func (m *Machine) Updates() <-chan struct{} {
	return m.notify
}

// Close tears down timers and pending debounced work.
func (m *Machine) Close() {
	m.mu.Lock()
	m.genToken++
	m.stopTickersLocked()
	m.mu.Unlock()
	m.debouncer.Stop()
}

// Snapshot returns a copy of the observable state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Source:     m.source,
		Phase:      m.phase,
		Generation: m.generation,
		RateLimit:  m.rateLimit,
		Saving:     m.saving,
		Counts:     CountProposalsByStatus(m.proposals),
	}
	snap.Proposals = append([]ProposalViewModel(nil), m.proposals...)
	snap.SaveProgress = append([]SaveProgressItem(nil), m.saveProgress...)
	if m.summary != nil {
		s := *m.summary
		s.Errors = append([]SaveErrorDetail(nil), m.summary.Errors...)
		snap.Summary = &s
	}
	return snap
}

// SetSourceText revalidates the source state and schedules a debounced draft
// save.
func (m *Machine) SetSourceText(text string) {
	m.mu.Lock()
	m.source = ValidateSourceText(text)
	m.mu.Unlock()
	m.notifyChanged()

	m.debouncer.Do(func() {
		m.persistDraft(text)
	})
}

// persistDraft writes or deletes the draft, best-effort: storage failures are
// logged and never surfaced.
func (m *Machine) persistDraft(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if strings.TrimSpace(text) == "" {
		err = m.drafts.Clear(ctx)
	} else {
		err = m.drafts.Save(ctx, text)
	}
	if err != nil {
		m.log.Warn("studio", "failed to persist draft", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Machine) clearDraft() {
	m.debouncer.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.drafts.Clear(ctx); err != nil {
		m.log.Warn("studio", "failed to clear draft", map[string]interface{}{"error": err.Error()})
	}
}

// Generate starts a generation attempt. Invalid source text never reaches
// the network. A new attempt supersedes any in-flight one: the old request's
// completion is discarded when it eventually resolves.
func (m *Machine) Generate(ctx context.Context) error {
	m.mu.Lock()
	if !m.source.IsValid {
		m.mu.Unlock()
		return ErrInvalidSourceText
	}
	if m.saving {
		m.mu.Unlock()
		return ErrSaveInProgress
	}

	m.genToken++
	token := m.genToken
	m.stopTickersLocked()

	m.phase = PhaseGenerating
	m.generation = GenerationState{IsLoading: true}
	m.rateLimit = RateLimitState{}
	m.proposals = nil
	m.saveProgress = nil
	m.saveSources = nil
	m.summary = nil

	stop := make(chan struct{})
	m.genTickStop = stop
	text := m.source.Text
	m.mu.Unlock()
	m.notifyChanged()

	go m.tickElapsed(token, stop)
	go m.runGeneration(ctx, token, text)
	return nil
}

// tickElapsed advances the elapsed counter once per second while the owning
// generation attempt is loading.
func (m *Machine) tickElapsed(token int, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			if m.genToken != token || !m.generation.IsLoading {
				m.mu.Unlock()
				return
			}
			m.generation.ElapsedTime++
			m.mu.Unlock()
			m.notifyChanged()
		}
	}
}

func (m *Machine) runGeneration(ctx context.Context, token int, text string) {
	gen, err := m.client.GenerateProposals(ctx, text)

	m.mu.Lock()
	if m.genToken != token {
		// Superseded while in flight.
		m.mu.Unlock()
		return
	}
	m.stopTickersLocked()
	m.generation.IsLoading = false

	if err != nil {
		var rle *apiclient.RateLimitError
		if errors.As(err, &rle) {
			m.enterRateLimitedLocked(token, rle.RetryAfter)
		} else {
			m.phase = PhaseFailed
			m.generation.Error = &ErrorInfo{
				Code:    GenericGenerationErrorCode,
				Message: apiclient.GetErrorMessage(err),
			}
			m.log.Error("studio", "generation failed", map[string]interface{}{"error": err.Error()})
		}
		m.mu.Unlock()
		m.notifyChanged()
		return
	}

	m.phase = PhaseProposalsReady
	m.generation.Generation = gen
	m.proposals = make([]ProposalViewModel, 0, len(gen.Proposals))
	for _, p := range gen.Proposals {
		m.proposals = append(m.proposals, NewProposalViewModel(p))
	}
	m.mu.Unlock()
	m.notifyChanged()

	m.clearDraft()
}

// enterRateLimitedLocked starts the countdown for a 429. The ticker clears
// the limited state by itself when it reaches zero.
func (m *Machine) enterRateLimitedLocked(token int, retryAfter int) {
	reset := time.Now().Add(time.Duration(retryAfter) * time.Second)
	m.phase = PhaseRateLimited
	m.rateLimit = RateLimitState{
		IsLimited:  true,
		RetryAfter: retryAfter,
		ResetTime:  &reset,
	}

	stop := make(chan struct{})
	m.rateTickStop = stop
	go m.tickRateLimit(token, stop)
}

func (m *Machine) tickRateLimit(token int, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			if m.genToken != token || !m.rateLimit.IsLimited {
				m.mu.Unlock()
				return
			}
			m.rateLimit.RetryAfter--
			if m.rateLimit.RetryAfter <= 0 {
				m.rateLimit = RateLimitState{}
				m.phase = PhaseIdle
				m.rateTickStop = nil
				m.mu.Unlock()
				m.notifyChanged()
				return
			}
			m.mu.Unlock()
			m.notifyChanged()
		}
	}
}

func (m *Machine) stopTickersLocked() {
	if m.genTickStop != nil {
		close(m.genTickStop)
		m.genTickStop = nil
	}
	if m.rateTickStop != nil {
		close(m.rateTickStop)
		m.rateTickStop = nil
	}
}

// AcceptProposal marks a pending proposal accepted. It has no effect from
// any other status.
func (m *Machine) AcceptProposal(i int) error {
	m.mu.Lock()
	defer m.unlockAndNotify()

	if i < 0 || i >= len(m.proposals) {
		return ErrIndexOutOfRange
	}
	if m.proposals[i].Status == ProposalPending {
		m.proposals[i].Status = ProposalAccepted
	}
	return nil
}

// RejectProposal permanently excludes a proposal from saving. Rejection is
// terminal and idempotent.
func (m *Machine) RejectProposal(i int) error {
	m.mu.Lock()
	defer m.unlockAndNotify()

	if i < 0 || i >= len(m.proposals) {
		return ErrIndexOutOfRange
	}
	m.proposals[i].Status = ProposalRejected
	return nil
}

// EditProposalField updates a field and revalidates both. A genuine change
// moves the proposal to edited; reverting the pair back to the original
// lands on accepted, never back on pending. Rejected proposals keep their
// status.
func (m *Machine) EditProposalField(i int, field FieldKind, value string) error {
	m.mu.Lock()
	defer m.unlockAndNotify()

	if i < 0 || i >= len(m.proposals) {
		return ErrIndexOutOfRange
	}
	vm := &m.proposals[i]

	if field == FieldFront {
		vm.CurrentFront = value
	} else {
		vm.CurrentBack = value
	}
	vm.ValidationErrors.Front = ValidateProposalField(vm.CurrentFront, FieldFront)
	vm.ValidationErrors.Back = ValidateProposalField(vm.CurrentBack, FieldBack)

	if vm.Status == ProposalRejected {
		return nil
	}

	if IsProposalModified(*vm) {
		vm.Status = ProposalEdited
		vm.IsEdited = true
	} else {
		vm.Status = ProposalAccepted
		vm.IsEdited = false
	}
	return nil
}

// SaveAccepted persists every saveable proposal, strictly one at a time. A
// single item's failure never aborts the batch; outcomes land in the
// progress list and the final summary.
func (m *Machine) SaveAccepted(ctx context.Context) error {
	m.mu.Lock()
	if m.saving {
		m.mu.Unlock()
		return ErrSaveInProgress
	}
	if m.generation.Generation == nil {
		m.mu.Unlock()
		return ErrNoGeneration
	}

	indexes := FilterSaveableProposals(m.proposals)
	if len(indexes) == 0 {
		m.mu.Unlock()
		return ErrNothingToSave
	}

	m.saving = true
	m.saveEpoch++
	epoch := m.saveEpoch
	m.summary = nil
	m.saveProgress = make([]SaveProgressItem, 0, len(indexes))
	m.saveSources = make([]string, 0, len(indexes))
	for _, idx := range indexes {
		vm := m.proposals[idx]
		m.saveProgress = append(m.saveProgress, SaveProgressItem{
			ProposalIndex: idx,
			Front:         strings.TrimSpace(vm.CurrentFront),
			Back:          strings.TrimSpace(vm.CurrentBack),
			Status:        SavePending,
		})
		source := apiclient.SourceAIFull
		if vm.Status == ProposalEdited {
			source = apiclient.SourceAIEdited
		}
		m.saveSources = append(m.saveSources, source)
	}
	generationId := m.generation.Generation.Id
	items := append([]SaveProgressItem(nil), m.saveProgress...)
	sources := append([]string(nil), m.saveSources...)
	m.mu.Unlock()
	m.notifyChanged()

	// Duplicate detection is auxiliary: a failed lookup degrades to an empty
	// key set rather than blocking the save.
	existingKeys := make(map[string]struct{})
	existing, err := m.client.GetExistingFlashcards(ctx, nil)
	if err != nil {
		m.log.Warn("studio", "existing flashcards lookup failed, saving without dedup", map[string]interface{}{"error": err.Error()})
	}
	for _, card := range existing {
		existingKeys[NormalizeFlashcardKey(card.Front, card.Back)] = struct{}{}
	}

	for i, item := range items {
		m.setProgress(epoch, i, SaveSaving, "", nil)

		key := NormalizeFlashcardKey(item.Front, item.Back)
		if _, dup := existingKeys[key]; dup {
			m.setProgress(epoch, i, SaveDuplicate, "", nil)
			continue
		}

		card, err := m.client.CreateFlashcard(ctx, apiclient.FlashcardInput{
			Front:        item.Front,
			Back:         item.Back,
			Source:       sources[i],
			GenerationId: &generationId,
		})
		if err != nil {
			m.setProgress(epoch, i, SaveError, apiclient.GetErrorMessage(err), nil)
			continue
		}

		// Later items in the batch must see this key so identical content is
		// not saved twice in one run.
		existingKeys[key] = struct{}{}
		m.setProgress(epoch, i, SaveSuccess, "", &card.Id)
	}

	m.mu.Lock()
	if m.saveEpoch == epoch {
		m.summary = m.buildSummaryLocked()
		m.saving = false
	}
	m.mu.Unlock()
	m.notifyChanged()
	return nil
}

func (m *Machine) setProgress(epoch, i int, status SaveStatus, errMsg string, cardId *uuid.UUID) {
	m.mu.Lock()
	if m.saveEpoch != epoch {
		m.mu.Unlock()
		return
	}
	m.saveProgress[i].Status = status
	m.saveProgress[i].Error = errMsg
	if cardId != nil {
		m.saveProgress[i].FlashcardId = cardId
	}
	m.mu.Unlock()
	m.notifyChanged()
}

func (m *Machine) buildSummaryLocked() *SaveSummaryData {
	summary := &SaveSummaryData{TotalAttempted: len(m.saveProgress)}
	for i, item := range m.saveProgress {
		switch item.Status {
		case SaveSuccess:
			summary.SuccessCount++
			if m.saveSources[i] == apiclient.SourceAIEdited {
				summary.EditedCount++
			} else {
				summary.UneditedCount++
			}
		case SaveDuplicate:
			summary.DuplicateCount++
		case SaveError:
			summary.ErrorCount++
			summary.Errors = append(summary.Errors, SaveErrorDetail{
				ProgressIndex: i,
				Front:         item.Front,
				Back:          item.Back,
				Error:         item.Error,
			})
		}
	}
	return summary
}

// RetrySaveItem re-attempts exactly one failed progress item. It is a no-op
// while a batch save runs or when the target is not in error status. Only
// the targeted item and the aggregate summary change.
func (m *Machine) RetrySaveItem(ctx context.Context, i int) error {
	m.mu.Lock()
	if m.saving {
		m.mu.Unlock()
		return nil
	}
	if i < 0 || i >= len(m.saveProgress) || m.saveProgress[i].Status != SaveError {
		m.mu.Unlock()
		return nil
	}
	if m.generation.Generation == nil {
		m.mu.Unlock()
		return ErrNoGeneration
	}

	m.saving = true
	epoch := m.saveEpoch
	item := m.saveProgress[i]
	m.saveProgress[i].Status = SaveSaving

	// Source follows the proposal's current status, not the one captured at
	// batch time.
	source := apiclient.SourceAIFull
	if m.proposals[item.ProposalIndex].Status == ProposalEdited {
		source = apiclient.SourceAIEdited
	}
	generationId := m.generation.Generation.Id
	m.mu.Unlock()
	m.notifyChanged()

	card, err := m.client.CreateFlashcard(ctx, apiclient.FlashcardInput{
		Front:        item.Front,
		Back:         item.Back,
		Source:       source,
		GenerationId: &generationId,
	})

	m.mu.Lock()
	if m.saveEpoch != epoch {
		// Reset cleared the progress this retry was working against.
		m.mu.Unlock()
		return nil
	}
	m.saving = false
	if err != nil {
		m.saveProgress[i].Status = SaveError
		m.saveProgress[i].Error = apiclient.GetErrorMessage(err)
		m.mu.Unlock()
		m.notifyChanged()
		return nil
	}

	m.saveProgress[i].Status = SaveSuccess
	m.saveProgress[i].Error = ""
	m.saveProgress[i].FlashcardId = &card.Id
	m.saveSources[i] = source

	if m.summary != nil {
		m.summary.ErrorCount--
		m.summary.SuccessCount++
		if source == apiclient.SourceAIEdited {
			m.summary.EditedCount++
		} else {
			m.summary.UneditedCount++
		}
		// Content can repeat across failed items. The progress index is the
		// only unambiguous handle on which entry to drop.
		for j, detail := range m.summary.Errors {
			if detail.ProgressIndex == i {
				m.summary.Errors = append(m.summary.Errors[:j], m.summary.Errors[j+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()
	m.notifyChanged()
	return nil
}

// Reset returns the machine to its initial configuration and clears the
// persisted draft. An in-flight generation is superseded and its result
// discarded. A batch save already running keeps issuing its requests but
// every remaining outcome is dropped.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.genToken++
	m.saveEpoch++
	m.stopTickersLocked()
	m.source = ValidateSourceText("")
	m.phase = PhaseIdle
	m.generation = GenerationState{}
	m.rateLimit = RateLimitState{}
	m.proposals = nil
	m.saveProgress = nil
	m.saveSources = nil
	m.summary = nil
	m.saving = false
	m.mu.Unlock()

	m.clearDraft()
	m.notifyChanged()
}

func (m *Machine) unlockAndNotify() {
	m.mu.Unlock()
	m.notifyChanged()
}

func (m *Machine) notifyChanged() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
