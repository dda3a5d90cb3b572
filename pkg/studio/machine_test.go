package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-flashcards-be/pkg/apiclient"
)

// stubClient is a scriptable Client for machine tests.
type stubClient struct {
	mu sync.Mutex

	generation  *apiclient.Generation
	generateErr error

	existing    []apiclient.CardContent
	existingErr error

	createErrByCall map[int]error // 1-based call order
	createCalls     int
	created         []apiclient.FlashcardInput
}

func (s *stubClient) GenerateProposals(ctx context.Context, sourceText string) (*apiclient.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return s.generation, nil
}

func (s *stubClient) CreateFlashcard(ctx context.Context, input apiclient.FlashcardInput) (*apiclient.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if err, ok := s.createErrByCall[s.createCalls]; ok {
		return nil, err
	}
	s.created = append(s.created, input)
	return &apiclient.Flashcard{
		Id:           uuid.New(),
		Front:        input.Front,
		Back:         input.Back,
		Source:       input.Source,
		GenerationId: input.GenerationId,
		CreatedAt:    time.Now(),
	}, nil
}

func (s *stubClient) GetExistingFlashcards(ctx context.Context, generationId *uuid.UUID) ([]apiclient.CardContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing, s.existingErr
}

func (s *stubClient) createdInputs() []apiclient.FlashcardInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiclient.FlashcardInput(nil), s.created...)
}

func makeGeneration(n int) *apiclient.Generation {
	gen := &apiclient.Generation{
		Id:               uuid.New(),
		Model:            "gpt-4o-mini",
		GeneratedCount:   n,
		SourceTextLength: 1000,
		CreatedAt:        time.Now(),
	}
	for i := 1; i <= n; i++ {
		gen.Proposals = append(gen.Proposals, apiclient.Proposal{
			Front: fmt.Sprintf("Q%d", i),
			Back:  fmt.Sprintf("A%d", i),
		})
	}
	return gen
}

func newTestMachine(t *testing.T, client Client) (*Machine, *MemoryDraftStore) {
	t.Helper()
	store := NewMemoryDraftStore("draft:test")
	log := newTestLogger(t)
	m := NewMachine(client, store, log, WithDebounceInterval(10*time.Millisecond))
	t.Cleanup(m.Close)
	return m, store
}

var validSource = strings.Repeat("a", 1000)

// readyMachine returns a machine that has completed a generation of n
// proposals.
func readyMachine(t *testing.T, stub *stubClient, n int) *Machine {
	t.Helper()
	stub.generation = makeGeneration(n)
	m, _ := newTestMachine(t, stub)
	m.SetSourceText(validSource)
	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseProposalsReady
	}, 2*time.Second, 5*time.Millisecond)
	return m
}

func TestMachineLoadsDraftOnInit(t *testing.T) {
	store := NewMemoryDraftStore("draft:test")
	require.NoError(t, store.Save(context.Background(), "half-finished notes"))

	m := NewMachine(&stubClient{}, store, newTestLogger(t))
	t.Cleanup(m.Close)

	snap := m.Snapshot()
	assert.Equal(t, "half-finished notes", snap.Source.Text)
	assert.False(t, snap.Source.IsValid)
}

func TestSetSourceTextDebouncesDraftSave(t *testing.T) {
	m, store := newTestMachine(t, &stubClient{})

	m.SetSourceText("draft in progress")

	require.Eventually(t, func() bool {
		text, _ := store.Load(context.Background())
		return text == "draft in progress"
	}, time.Second, 5*time.Millisecond)

	// Emptying the input deletes the key instead of storing blanks.
	m.SetSourceText("   ")
	require.Eventually(t, func() bool {
		text, _ := store.Load(context.Background())
		return text == ""
	}, time.Second, 5*time.Millisecond)
}

func TestGenerateRejectsInvalidSourceText(t *testing.T) {
	stub := &stubClient{generation: makeGeneration(2)}
	m, _ := newTestMachine(t, stub)

	m.SetSourceText("too short")
	err := m.Generate(context.Background())

	assert.ErrorIs(t, err, ErrInvalidSourceText)
	assert.Equal(t, PhaseIdle, m.Snapshot().Phase)
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubClient{}
	m := readyMachine(t, stub, 5)

	snap := m.Snapshot()
	require.Len(t, snap.Proposals, 5)
	for _, vm := range snap.Proposals {
		assert.Equal(t, ProposalPending, vm.Status)
	}
	assert.Equal(t, 0, snap.Counts.Saveable)
	assert.False(t, snap.Generation.IsLoading)
	require.NotNil(t, snap.Generation.Generation)
	assert.Equal(t, 5, snap.Generation.Generation.GeneratedCount)

	// Server order is preserved.
	assert.Equal(t, "Q1", snap.Proposals[0].OriginalFront)
	assert.Equal(t, "Q5", snap.Proposals[4].OriginalFront)
}

func TestGenerateSuccessClearsDraft(t *testing.T) {
	stub := &stubClient{generation: makeGeneration(1)}
	m, store := newTestMachine(t, stub)
	m.SetSourceText(validSource)

	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseProposalsReady
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		text, _ := store.Load(context.Background())
		return text == ""
	}, time.Second, 5*time.Millisecond)
}

func TestGenerateFailureSurfacesStructuredError(t *testing.T) {
	stub := &stubClient{generateErr: &apiclient.ServiceUnavailableError{Message: "model warming up"}}
	m, _ := newTestMachine(t, stub)
	m.SetSourceText(validSource)

	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseFailed
	}, 2*time.Second, 5*time.Millisecond)

	snap := m.Snapshot()
	require.NotNil(t, snap.Generation.Error)
	assert.Equal(t, GenericGenerationErrorCode, snap.Generation.Error.Code)
	assert.Equal(t, "model warming up", snap.Generation.Error.Message)
	assert.False(t, snap.Generation.IsLoading)
}

func TestGenerateRateLimitedCountsDownAndClears(t *testing.T) {
	stub := &stubClient{generateErr: &apiclient.RateLimitError{RetryAfter: 1}}
	m, _ := newTestMachine(t, stub)
	m.SetSourceText(validSource)

	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseRateLimited
	}, 2*time.Second, 5*time.Millisecond)

	snap := m.Snapshot()
	assert.True(t, snap.RateLimit.IsLimited)
	assert.NotNil(t, snap.RateLimit.ResetTime)

	// The countdown clears itself without user action.
	require.Eventually(t, func() bool {
		s := m.Snapshot()
		return s.Phase == PhaseIdle && !s.RateLimit.IsLimited
	}, 4*time.Second, 20*time.Millisecond)
}

func TestAcceptOnlyEffectiveFromPending(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 2)

	require.NoError(t, m.AcceptProposal(0))
	assert.Equal(t, ProposalAccepted, m.Snapshot().Proposals[0].Status)

	require.NoError(t, m.RejectProposal(1))
	require.NoError(t, m.AcceptProposal(1))
	assert.Equal(t, ProposalRejected, m.Snapshot().Proposals[1].Status)
}

func TestRejectIsTerminalAndIdempotent(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 1)

	require.NoError(t, m.RejectProposal(0))
	require.NoError(t, m.RejectProposal(0))
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.EditProposalField(0, FieldFront, "new front"))

	snap := m.Snapshot()
	assert.Equal(t, ProposalRejected, snap.Proposals[0].Status)
	assert.Equal(t, 0, snap.Counts.Saveable)
}

func TestEditMarksEditedAndRevertLandsOnAccepted(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 1)

	require.NoError(t, m.EditProposalField(0, FieldFront, "Q1 rephrased"))
	snap := m.Snapshot()
	assert.Equal(t, ProposalEdited, snap.Proposals[0].Status)
	assert.True(t, snap.Proposals[0].IsEdited)

	// Reverting to the original (modulo whitespace) never returns to pending.
	require.NoError(t, m.EditProposalField(0, FieldFront, "  Q1  "))
	snap = m.Snapshot()
	assert.Equal(t, ProposalAccepted, snap.Proposals[0].Status)
	assert.False(t, snap.Proposals[0].IsEdited)
}

func TestEditRecomputesValidationErrors(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 1)

	require.NoError(t, m.EditProposalField(0, FieldBack, ""))
	snap := m.Snapshot()
	assert.Equal(t, "Back text is required", snap.Proposals[0].ValidationErrors.Back)
	assert.Equal(t, 0, snap.Counts.Saveable)

	require.NoError(t, m.EditProposalField(0, FieldBack, "a real answer"))
	snap = m.Snapshot()
	assert.True(t, snap.Proposals[0].ValidationErrors.IsClean())
	assert.Equal(t, 1, snap.Counts.Saveable)
}

func TestReviewScenarioCounts(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 5)

	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.AcceptProposal(1))
	require.NoError(t, m.EditProposalField(2, FieldFront, "Q3 improved"))
	require.NoError(t, m.RejectProposal(3))
	require.NoError(t, m.RejectProposal(4))

	counts := m.Snapshot().Counts
	assert.Equal(t, StatusCounts{Pending: 0, Accepted: 2, Edited: 1, Rejected: 2, Saveable: 3}, counts)
}

func TestSaveWithNothingSaveable(t *testing.T) {
	m := readyMachine(t, &stubClient{}, 2)

	err := m.SaveAccepted(context.Background())
	assert.ErrorIs(t, err, ErrNothingToSave)
}

func TestBatchSavePartialFailure(t *testing.T) {
	stub := &stubClient{
		createErrByCall: map[int]error{2: errors.New("insert failed")},
	}
	m := readyMachine(t, stub, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.AcceptProposal(i))
	}

	require.NoError(t, m.SaveAccepted(context.Background()))

	snap := m.Snapshot()
	require.Len(t, snap.SaveProgress, 3)
	assert.Equal(t, SaveSuccess, snap.SaveProgress[0].Status)
	assert.Equal(t, SaveError, snap.SaveProgress[1].Status)
	assert.Equal(t, "insert failed", snap.SaveProgress[1].Error)
	assert.Equal(t, SaveSuccess, snap.SaveProgress[2].Status)
	assert.NotNil(t, snap.SaveProgress[0].FlashcardId)
	assert.Nil(t, snap.SaveProgress[1].FlashcardId)

	require.NotNil(t, snap.Summary)
	assert.Equal(t, 3, snap.Summary.TotalAttempted)
	assert.Equal(t, 2, snap.Summary.SuccessCount)
	assert.Equal(t, 1, snap.Summary.ErrorCount)
	assert.Equal(t, 0, snap.Summary.DuplicateCount)
	require.Len(t, snap.Summary.Errors, 1)
	assert.Equal(t, "Q2", snap.Summary.Errors[0].Front)
	assert.False(t, snap.Saving)
}

func TestBatchSaveSkipsExistingDuplicatesWithoutNetworkCall(t *testing.T) {
	stub := &stubClient{
		existing: []apiclient.CardContent{{Front: " q1 ", Back: "A1"}},
	}
	m := readyMachine(t, stub, 2)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.AcceptProposal(1))

	require.NoError(t, m.SaveAccepted(context.Background()))

	snap := m.Snapshot()
	assert.Equal(t, SaveDuplicate, snap.SaveProgress[0].Status)
	assert.Equal(t, SaveSuccess, snap.SaveProgress[1].Status)
	assert.Equal(t, 1, snap.Summary.DuplicateCount)
	assert.Equal(t, 1, snap.Summary.SuccessCount)

	// The duplicate never hit the API.
	created := stub.createdInputs()
	require.Len(t, created, 1)
	assert.Equal(t, "Q2", created[0].Front)
}

func TestBatchSaveDedupsWithinTheBatch(t *testing.T) {
	stub := &stubClient{}
	stub.generation = makeGeneration(2)
	stub.generation.Proposals[1] = apiclient.Proposal{Front: "  q1 ", Back: "A1 "}

	m, _ := newTestMachine(t, stub)
	m.SetSourceText(validSource)
	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseProposalsReady
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.AcceptProposal(1))
	require.NoError(t, m.SaveAccepted(context.Background()))

	snap := m.Snapshot()
	assert.Equal(t, SaveSuccess, snap.SaveProgress[0].Status)
	assert.Equal(t, SaveDuplicate, snap.SaveProgress[1].Status)
	require.Len(t, stub.createdInputs(), 1)
}

func TestBatchSaveToleratesDedupLookupFailure(t *testing.T) {
	stub := &stubClient{existingErr: errors.New("list unavailable")}
	m := readyMachine(t, stub, 1)
	require.NoError(t, m.AcceptProposal(0))

	require.NoError(t, m.SaveAccepted(context.Background()))

	snap := m.Snapshot()
	assert.Equal(t, SaveSuccess, snap.SaveProgress[0].Status)
	assert.Equal(t, 1, snap.Summary.SuccessCount)
}

func TestBatchSaveSourceReflectsReviewStatus(t *testing.T) {
	stub := &stubClient{}
	m := readyMachine(t, stub, 2)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.EditProposalField(1, FieldBack, "A2 with more detail"))

	require.NoError(t, m.SaveAccepted(context.Background()))

	created := stub.createdInputs()
	require.Len(t, created, 2)
	assert.Equal(t, apiclient.SourceAIFull, created[0].Source)
	assert.Equal(t, apiclient.SourceAIEdited, created[1].Source)
	for _, input := range created {
		require.NotNil(t, input.GenerationId)
	}

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.Summary.UneditedCount)
	assert.Equal(t, 1, snap.Summary.EditedCount)
}

func TestRetryOnlyMutatesTargetAndSummary(t *testing.T) {
	stub := &stubClient{
		createErrByCall: map[int]error{2: errors.New("insert failed")},
	}
	m := readyMachine(t, stub, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.AcceptProposal(i))
	}
	require.NoError(t, m.SaveAccepted(context.Background()))

	before := m.Snapshot()
	require.Equal(t, SaveError, before.SaveProgress[1].Status)

	require.NoError(t, m.RetrySaveItem(context.Background(), 1))

	after := m.Snapshot()
	assert.Equal(t, SaveSuccess, after.SaveProgress[1].Status)
	assert.NotNil(t, after.SaveProgress[1].FlashcardId)
	assert.Equal(t, before.SaveProgress[0], after.SaveProgress[0])
	assert.Equal(t, before.SaveProgress[2], after.SaveProgress[2])

	assert.Equal(t, 3, after.Summary.SuccessCount)
	assert.Equal(t, 0, after.Summary.ErrorCount)
	assert.Empty(t, after.Summary.Errors)
}

func TestRetryRenewedFailureKeepsSummary(t *testing.T) {
	stub := &stubClient{
		createErrByCall: map[int]error{1: errors.New("first"), 2: errors.New("second")},
	}
	m := readyMachine(t, stub, 1)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.SaveAccepted(context.Background()))

	require.NoError(t, m.RetrySaveItem(context.Background(), 0))

	snap := m.Snapshot()
	assert.Equal(t, SaveError, snap.SaveProgress[0].Status)
	assert.Equal(t, "second", snap.SaveProgress[0].Error)
	assert.Equal(t, 1, snap.Summary.ErrorCount)
	require.Len(t, snap.Summary.Errors, 1)
}

func TestRetryIsNoOpForNonErrorItems(t *testing.T) {
	stub := &stubClient{}
	m := readyMachine(t, stub, 1)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.SaveAccepted(context.Background()))

	calls := len(stub.createdInputs())
	require.NoError(t, m.RetrySaveItem(context.Background(), 0))
	assert.Len(t, stub.createdInputs(), calls)
}

func TestResetReturnsToInitialConfiguration(t *testing.T) {
	stub := &stubClient{}
	m := readyMachine(t, stub, 2)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.SaveAccepted(context.Background()))

	m.Reset()

	snap := m.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Empty(t, snap.Source.Text)
	assert.Empty(t, snap.Proposals)
	assert.Empty(t, snap.SaveProgress)
	assert.Nil(t, snap.Summary)
	assert.Nil(t, snap.Generation.Generation)
}

// blockingClient parks CreateFlashcard until released, holding a save
// mid-flight so tests can interleave other operations.
type blockingClient struct {
	*stubClient
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClient) CreateFlashcard(ctx context.Context, input apiclient.FlashcardInput) (*apiclient.Flashcard, error) {
	c.entered <- struct{}{}
	<-c.release
	return c.stubClient.CreateFlashcard(ctx, input)
}

func TestResetDuringBatchSaveDropsStaleOutcomes(t *testing.T) {
	client := &blockingClient{
		stubClient: &stubClient{generation: makeGeneration(2)},
		entered:    make(chan struct{}, 2),
		release:    make(chan struct{}),
	}
	m, _ := newTestMachine(t, client)
	m.SetSourceText(validSource)
	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseProposalsReady
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.AcceptProposal(1))

	done := make(chan error, 1)
	go func() { done <- m.SaveAccepted(context.Background()) }()

	// Reset lands while the first create is still in flight.
	<-client.entered
	m.Reset()
	close(client.release)
	require.NoError(t, <-done)

	snap := m.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.Saving)
	assert.Empty(t, snap.SaveProgress)
	assert.Nil(t, snap.Summary)
}

func TestResetDuringRetryDropsCompletion(t *testing.T) {
	stub := &stubClient{createErrByCall: map[int]error{1: errors.New("insert failed")}}
	m := readyMachine(t, stub, 1)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.SaveAccepted(context.Background()))
	require.Equal(t, SaveError, m.Snapshot().SaveProgress[0].Status)

	client := &blockingClient{
		stubClient: stub,
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
	m.client = client

	done := make(chan error, 1)
	go func() { done <- m.RetrySaveItem(context.Background(), 0) }()

	<-client.entered
	m.Reset()
	close(client.release)
	require.NoError(t, <-done)

	snap := m.Snapshot()
	assert.False(t, snap.Saving)
	assert.Empty(t, snap.SaveProgress)
	assert.Nil(t, snap.Summary)
}

func TestRetryWithDuplicateContentRemovesOwnSummaryEntry(t *testing.T) {
	stub := &stubClient{
		createErrByCall: map[int]error{1: errors.New("first insert"), 2: errors.New("second insert")},
	}
	gen := makeGeneration(2)
	gen.Proposals[1] = gen.Proposals[0]
	stub.generation = gen

	m, _ := newTestMachine(t, stub)
	m.SetSourceText(validSource)
	require.NoError(t, m.Generate(context.Background()))
	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == PhaseProposalsReady
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, m.AcceptProposal(0))
	require.NoError(t, m.AcceptProposal(1))
	require.NoError(t, m.SaveAccepted(context.Background()))

	before := m.Snapshot()
	require.Len(t, before.Summary.Errors, 2)

	require.NoError(t, m.RetrySaveItem(context.Background(), 1))

	after := m.Snapshot()
	assert.Equal(t, SaveSuccess, after.SaveProgress[1].Status)
	assert.Equal(t, SaveError, after.SaveProgress[0].Status)
	require.Len(t, after.Summary.Errors, 1)
	assert.Equal(t, 0, after.Summary.Errors[0].ProgressIndex)
}

// newTestLogger routes warnings and errors into the test log.
func newTestLogger(t *testing.T) *testLogger {
	t.Helper()
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *testLogger) Info(module, message string, details map[string]interface{})  {}
func (l *testLogger) Warn(module, message string, details map[string]interface{}) {
	l.t.Logf("[WARN] %s: %s %v", module, message, details)
}
func (l *testLogger) Error(module, message string, details map[string]interface{}) {
	l.t.Logf("[ERROR] %s: %s %v", module, message, details)
}
func (l *testLogger) Sync() error { return nil }
