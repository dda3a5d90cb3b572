package studio

import (
	"strings"

	"ai-flashcards-be/pkg/apiclient"
)

// ProposalStatus is the review state of a single generated card.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalEdited   ProposalStatus = "edited"
	ProposalRejected ProposalStatus = "rejected"
)

// FieldErrors carries per-field validation messages. Empty string means the
// field is valid.
type FieldErrors struct {
	Front string
	Back  string
}

func (e FieldErrors) IsClean() bool {
	return e.Front == "" && e.Back == ""
}

// ProposalViewModel tracks one generated proposal through review. Its index
// in the machine's proposal slice is its identity; the original fields are an
// immutable snapshot of the server output.
type ProposalViewModel struct {
	OriginalFront    string
	OriginalBack     string
	CurrentFront     string
	CurrentBack      string
	Status           ProposalStatus
	IsEdited         bool
	ValidationErrors FieldErrors
}

// NewProposalViewModel seeds a view model from a server proposal: current
// mirrors original, review starts at pending.
func NewProposalViewModel(p apiclient.Proposal) ProposalViewModel {
	return ProposalViewModel{
		OriginalFront: p.Front,
		OriginalBack:  p.Back,
		CurrentFront:  p.Front,
		CurrentBack:   p.Back,
		Status:        ProposalPending,
	}
}

// IsProposalModified reports whether the current pair differs from the
// original pair. Whitespace-only changes do not count.
func IsProposalModified(vm ProposalViewModel) bool {
	return strings.TrimSpace(vm.CurrentFront) != strings.TrimSpace(vm.OriginalFront) ||
		strings.TrimSpace(vm.CurrentBack) != strings.TrimSpace(vm.OriginalBack)
}

// IsSaveable reports whether the proposal is eligible for batch save:
// accepted or edited, with both fields valid.
func (vm ProposalViewModel) IsSaveable() bool {
	if vm.Status != ProposalAccepted && vm.Status != ProposalEdited {
		return false
	}
	return vm.ValidationErrors.IsClean()
}

// FilterSaveableProposals returns the indexes of saveable proposals in their
// original order.
func FilterSaveableProposals(list []ProposalViewModel) []int {
	var indexes []int
	for i, vm := range list {
		if vm.IsSaveable() {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// StatusCounts aggregates review states over a proposal list.
type StatusCounts struct {
	Pending  int
	Accepted int
	Edited   int
	Rejected int
	Saveable int
}

// CountProposalsByStatus tallies review states in a single pass.
func CountProposalsByStatus(list []ProposalViewModel) StatusCounts {
	var counts StatusCounts
	for _, vm := range list {
		switch vm.Status {
		case ProposalPending:
			counts.Pending++
		case ProposalAccepted:
			counts.Accepted++
		case ProposalEdited:
			counts.Edited++
		case ProposalRejected:
			counts.Rejected++
		}
		if vm.IsSaveable() {
			counts.Saveable++
		}
	}
	return counts
}

// NormalizeFlashcardKey builds the canonical dedup key for card content:
// trimmed, lowercased, front and back joined with a pipe.
func NormalizeFlashcardKey(front, back string) string {
	return strings.ToLower(strings.TrimSpace(front)) + "|" + strings.ToLower(strings.TrimSpace(back))
}

// IsDuplicate reports whether the normalized key for the given content is
// already present in the existing key set.
func IsDuplicate(front, back string, existing map[string]struct{}) bool {
	_, ok := existing[NormalizeFlashcardKey(front, back)]
	return ok
}
