package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

type CampaignStatusUseCase struct {
	Tracker *CampaignTracker
}

func NewCampaignStatusUseCase(tracker *CampaignTracker) *CampaignStatusUseCase {
	return &CampaignStatusUseCase{Tracker: tracker}
}

func (uc *CampaignStatusUseCase) Execute(ctx context.Context) (*CampaignStatusOutput, error) {
	state, err := uc.Tracker.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	signed, pending := entity.Progress(state.Signatures, state.Roster)
	return &CampaignStatusOutput{
		SnapshotView: NewSnapshotView(state.Snapshot),
		Signed:       signed,
		Pending:      pending,
	}, nil
}

// ResolveRoleUseCase backs the sign-in flow: the email must be on the roster,
// and an employee who gives a name must give the roster name.
type ResolveRoleUseCase struct {
	Roster RosterProvider
}

func NewResolveRoleUseCase(roster RosterProvider) *ResolveRoleUseCase {
	return &ResolveRoleUseCase{Roster: roster}
}

func (uc *ResolveRoleUseCase) Execute(ctx context.Context, input ResolveRoleInput) (*ResolveRoleOutput, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, validationFailed([]ValidationError{{"email", "is required"}})
	}

	roster, err := uc.Roster.Roster(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeConfiguration, Message: "roster unavailable", Err: err}
	}

	person, err := entity.LookupPerson(input.Email, roster)
	if errors.Is(err, entity.ErrPersonNotFound) {
		return nil, notFound()
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if person.Role == entity.RoleEmployee && name != "" && person.Name != "" && !strings.EqualFold(name, person.Name) {
		return nil, notFound()
	}
	if name == "" {
		name = person.Name
	}

	return &ResolveRoleOutput{Email: person.Email, Name: name, Role: person.Role}, nil
}

func notFound() error {
	return &DomainError{Code: CodeNotFound, Message: "Name or Email not found in our records"}
}
