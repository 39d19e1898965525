package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/rs/zerolog"
)

// InvitationAction is the recipient's response to an invitation.
type InvitationAction string

const (
	InvitationActionAccept  InvitationAction = "accept"
	InvitationActionDecline InvitationAction = "decline"
)

// InvitationService handles the room invitation lifecycle:
// pending → accepted | declined, both terminal.
type InvitationService struct {
	invitationRepo *repository.InvitationRepository
	membershipRepo *repository.MembershipRepository
	roomRepo       *repository.RoomRepository
	userRepo       *repository.UserRepository
	log            zerolog.Logger
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo *repository.InvitationRepository,
	membershipRepo *repository.MembershipRepository,
	roomRepo *repository.RoomRepository,
	userRepo *repository.UserRepository,
	log zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		membershipRepo: membershipRepo,
		roomRepo:       roomRepo,
		userRepo:       userRepo,
		log:            log.With().Str("component", "invitation_service").Logger(),
	}
}

// Invite sends (or re-arms) an invitation. Owners may invite with any
// invitable role; admins may invite students only. Inviting an existing
// member fails with ErrAlreadyMember without touching the invitations
// table. Re-inviting overwrites the existing row back to pending
// whatever its status — a declined invitation can be re-armed.
func (s *InvitationService) Invite(ctx context.Context, roomCode string, actorID int64, req *model.InviteRequest) (*model.Invitation, error) {
	room, err := s.roomRepo.GetByCode(ctx, roomCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	actorRole, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, actorID)
	if err != nil {
		return nil, err
	}
	inviteRole, ok := model.ParseRole(req.Role)
	if !ok || !isMember || !model.CanInvite(actorRole, inviteRole) {
		return nil, ErrForbidden
	}

	target, err := s.userRepo.GetByUsernameOrEmail(ctx, req.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	_, targetIsMember, err := s.membershipRepo.RoleOf(ctx, room.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if targetIsMember {
		return nil, ErrAlreadyMember
	}

	inv := &model.Invitation{
		RoomID:        room.ID,
		InvitedUserID: target.ID,
		InvitedByID:   &actorID,
		Role:          inviteRole,
	}
	if err := s.invitationRepo.Upsert(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("room", room.Code).
		Int64("invited_user_id", target.ID).
		Str("role", string(inviteRole)).
		Msg("Invitation sent")
	return inv, nil
}

// Respond lets the invited user accept or decline. Responses to an
// invitation that already left pending are silent no-ops returning the
// current row. Accept creates the membership and marks the invitation
// accepted atomically; if the user became a member by another path in
// the meantime, it fails with ErrConflict.
func (s *InvitationService) Respond(ctx context.Context, invitationID, actorID int64, action InvitationAction) (*model.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.InvitedUserID != actorID {
		return nil, ErrForbidden
	}
	if inv.Status != model.InvitationPending {
		return inv, nil
	}

	switch action {
	case InvitationActionAccept:
		if err := s.invitationRepo.Accept(ctx, inv); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
	case InvitationActionDecline:
		declined, err := s.invitationRepo.Decline(ctx, inv)
		if err != nil {
			return nil, err
		}
		if !declined {
			// Raced with another response; return whatever won.
			return s.invitationRepo.GetByID(ctx, invitationID)
		}
		inv.Status = model.InvitationDeclined
	default:
		return nil, NewValidationError("invalid action")
	}

	return inv, nil
}

// ListForUser returns the user's invitations, newest first.
func (s *InvitationService) ListForUser(ctx context.Context, userID int64) ([]model.InvitationView, error) {
	invs, err := s.invitationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []model.InvitationView{}
	}
	return invs, nil
}
