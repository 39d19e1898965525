package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/rs/zerolog"
)

const (
	roomCodeLength  = 8
	roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// roomCodeRetries bounds collision retries; at 36^8 codes a second
	// collision in a row means something is very wrong.
	roomCodeRetries = 5
)

// RoomService handles room lifecycle and membership management.
type RoomService struct {
	roomRepo       *repository.RoomRepository
	membershipRepo *repository.MembershipRepository
	assignmentRepo *repository.AssignmentRepository
	log            zerolog.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	roomRepo *repository.RoomRepository,
	membershipRepo *repository.MembershipRepository,
	assignmentRepo *repository.AssignmentRepository,
	log zerolog.Logger,
) *RoomService {
	return &RoomService{
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		assignmentRepo: assignmentRepo,
		log:            log.With().Str("component", "room_service").Logger(),
	}
}

// Create makes a new room owned by the actor, who becomes an owner-role
// member in the same transaction. The join code is generated and retried
// on the (astronomically unlikely) collision.
func (s *RoomService) Create(ctx context.Context, ownerID int64, req *model.CreateRoomRequest) (*model.Room, error) {
	for i := 0; i < roomCodeRetries; i++ {
		room := &model.Room{
			Code:        generateRoomCode(),
			Name:        req.Name,
			Description: req.Description,
			OwnerID:     ownerID,
		}
		err := s.roomRepo.CreateWithOwner(ctx, room)
		if err == nil {
			s.log.Info().Str("code", room.Code).Int64("owner_id", ownerID).Msg("Room created")
			return room, nil
		}
		if isUniqueViolation(err) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("generate room code: %d collisions in a row", roomCodeRetries)
}

// Detail returns a room with the caller's role (nil for non-members),
// its members and its quiz assignments.
func (s *RoomService) Detail(ctx context.Context, code string, userID int64) (*model.RoomDetail, error) {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	detail := &model.RoomDetail{Room: *room}

	role, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, userID)
	if err != nil {
		return nil, err
	}
	if isMember {
		detail.Role = &role
	}

	if detail.Members, err = s.membershipRepo.ListByRoom(ctx, room.ID); err != nil {
		return nil, err
	}
	if detail.Assignments, err = s.assignmentRepo.ListByRoom(ctx, room.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete removes a room. Owner only; deletion cascades memberships,
// invitations and assignments.
func (s *RoomService) Delete(ctx context.Context, code string, actorID int64) error {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return err
	}

	role, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, actorID)
	if err != nil {
		return err
	}
	if !isMember || !model.RolesDeleteRoom.Contains(role) {
		return ErrForbidden
	}

	if err := s.roomRepo.Delete(ctx, room.ID); err != nil {
		return err
	}
	s.log.Info().Str("code", room.Code).Msg("Room deleted")
	return nil
}

// JoinByCode joins the actor into a room as a student. Joining a room
// the actor already belongs to is a no-op success.
func (s *RoomService) JoinByCode(ctx context.Context, code string, userID int64) (*model.Room, bool, error) {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return nil, false, err
	}

	_, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, userID)
	if err != nil {
		return nil, false, err
	}
	if isMember {
		return room, true, nil
	}

	m := &model.Membership{RoomID: room.ID, UserID: userID, Role: model.RoleStudent}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		// A concurrent duplicate join lost the race on the unique key;
		// the membership exists, which is all the caller asked for.
		if isUniqueViolation(err) {
			return room, true, nil
		}
		return nil, false, err
	}
	return room, false, nil
}

// RemoveMember removes a member from a room under the role rules:
// owners remove admins and students, admins remove students only, and
// the owner membership is never removable.
func (s *RoomService) RemoveMember(ctx context.Context, code string, actorID, targetUserID int64) error {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return err
	}

	actorRole, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}

	targetRole, targetIsMember, err := s.membershipRepo.RoleOf(ctx, room.ID, targetUserID)
	if err != nil {
		return err
	}
	if !targetIsMember {
		return ErrNotFound
	}
	if !model.CanRemove(actorRole, targetRole) {
		return ErrForbidden
	}

	removed, err := s.membershipRepo.Delete(ctx, room.ID, targetUserID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// ChangeRole promotes/demotes a member between admin and student.
// Owner only; the owner's own membership is untouchable.
func (s *RoomService) ChangeRole(ctx context.Context, code string, actorID, targetUserID int64, newRole model.Role) error {
	room, err := s.getRoom(ctx, code)
	if err != nil {
		return err
	}

	actorRole, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}

	targetRole, targetIsMember, err := s.membershipRepo.RoleOf(ctx, room.ID, targetUserID)
	if err != nil {
		return err
	}
	if !targetIsMember {
		return ErrNotFound
	}
	if !model.CanChangeRole(actorRole, targetRole, newRole) {
		return ErrForbidden
	}

	return s.membershipRepo.UpdateRole(ctx, room.ID, targetUserID, newRole)
}

// ListForUser returns the rooms the user belongs to with their role.
func (s *RoomService) ListForUser(ctx context.Context, userID int64) ([]model.RoomWithRole, error) {
	rooms, err := s.roomRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []model.RoomWithRole{}
	}
	return rooms, nil
}

func (s *RoomService) getRoom(ctx context.Context, code string) (*model.Room, error) {
	room, err := s.roomRepo.GetByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

// generateRoomCode produces a short join code over A-Z0-9.
func generateRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing means the platform is broken
	}
	for i, b := range buf {
		buf[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return string(buf)
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
