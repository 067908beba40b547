package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gastosfacil/backend/internal/ledger"
	"github.com/gastosfacil/backend/internal/middleware"
	"github.com/gastosfacil/backend/internal/models"
)

// GroupService serves group, membership and group balance endpoints.
type GroupService struct {
	engine *ledger.Engine
}

// NewGroupService creates a new GroupService backed by the ledger engine.
func NewGroupService(engine *ledger.Engine) *GroupService {
	return &GroupService{engine: engine}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	Email string `json:"email"`
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	slog.Debug("ListGroups request received", "user_id", userID)

	groups, err := s.engine.ListGroupsForUser(r.Context(), userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.GroupSummary{"groups": groups})
}

// CreateGroup creates a group with the caller as admin.
func (s *GroupService) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("CreateGroup request received", "user_id", userID, "name", req.Name)

	group, err := s.engine.CreateGroup(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		slog.Warn("CreateGroup failed", "user_id", userID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*models.Group{"group": group})
}

// AddMember adds a registered user to the group by email.
func (s *GroupService) AddMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")

	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("AddMember request received", "user_id", userID, "group_id", groupID)

	member, err := s.engine.AddMember(r.Context(), groupID, userID, req.Email)
	if err != nil {
		slog.Warn("AddMember failed", "group_id", groupID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*models.Membership{"member": member})
}

// ListMembers returns the group's members in join order.
func (s *GroupService) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")

	members, err := s.engine.ListMembers(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Membership{"members": members})
}

// ListGroupExpenses returns one group's expenses, newest first.
func (s *GroupService) ListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")

	expenses, err := s.engine.ListGroupExpenses(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Expense{"expenses": expenses})
}

// GroupBalances returns even-split balances and suggested settlements.
func (s *GroupService) GroupBalances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := chi.URLParam(r, "groupID")
	slog.Debug("GroupBalances request received", "user_id", userID, "group_id", groupID)

	report, err := s.engine.GroupBalances(r.Context(), groupID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
