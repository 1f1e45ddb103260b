package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "atlas/contexts/identity-access/permission-service/domain/errors"
)

// ActionCategory classifies an action by the kind of access it represents.
type ActionCategory string

const (
	ActionCategoryRead   ActionCategory = "read"
	ActionCategoryWrite  ActionCategory = "write"
	ActionCategoryAdmin  ActionCategory = "admin"
	ActionCategoryCustom ActionCategory = "custom"
)

// Action identifies an operation being authorized ("read", "delete",
// "settings.update"). Normalized at construction, immutable afterwards.
type Action struct {
	value string
}

const (
	actionMinLength = 1
	actionMaxLength = 50
)

var actionPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// NewAction normalizes and validates an action identifier.
func NewAction(raw string) (Action, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < actionMinLength || len(value) > actionMaxLength {
		return Action{}, domainerrors.ErrInvalidAction
	}
	if !actionPattern.MatchString(value) {
		return Action{}, domainerrors.ErrInvalidAction
	}
	return Action{value: value}, nil
}

func (a Action) Value() string {
	return a.value
}

func (a Action) String() string {
	return a.value
}

func (a Action) Equals(other Action) bool {
	return a.value == other.value
}

// verb returns the last dotted segment, so "settings.update" classifies the
// same way as "update".
func (a Action) verb() string {
	if idx := strings.LastIndex(a.value, "."); idx >= 0 {
		return a.value[idx+1:]
	}
	return a.value
}

// Category derives the action classification from the verb.
func (a Action) Category() ActionCategory {
	switch a.verb() {
	case "read", "view", "list", "get", "search", "export":
		return ActionCategoryRead
	case "create", "update", "write", "edit", "import", "upload":
		return ActionCategoryWrite
	case "delete", "manage", "approve", "reject", "suspend", "restore", "grant", "revoke", "configure":
		return ActionCategoryAdmin
	default:
		return ActionCategoryCustom
	}
}

func (a Action) IsReadAction() bool {
	return a.Category() == ActionCategoryRead
}

func (a Action) IsWriteAction() bool {
	return a.Category() == ActionCategoryWrite
}

func (a Action) IsAdminAction() bool {
	return a.Category() == ActionCategoryAdmin
}

// IsDestructive reports actions that remove or irreversibly alter state.
func (a Action) IsDestructive() bool {
	switch a.verb() {
	case "delete", "revoke", "suspend", "reject":
		return true
	default:
		return false
	}
}

// Priority orders actions for audit display, higher values first.
func (a Action) Priority() int {
	switch a.Category() {
	case ActionCategoryAdmin:
		return 4
	case ActionCategoryWrite:
		return 3
	case ActionCategoryRead:
		return 2
	default:
		return 1
	}
}
