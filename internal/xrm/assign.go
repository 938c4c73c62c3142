package xrm

import (
	"fmt"
	"strings"
)

// AssignTo is the target of the assign dialog.
type AssignTo int

const (
	AssignToMe AssignTo = iota
	AssignToUser
	AssignToTeam
)

func (a AssignTo) String() string {
	switch a {
	case AssignToMe:
		return "me"
	case AssignToUser:
		return "user"
	case AssignToTeam:
		return "team"
	}
	return fmt.Sprintf("AssignTo(%d)", int(a))
}

func ParseAssignTo(s string) (AssignTo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "me":
		return AssignToMe, nil
	case "user":
		return AssignToUser, nil
	case "team":
		return AssignToTeam, nil
	}
	return 0, fmt.Errorf("'%s' is not a valid assignee type", s)
}
