package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// ManagerAction is an operator decision on an administrative balance
// request. The request id inside the token is the only correlation key;
// the manager listener keeps no state between requests.
type ManagerAction struct {
	Approve   bool
	RequestID int64
	Kind      string // deposit | withdrawal
}

const managerTag = "sbr"

// Encode serializes as "sbr:approve:<id>:<kind>" / "sbr:reject:<id>:<kind>".
func (m ManagerAction) Encode() string {
	verb := "reject"
	if m.Approve {
		verb = "approve"
	}
	return fmt.Sprintf("%s:%s:%d:%s", managerTag, verb, m.RequestID, m.Kind)
}

// DecodeManagerAction parses an operator button token. Unknown shapes
// are rejected outright.
func DecodeManagerAction(raw string) (ManagerAction, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 || parts[0] != managerTag {
		return ManagerAction{}, false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return ManagerAction{}, false
	}
	if parts[3] != "deposit" && parts[3] != "withdrawal" {
		return ManagerAction{}, false
	}
	switch parts[1] {
	case "approve":
		return ManagerAction{Approve: true, RequestID: id, Kind: parts[3]}, true
	case "reject":
		return ManagerAction{Approve: false, RequestID: id, Kind: parts[3]}, true
	}
	return ManagerAction{}, false
}
