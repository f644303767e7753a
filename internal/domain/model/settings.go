package model

// Settings is the parsed form of the backend's public settings map.
// Gateway display names and bonus percentages are keyed by gateway id.
type Settings struct {
	ManagerChatID   int64
	WelcomeMessage  string
	ReferralEnabled bool
	GatewayNames    map[string]string
	GatewayBonuses  map[string]float64
}

// GatewayLabel returns the display name for a gateway, falling back to
// the raw gateway id when no name is configured.
func (s Settings) GatewayLabel(gateway string) string {
	if name, ok := s.GatewayNames[gateway]; ok && name != "" {
		return name
	}
	return gateway
}
