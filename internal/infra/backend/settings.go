package backend

import (
	"strconv"
	"strings"

	"telegram-storefront-bot/internal/domain/model"
)

// Public settings map keys shared with the backend.
const (
	keyWelcomeMessage  = "NEW_USER_WELCOME_MESSAGE"
	keyReferralEnabled = "REFERRAL_PROGRAM_ENABLED"
	prefixGatewayBonus = "GATEWAY_BONUS_"
	prefixGatewayName  = "GATEWAY_DISPLAY_NAME_"
)

func parseSettings(managerChatID int64, public map[string]string) model.Settings {
	s := model.Settings{
		ManagerChatID:  managerChatID,
		GatewayNames:   map[string]string{},
		GatewayBonuses: map[string]float64{},
	}
	for k, v := range public {
		switch {
		case k == keyWelcomeMessage:
			s.WelcomeMessage = v
		case k == keyReferralEnabled:
			s.ReferralEnabled = v == "true" || v == "1"
		case strings.HasPrefix(k, prefixGatewayBonus):
			if bonus, err := strconv.ParseFloat(v, 64); err == nil {
				s.GatewayBonuses[strings.TrimPrefix(k, prefixGatewayBonus)] = bonus
			}
		case strings.HasPrefix(k, prefixGatewayName):
			s.GatewayNames[strings.TrimPrefix(k, prefixGatewayName)] = v
		}
	}
	return s
}
