package dialog

// answerCaptcha handles the captcha gate. A correct answer moves the
// user to the main menu after the backend confirms verification; a wrong
// one regenerates the challenge (new expected answer) and surfaces a
// transient alert without touching the main message flow.
func answerCaptcha(s *State, a Action) (*State, Plan) {
	if s.Kind != KindAwaitingCaptcha {
		return s, Plan{}
	}

	if a.Answer == s.Expected && s.Expected != "" {
		return s.clone(KindMainMenu), Plan{
			Screen:  ScreenMainMenu,
			Effects: []Effect{EffectConfirmCaptcha},
		}
	}

	// Retries are unbounded; rate limiting, if any, belongs to the
	// challenge provider.
	next := s.clone(KindAwaitingCaptcha)
	return next, Plan{
		Screen:  ScreenCaptcha,
		Effects: []Effect{EffectIssueChallenge},
		Notice:  "captcha.wrong_answer",
	}
}
