package model

// CaptchaChallenge is one challenge issued by the external provider.
// Solution is embedded into the dialogue state at issue time; it is never
// re-derived from the provider afterwards.
type CaptchaChallenge struct {
	Image    []byte
	Solution string
	Options  []string
}
