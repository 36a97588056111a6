package safety

// Lists holds the word and phrase lists the classifier matches against.
// They are injected so moderators can swap them via configuration instead of
// a redeploy.
type Lists struct {
	ProfanityWords []string
	SpamPhrases    []string
}

// DefaultLists returns the built-in lists used when configuration provides
// no override.
func DefaultLists() Lists {
	return Lists{
		ProfanityWords: []string{
			"shit", "fuck", "fucking", "fucker", "motherfucker",
			"bitch", "bastard", "asshole", "cunt", "dick",
			"piss", "whore", "slut", "douchebag", "bullshit",
			"damn", "crap", "prick", "twat", "wanker",
		},
		SpamPhrases: []string{
			"buy now", "click here", "limited time offer", "act now",
			"free money", "make money fast", "work from home",
			"100% free", "no credit check", "double your income",
			"claim your prize", "you have been selected", "risk free",
			"earn extra cash", "satisfaction guaranteed",
		},
	}
}

// Merge returns a copy of l with non-empty override fields replaced.
func (l Lists) Merge(profanity, spam []string) Lists {
	out := l
	if len(profanity) > 0 {
		out.ProfanityWords = profanity
	}
	if len(spam) > 0 {
		out.SpamPhrases = spam
	}
	return out
}
