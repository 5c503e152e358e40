package expansion

import "strings"

// contractions are matched case-insensitively.
var contractions = map[string]string{
	"ain't":        "is not",
	"aren't":       "are not",
	"can't":        "can not",
	"could've":     "could have",
	"couldn't":     "could not",
	"couldn't've":  "could not have",
	"didn't":       "did not",
	"doesn't":      "does not",
	"don't":        "do not",
	"hadn't":       "had not",
	"hasn't":       "has not",
	"haven't":      "have not",
	"he'd":         "he would",
	"he'll":        "he will",
	"he's":         "he is",
	"here's":       "here is",
	"how'd":        "how did",
	"how's":        "how is",
	"i'd":          "i would",
	"i'll":         "i will",
	"i'm":          "i am",
	"i've":         "i have",
	"isn't":        "is not",
	"it'd":         "it would",
	"it'll":        "it will",
	"it's":         "it is",
	"let's":        "let us",
	"ma'am":        "madam",
	"mightn't":     "might not",
	"might've":     "might have",
	"mustn't":      "must not",
	"must've":      "must have",
	"needn't":      "need not",
	"shan't":       "shall not",
	"she'd":        "she would",
	"she'll":       "she will",
	"she's":        "she is",
	"should've":    "should have",
	"shouldn't":    "should not",
	"shouldn't've": "should not have",
	"that'd":       "that would",
	"that's":       "that is",
	"there'd":      "there would",
	"there's":      "there is",
	"they'd":       "they would",
	"they'll":      "they will",
	"they're":      "they are",
	"they've":      "they have",
	"wasn't":       "was not",
	"we'd":         "we would",
	"we'll":        "we will",
	"we're":        "we are",
	"we've":        "we have",
	"weren't":      "were not",
	"what'll":      "what will",
	"what're":      "what are",
	"what's":       "what is",
	"what've":      "what have",
	"when's":       "when is",
	"where'd":      "where did",
	"where's":      "where is",
	"who'd":        "who would",
	"who'll":       "who will",
	"who's":        "who is",
	"who've":       "who have",
	"why's":        "why is",
	"won't":        "will not",
	"would've":     "would have",
	"wouldn't":     "would not",
	"wouldn't've":  "would not have",
	"y'all":        "you all",
	"you'd":        "you would",
	"you'll":       "you will",
	"you're":       "you are",
	"you've":       "you have",
}

// abbreviations are matched case-insensitively.
var abbreviations = map[string]string{
	"aita":  "am i the asshole",
	"wibta": "would i be the asshole",
	"tifu":  "today i fucked up",
	"tl;dr": "too long did not read",
	"tldr":  "too long did not read",
	"btw":   "by the way",
	"tbh":   "to be honest",
	"irl":   "in real life",
	"imo":   "in my opinion",
	"imho":  "in my humble opinion",
	"idk":   "i do not know",
	"afaik": "as far as i know",
	"fyi":   "for your information",
	"smh":   "shaking my head",
	"omg":   "oh my god",
	"lol":   "laugh out loud",
	"nta":   "not the asshole",
	"yta":   "you are the asshole",
	"esh":   "everyone sucks here",
	"mil":   "mother in law",
	"fil":   "father in law",
	"sil":   "sister in law",
	"bil":   "brother in law",
	"gf":    "girlfriend",
	"bf":    "boyfriend",
	"bff":   "best friend",
	"ldr":   "long distance relationship",
	"asap":  "as soon as possible",
}

// acronyms collide with ordinary words in lowercase and only match exactly.
var acronyms = map[string]string{
	"SO":   "significant other",
	"OP":   "original poster",
	"NAH":  "no assholes here",
	"DH":   "dear husband",
	"DW":   "dear wife",
	"INFO": "more information needed",
	"ETA":  "edited to add",
}

func builtinEntries() []Entry {
	entries := make([]Entry, 0, len(contractions)+len(abbreviations)+len(acronyms))
	for surface, spoken := range contractions {
		entries = append(entries, Entry{Surface: surface, Tokens: strings.Fields(spoken)})
	}
	for surface, spoken := range abbreviations {
		entries = append(entries, Entry{Surface: surface, Tokens: strings.Fields(spoken)})
	}
	for surface, spoken := range acronyms {
		entries = append(entries, Entry{Surface: surface, Tokens: strings.Fields(spoken), CaseSensitive: true})
	}
	return entries
}
