package content

// universalForbidden contains phrases that are never acceptable in outbound
// text, regardless of per-agent policy. Matched case-insensitively as
// substrings.
var universalForbidden = []string{
	"kill yourself",
	"go die",
	"i hate you",
	"you're stupid",
	"f**k",
	"shit",
	"damn",
	"crap",
	"idiot",
	"moron",
}

// professionalIndicators signal a professional register.
var professionalIndicators = []string{
	"thank you",
	"please",
	"appreciate",
	"happy to help",
	"let me know",
	"best regards",
	"sincerely",
}

// friendlyIndicators signal a friendly or casual register. The bare "!"
// entry counts exclamation marks as friendliness signals.
var friendlyIndicators = []string{
	"hey",
	"awesome",
	"great",
	"absolutely",
	"no problem",
	"glad to",
	"happy to",
	"!",
}

// informalMarkers drag the professionalism score down.
var informalMarkers = []string{
	"gonna", "wanna", "gotta", "dunno", "lol", "lmao", "omg", "wtf",
}
