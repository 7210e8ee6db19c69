package extract

import "strings"

// Wordlists live here as plain data, not inlined regex literals, so the
// filtering rules can be unit-tested in isolation.

// Title length bounds for anything a heuristic pattern proposes as a job.
const (
	MinTitleLen = 10
	MaxTitleLen = 150
)

// TitleKeywords is the vocabulary a candidate title must hit before a
// low-confidence pattern accepts it.
var TitleKeywords = []string{
	"engineer", "engineering", "developer", "designer", "architect",
	"manager", "director", "lead", "head of", "vp ", "vice president",
	"scientist", "researcher", "analyst", "specialist", "consultant",
	"coordinator", "administrator", "accountant", "controller", "counsel",
	"recruiter", "marketer", "marketing", "sales", "account executive",
	"product", "program", "project", "operations", "support", "success",
	"finance", "security", "devops", "sre", "data", "intern", "writer",
	"editor", "technician", "representative", "strategist",
}

// ExcludePhrases suppresses navigation, legal and pagination text that the
// generic patterns would otherwise mistake for postings.
var ExcludePhrases = []string{
	"privacy policy", "privacy notice", "cookie", "terms of service",
	"terms & conditions", "terms and conditions", "talent community",
	"talent network", "job alert", "sign in", "sign up", "log in", "login",
	"apply now", "apply here", "view all", "view job", "view more",
	"see all", "learn more", "read more", "show more", "load more",
	"next page", "previous page", "back to", "about us", "contact",
	"our benefits", "our values", "our culture", "our team", "follow us",
	"all departments", "all locations", "all teams", "no results",
	"powered by", "equal opportunity", "faq", "blog", "press",
}

// DepartmentKeywords drives the heading-near-department heuristics.
var DepartmentKeywords = []string{
	"engineering", "product", "design", "marketing", "sales", "operations",
	"finance", "legal", "people", "talent", "recruiting", "support",
	"success", "data", "security", "research", "science", "general",
	"open positions", "open roles", "openings",
}

// Excluded reports whether t hits the exclusion list or falls outside the
// title length bounds. Applies to every heuristic pattern.
func Excluded(t string) bool {
	t = cleanText(t)
	if len(t) < MinTitleLen || len(t) > MaxTitleLen {
		return true
	}
	low := strings.ToLower(t)
	for _, ex := range ExcludePhrases {
		if strings.Contains(low, ex) {
			return true
		}
	}
	return false
}

// LooksLikeJobTitle is the stricter check the keyword-filtered patterns
// use: exclusions plus a required vocabulary hit.
func LooksLikeJobTitle(t string) bool {
	if Excluded(t) {
		return false
	}
	low := strings.ToLower(t)
	for _, kw := range TitleKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

func looksLikeDepartment(t string) bool {
	t = strings.ToLower(cleanText(t))
	if t == "" || len(t) > 60 {
		return false
	}
	for _, kw := range DepartmentKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
