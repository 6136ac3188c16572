package constants

type APIStatus string

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"
)

// ReviewStatus is the lifecycle of a user's whitelist application
type ReviewStatus string

const (
	ReviewStatusNone     ReviewStatus = "none"
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewAction is a moderator decision on a whitelist card
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// Terminal maps an action to the review status it commits
func (a ReviewAction) Terminal() ReviewStatus {
	if a == ActionApprove {
		return ReviewStatusApproved
	}
	return ReviewStatusRejected
}

// Valid reports whether the action is one of the two known kinds
func (a ReviewAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// WhitelistQuestions is the fixed question set of the application form,
// in presentation order
var WhitelistQuestions = []string{
	"ID Roblox",
	"Nome do Roblox",
	"Em que país moras?",
	"Qual é sua idade real?",
	"Você joga no PC?",
	"Você tem microfone?",
}

// EmptyAnswerPlaceholder is stored for questions the applicant left blank
const EmptyAnswerPlaceholder = "-"
