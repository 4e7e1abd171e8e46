package domain

import "time"

type Channel string

const (
	ChannelHostaway Channel = "Hostaway"
	ChannelGoogle   Channel = "Google"
)

type CategoryRating struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// Review is a single guest review. Rating is nil when the source supplied
// no overall score; consumers derive one from ReviewCategory (see app.Normalize).
type Review struct {
	ID             int64            `json:"id"`
	PropertyID     int64            `json:"propertyId"`
	ListingName    string           `json:"listingName"`
	ReviewerName   string           `json:"reviewerName"`
	Rating         *float64         `json:"rating"`
	ReviewCategory []CategoryRating `json:"reviewCategory"`
	PublicReview   string           `json:"publicReview"`
	SubmittedDate  time.Time        `json:"submittedDate"`
	Channel        Channel          `json:"channel"`
	IsApproved     bool             `json:"isApproved"`
	IsFlagged      bool             `json:"isFlagged"`
	Response       *string          `json:"response"`
}

// Action is a moderation action applied to a single review.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionFlag    Action = "flag"
	ActionUnflag  Action = "unflag"
	ActionRespond Action = "respond"
)

func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionFlag, ActionUnflag, ActionRespond:
		return true
	}
	return false
}

// ReviewPatch carries the only fields moderation may change. Nil fields are
// left untouched by the store.
type ReviewPatch struct {
	IsApproved *bool
	IsFlagged  *bool
	Response   *string
}
