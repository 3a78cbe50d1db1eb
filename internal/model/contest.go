package model

// ContestEntry is a photo submitted to a post-session contest.
//
// Fields:
//  ID           – unique entry identifier (UUID).
//  Photographer – display name of the submitting member.
//  Email        – submitting member's email, used to enforce the
//                 one-entry-per-member rule.
//  ImageURL     – location of the submitted photo.
//  Votes        – running vote count.
type ContestEntry struct {
	ID           string `json:"id"`
	Photographer string `json:"photographer"`
	Email        string `json:"email"`
	ImageURL     string `json:"image_url"`
	Votes        int    `json:"votes"`
}

// Contest is a derived view: one exists for every session whose
// computed end time has passed.  Entries are stored independently
// keyed by session ID, so they survive even if the session itself is
// later dropped from the agenda.
type Contest struct {
	SessionID int64          `json:"session_id"`
	Title     string         `json:"title"`
	Entries   []ContestEntry `json:"entries"`
}

// Proposal is a member-suggested theme for a future session.  A new
// proposal starts with its author's vote already counted.
type Proposal struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Theme  string `json:"theme"`
	Votes  int    `json:"votes"`
}
