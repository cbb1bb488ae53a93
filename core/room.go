package core

import "time"

// Participant is an AI chat member with its own model, credential and prompt
// configuration. Participants are resolved by the character registry; the
// mute flag is room-scoped and lives on the Session, not here.
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	Avatar     string `json:"avatar,omitempty"`
	BasePrompt string `json:"base_prompt,omitempty"`
	IsCustom   bool   `json:"is_custom"`
}

// Room is a group chat container. MemberIDs preserve invitation order and
// must be non-empty; membership is immutable after creation.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"member_ids"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
