package models

import "time"

// Role is the normalized role identifier assigned to a slot.
type Role string

const (
	RoleTank      Role = "tank"
	RoleHealer    Role = "healer"
	RoleSupport   Role = "support"
	RoleMeleeDPS  Role = "melee_dps"
	RoleRangedDPS Role = "ranged_dps"
	RoleMount     Role = "mount"
	RoleCaller    Role = "caller"
)

// RaidType says whether an activity needs an exact party size or a range.
type RaidType string

const (
	RaidTypeFixed RaidType = "FIXED"
	RaidTypeFlex  RaidType = "FLEX"
)

// DefaultTitle is used when neither the model nor the message yields a title.
const DefaultTitle = "Raid Event"

// PartySize bounds the number of participants for a content type.
type PartySize struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RoleSlot is one sign-up position in the raid.
// Name keeps the original label text ("Tank 1", a weapon nickname, ...);
// Role is the normalized identifier. Count is always 1 in this model.
type RoleSlot struct {
	Name            string   `json:"name"`
	Role            Role     `json:"role"`
	Count           int      `json:"count"`
	PreAssignedUser string   `json:"pre_assigned_user,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
}

// ParsedRaidRecord is the final structured output of a parse call.
// Confidence and ContentTypeConfidence are always clamped into [0,1];
// Date is always a concrete timestamp.
type ParsedRaidRecord struct {
	ID                    string     `json:"id,omitempty" db:"id"`
	Title                 string     `json:"title" db:"title"`
	Description           string     `json:"description,omitempty" db:"description"`
	Date                  time.Time  `json:"date" db:"date"`
	Location              string     `json:"location,omitempty" db:"location"`
	Requirements          []string   `json:"requirements" db:"-"`
	Roles                 []RoleSlot `json:"roles" db:"-"`
	MaxParticipants       int        `json:"max_participants,omitempty" db:"max_participants"`
	Notes                 string     `json:"notes,omitempty" db:"notes"`
	Confidence            float64    `json:"confidence" db:"confidence"`
	ContentType           string     `json:"content_type,omitempty" db:"content_type"`
	ContentTypeConfidence float64    `json:"content_type_confidence,omitempty" db:"content_type_confidence"`
	Provider              string     `json:"provider,omitempty" db:"provider"`
	ModelVersion          string     `json:"model_version,omitempty" db:"model_version"`
	ParsedAt              time.Time  `json:"parsed_at" db:"parsed_at"`
}

// ModelRaidDraft is the raw, loosely-typed output of the generative call.
// Every field may be absent or malformed; postprocessing treats it as
// untrusted input.
type ModelRaidDraft struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ContentType     string      `json:"contentType"`
	Timestamp       string      `json:"timestamp"`
	Location        string      `json:"location"`
	Requirements    []string    `json:"requirements"`
	Roles           []DraftRole `json:"roles"`
	MaxParticipants *int        `json:"maxParticipants"`
	Notes           string      `json:"notes"`
	Confidence      *float64    `json:"confidence"`
	ContentTypeConf *float64    `json:"contentTypeConfidence"`
}

// DraftResult couples a parsed draft with the raw completion text and the
// identity of the provider that actually served the call. Attribution is
// captured at completion time because the client may fail over between
// requests.
type DraftResult struct {
	Draft        *ModelRaidDraft
	Raw          string
	Provider     string
	ModelVersion string
}

// DraftRole mirrors one role entry in the model's JSON. PreAssignedUser is
// `any` because models return strings, numbers or null here.
type DraftRole struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	PreAssignedUser any    `json:"preAssignedUser"`
}

// MessageContext is the session context a chat-platform adapter passes
// alongside the raw message text.
type MessageContext struct {
	GuildID     string    `json:"guild_id"`
	ChannelID   string    `json:"channel_id"`
	AuthorID    string    `json:"author_id"`
	MessageID   string    `json:"message_id"`
	Timestamp   time.Time `json:"timestamp"`
	Mentions    []string  `json:"mentions,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
}

// PreAssignedRole links a slot label to a role resolved from the dictionary.
type PreAssignedRole struct {
	SlotName   string  `json:"slot_name"`
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"`
}

// ContentTypeSuggestion is the preprocessor's content-type hint passed to the
// model prompt and used as a fallback during postprocessing.
type ContentTypeSuggestion struct {
	Type       string    `json:"type"`
	Confidence float64   `json:"confidence"`
	PartySize  PartySize `json:"party_size"`
	RaidType   RaidType  `json:"raid_type"`
}

// ClampConfidence forces v into [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
