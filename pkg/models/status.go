package models

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectPaused    = "paused"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

// Agent statuses as reported by the liveness monitor.
const (
	AgentLaunching = "launching"
	AgentActive    = "active"
	AgentIdle      = "idle"
	AgentOffline   = "offline"
)

// Content types.
const (
	ContentMessage  = "message"
	ContentDocument = "document"
	ContentReply    = "reply"
	ContentTicket   = "ticket"
	ContentPhase    = "phase"
)

// Phase statuses.
const (
	PhaseDraft     = "draft"
	PhaseApproved  = "approved"
	PhaseActive    = "active"
	PhaseCompleted = "completed"
	PhaseBlocked   = "blocked"
)

// Ticket statuses.
const (
	TicketOpen       = "open"
	TicketClaimed    = "claimed"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Reading assignment target types.
const (
	TargetAgent = "agent"
	TargetRole  = "role"
	TargetSquad = "squad"
)

// Default limits and periods for the orchestrator loop.
const (
	DefaultTickSeconds          = 5
	DefaultPingCooldownSeconds  = 60
	DefaultPingBatchSize        = 5
	DefaultPokeThresholdMinutes = 5
	DefaultHeartbeatStaleMin    = 10
	DefaultMaxRequestBodyBytes  = 1 << 20 // 1 MiB
	DefaultSSEChannelBuffer     = 256
)
