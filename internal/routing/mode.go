package routing

// Mode is the handling mode chosen for a request.
type Mode string

const (
	// ModeOfflineCommand handles a whitelisted command with deterministic
	// templates while the generation backend is unavailable.
	ModeOfflineCommand Mode = "offline-command"

	// ModeOfflineGuidance produces a structured fallback narrative while
	// the generation backend is unavailable.
	ModeOfflineGuidance Mode = "offline-guidance"

	// ModeOnlineConversation routes the request into a multi-turn
	// conversation session.
	ModeOnlineConversation Mode = "online-conversation"

	// ModeOnlineDirect hands the request to the owning agent's one-shot
	// direct handler.
	ModeOnlineDirect Mode = "online-direct"
)

// IsOffline reports whether the mode is one of the two offline modes.
func (m Mode) IsOffline() bool {
	return m == ModeOfflineCommand || m == ModeOfflineGuidance
}

// ChatCommand is the canonical command for free-form conversation.
// An empty command is treated the same way.
const ChatCommand = "chat"

// Parameter keys recognized as explicit mode overrides.
const (
	ParamConversationMode = "conversationMode"
	ParamDirectMode       = "directMode"
)

// offlineCommands is the fixed whitelist of commands that still work
// without a generation backend.
var offlineCommands = map[string]bool{
	"new":      true,
	"template": true,
	"help":     true,
	"status":   true,
}

// IsOfflineCommand reports whether cmd is in the offline whitelist.
func IsOfflineCommand(cmd string) bool {
	return offlineCommands[cmd]
}

// OfflineCommands returns the whitelist in a stable order, for rejection
// messages that must name the allowed set.
func OfflineCommands() []string {
	return []string{"new", "template", "help", "status"}
}

// Overrides holds the explicit mode overrides extracted from request
// parameters. Conversation wins over Direct when both are set.
type Overrides struct {
	Conversation bool
	Direct       bool
}

// OverridesFrom reads the override parameters out of a request.
// Only the literal value "true" activates an override.
func OverridesFrom(req Request) Overrides {
	return Overrides{
		Conversation: req.Param(ParamConversationMode) == "true",
		Direct:       req.Param(ParamDirectMode) == "true",
	}
}

// SelectMode picks the handling mode for a request. First match wins:
//
//  1. Backend unavailable → offline. Whitelisted commands get
//     ModeOfflineCommand, everything else ModeOfflineGuidance.
//  2. Explicit conversation override → ModeOnlineConversation.
//  3. Explicit direct override → ModeOnlineDirect.
//  4. Chat-style request (empty command or ChatCommand) with a
//     conversation engine attached → ModeOnlineConversation.
//  5. Otherwise → ModeOnlineDirect.
func SelectMode(req Request, backendAvailable, engineAttached bool, ov Overrides) Mode {
	if !backendAvailable {
		if IsOfflineCommand(req.Command) {
			return ModeOfflineCommand
		}
		return ModeOfflineGuidance
	}

	if ov.Conversation {
		return ModeOnlineConversation
	}
	if ov.Direct {
		return ModeOnlineDirect
	}

	if (req.Command == "" || req.Command == ChatCommand) && engineAttached {
		return ModeOnlineConversation
	}

	return ModeOnlineDirect
}
