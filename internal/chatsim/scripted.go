// Package chatsim is the scripted practice-call simulator. It plays a
// customer character using keyword-driven responses only; no generated text
// enters the system from here.
package chatsim

import "strings"

// Topics a trainee is expected to cover during a practice call.
const (
	TopicPrice           = "price"
	TopicContract        = "contract"
	TopicSpeed           = "speed"
	TopicInstallation    = "installation"
	TopicCancellationFee = "cancellation_fee"
)

var allTopics = []string{TopicPrice, TopicContract, TopicSpeed, TopicInstallation, TopicCancellationFee}

// topicKeywords maps each topic to the phrases that count as covering it.
var topicKeywords = map[string][]string{
	TopicPrice:           {"price", "cost", "monthly fee", "per month", "pay"},
	TopicContract:        {"contract", "commitment", "term", "12 month", "24 month"},
	TopicSpeed:           {"speed", "mbps", "bandwidth", "download", "upload"},
	TopicInstallation:    {"install", "setup", "technician", "activation"},
	TopicCancellationFee: {"cancellation", "cancel fee", "early termination", "exit fee"},
}

type Character struct {
	Type        string
	Opening     string
	TopicReplies map[string]string
	Fallback    string
	Closing     string
}

var characters = map[string]Character{
	"happy_customer": {
		Type:    "happy_customer",
		Opening: "Good day! My neighbor mentioned your campaign and was quite happy with it. I'm considering fiber internet myself.",
		TopicReplies: map[string]string{
			TopicPrice:           "That sounds reasonable! Is there anything included in that price, like a modem?",
			TopicContract:        "A commitment period is fine by me, as long as the service is good.",
			TopicSpeed:           "That speed would be great for the whole family. We stream a lot.",
			TopicInstallation:    "Wonderful, and how soon could the technician come by?",
			TopicCancellationFee: "Good to know. I don't plan to cancel, but it's nice to be informed.",
		},
		Fallback: "I see! Could you tell me a bit more about the offer?",
		Closing:  "You've answered everything I wanted to know. Let's go ahead with it!",
	},
	"angry_customer": {
		Type:    "angry_customer",
		Opening: "I've been on hold for twenty minutes. This better be worth my time.",
		TopicReplies: map[string]string{
			TopicPrice:           "That's what the last agent said too, and then my bill said otherwise. Is that the final price?",
			TopicContract:        "Another contract? Fine, but I want the terms in writing.",
			TopicSpeed:           "I've heard speed promises before. What do I actually get at peak hours?",
			TopicInstallation:    "I'm not waiting at home all day for a technician again.",
			TopicCancellationFee: "So you do charge for leaving. At least you're honest about it.",
		},
		Fallback: "Get to the point, please. What exactly are you offering?",
		Closing:  "Alright, alright. You've covered everything. Send me the paperwork.",
	},
}

// Known reports whether a character type is scripted.
func Known(characterType string) bool {
	_, ok := characters[characterType]
	return ok
}

// CharacterTypes lists the available characters.
func CharacterTypes() []string {
	types := make([]string, 0, len(characters))
	for t := range characters {
		types = append(types, t)
	}
	return types
}

// NewCollectedInfo returns the per-session topic coverage map, all false.
func NewCollectedInfo() map[string]bool {
	info := make(map[string]bool, len(allTopics))
	for _, t := range allTopics {
		info[t] = false
	}
	return info
}

// Scripted is the in-process Responder implementation.
type Scripted struct{}

func NewScripted() *Scripted { return &Scripted{} }

// Opening returns the character's first line.
func (s *Scripted) Opening(characterType string) string {
	return characters[characterType].Opening
}

// Reply matches the trainee's message against the topic keywords, marks the
// newly covered topics in collected (mutating it), and returns the scripted
// response. Once every topic is covered the character closes the call.
func (s *Scripted) Reply(characterType, message string, collected map[string]bool) string {
	char, ok := characters[characterType]
	if !ok {
		return ""
	}

	lower := strings.ToLower(message)
	var matched string
	for _, topic := range allTopics {
		if collected[topic] {
			continue
		}
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				collected[topic] = true
				if matched == "" {
					matched = topic
				}
				break
			}
		}
	}

	if covered(collected) {
		return char.Closing
	}
	if matched != "" {
		return char.TopicReplies[matched]
	}
	return char.Fallback
}

func covered(collected map[string]bool) bool {
	for _, t := range allTopics {
		if !collected[t] {
			return false
		}
	}
	return true
}
