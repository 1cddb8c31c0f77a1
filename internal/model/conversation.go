package model

// Utterance is one line of the interview transcript.
type Utterance struct {
	Role string `json:"role"` // "candidate" or "interviewer"
	Text string `json:"text"`
}

// ConversationState holds the bookkeeping that keeps LLM-generated interviewer
// replies coherent across turns: how many follow-ups have been asked on the
// current topic, whether the last turn was a skip, and which topics have
// already been covered.
type ConversationState struct {
	FollowUpCount int         `json:"follow_up_count"`
	SkipFlag      bool        `json:"skip_flag"`
	PreviousTopic Category    `json:"previous_topic"`
	TopicsUsed    []Category  `json:"topics_used"`
	History       []Utterance `json:"history"`
}

func newConversationState() ConversationState {
	return ConversationState{TopicsUsed: make([]Category, 0, 8)}
}

func (c *ConversationState) hasTopic(topic Category) bool {
	for _, t := range c.TopicsUsed {
		if t == topic {
			return true
		}
	}
	return false
}
