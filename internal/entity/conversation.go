package entity

// Conversation is the canonical record of a chat between exactly two
// users. The message log lives in its own collection keyed by conv_id;
// Messages is populated by the repository on read and never stored on the
// conversation document itself.
type Conversation struct {
	ConvId    string     `json:"conv_id" bson:"conv_id"`
	CreatorId string     `json:"creator_id" bson:"creator_id"`
	PeerId    string     `json:"peer_id" bson:"peer_id"`
	Name      string     `json:"name" bson:"name"`
	CreatedAt int64      `json:"created_at" bson:"created_at"`
	Messages  []*Message `json:"messages" bson:"-"`
}

// Participants returns the two participant ids
func (c *Conversation) Participants() (string, string) {
	return c.CreatorId, c.PeerId
}

// HasParticipant reports whether userId takes part in the conversation
func (c *Conversation) HasParticipant(userId string) bool {
	return c.CreatorId == userId || c.PeerId == userId
}

// OtherParticipant returns the participant opposite userId
func (c *Conversation) OtherParticipant(userId string) string {
	if c.CreatorId == userId {
		return c.PeerId
	}
	return c.CreatorId
}
