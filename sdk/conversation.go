package sdk

import "context"

// CreateConversation creates (or returns the existing) conversation with
// another user
func (c *Client) CreateConversation(ctx context.Context, otherUserId, name string) (string, error) {
	req := &CreateConversationRequest{
		OtherUserId: otherUserId,
		Name:        name,
	}
	var result CreateConversationResponse
	if err := c.post(ctx, "/conversation/create", req, &result); err != nil {
		return "", err
	}
	return result.ConvId, nil
}

// GetConversationList gets the current user's conversation overviews
func (c *Client) GetConversationList(ctx context.Context) ([]*ConversationOverview, error) {
	var result []*ConversationOverview
	if err := c.get(ctx, "/conversation/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetConversation gets a conversation with its message log
func (c *Client) GetConversation(ctx context.Context, convId string) (*Conversation, error) {
	params := map[string]string{"conv_id": convId}
	var result Conversation
	if err := c.get(ctx, "/conversation/info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteConversation deletes a conversation. Fails with
// CodeDeleteBlocked while an ongoing booking ties the two participants.
func (c *Client) DeleteConversation(ctx context.Context, convId string) error {
	return c.delete(ctx, "/conversation/delete", map[string]string{"conv_id": convId})
}

// MarkRead resets the unread count of a conversation
func (c *Client) MarkRead(ctx context.Context, convId string) error {
	return c.post(ctx, "/conversation/mark_read", &MarkReadRequest{ConvId: convId}, nil)
}

// SendMessage sends a message in a conversation
func (c *Client) SendMessage(ctx context.Context, convId, receiverId, content string) (*Message, error) {
	req := &SendMessageRequest{
		ConvId:     convId,
		ReceiverId: receiverId,
		Content:    content,
	}
	var result Message
	if err := c.post(ctx, "/msg/send", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
